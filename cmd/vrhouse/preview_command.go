package main

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"vrhouse/internal/packaging"
	"vrhouse/internal/services"
)

func newPreviewCommand() *cobra.Command {
	var (
		key        string
		keyFile    string
		maxAge     time.Duration
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:         "preview PACKAGE",
		Short:       "Decrypt a package and summarize its contents",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := resolveKey(key, keyFile)
			if err != nil {
				return err
			}
			payload, err := packaging.Decrypt(args[0], resolved, packaging.DecryptOptions{MaxAge: maxAge})
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, payload)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderPayload(payload))
			return nil
		},
	}

	cmd.Flags().StringVarP(&key, "key", "k", "", "Encryption key")
	cmd.Flags().StringVar(&keyFile, "key-file", "", "Read the encryption key from a file")
	cmd.Flags().DurationVar(&maxAge, "max-age", 0, "Reject packages older than this duration")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the decrypted payload as JSON")
	cmd.MarkFlagsMutuallyExclusive("key", "key-file")
	cmd.MarkFlagsOneRequired("key", "key-file")
	return cmd
}

func resolveKey(key, keyFile string) (string, error) {
	if strings.TrimSpace(key) != "" {
		return strings.TrimSpace(key), nil
	}
	data, err := os.ReadFile(keyFile)
	if err != nil {
		return "", services.Wrap(services.ErrIOFailure, "preview", "read key file", keyFile, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func renderPayload(p packaging.Payload) string {
	var b strings.Builder

	summary := [][2]string{
		{"Project", p.Project},
		{"Nodes", strconv.Itoa(len(p.SceneGraph))},
		{"Physics parameters", strconv.Itoa(len(p.PhysicsProfile))},
	}
	for _, k := range sortedKeys(p.AIMetadata) {
		summary = append(summary, [2]string{"Metadata " + k, p.AIMetadata[k]})
	}
	b.WriteString(renderKeyValues("Package", summary))

	nodeRows := make([][]string, 0, len(p.SceneGraph))
	for _, id := range p.SceneGraph.NodeIDs() {
		node := p.SceneGraph[id]
		attrs := make([]string, 0, len(node))
		for _, k := range sortedKeys(node) {
			attrs = append(attrs, k+"="+node[k])
		}
		nodeRows = append(nodeRows, []string{id, strings.Join(attrs, " ")})
	}
	b.WriteString("\n")
	b.WriteString(renderTable("Scene graph", []string{"Node", "Attributes"}, nodeRows, nil))

	if len(p.PhysicsProfile) > 0 {
		physicsRows := make([][]string, 0, len(p.PhysicsProfile))
		for _, k := range sortedKeys(p.PhysicsProfile) {
			physicsRows = append(physicsRows, []string{k, strconv.FormatFloat(p.PhysicsProfile[k], 'f', -1, 64)})
		}
		b.WriteString("\n")
		b.WriteString(renderTable("Physics", []string{"Parameter", "Value"}, physicsRows, []columnAlignment{alignLeft, alignRight}))
	}
	return b.String()
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	return slices.Sorted(maps.Keys(m))
}
