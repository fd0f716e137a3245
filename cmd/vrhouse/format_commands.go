package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vrhouse/internal/importer"
	"vrhouse/internal/packaging"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "validate SOURCE",
		Short:       "Check that a source file has a supported format",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := importer.NewRegistry().Select(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: supported (%s)\n", args[0], loader.Format())
			return nil
		},
	}
}

func newFormatsCommand() *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:         "formats",
		Short:       "List supported source formats",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := importer.NewRegistry().Formats()
			if jsonOutput {
				return writeJSON(cmd, formats)
			}
			rows := make([][]string, 0, len(formats))
			for _, f := range formats {
				rows = append(rows, []string{f.Name, strings.Join(f.Extensions, ", ")})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable("", []string{"Format", "Extensions"}, rows, nil))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print formats as JSON")
	return cmd
}

func newKeygenCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "keygen",
		Short:       "Print a fresh package encryption key",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := packaging.GenerateKey()
			if err != nil {
				return fmt.Errorf("generate key: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}
}
