package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"vrhouse/internal/history"
	"vrhouse/internal/logging"
	"vrhouse/internal/packaging"
	"vrhouse/internal/pipeline"
	"vrhouse/internal/scene"
	"vrhouse/internal/services"
	"vrhouse/internal/textutil"
	"vrhouse/internal/watch"
)

type convertOutput struct {
	RunID          string             `json:"run_id"`
	Project        string             `json:"project"`
	PackagePath    string             `json:"package_path"`
	EncryptionKey  string             `json:"encryption_key"`
	KeyFile        string             `json:"key_file,omitempty"`
	PhysicsProfile map[string]float64 `json:"physics_profile"`
	AIMetadata     map[string]string  `json:"ai_metadata"`
}

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var (
		project    string
		outputDir  string
		noPhysics  bool
		noAI       bool
		key        string
		platforms  []string
		notes      string
		jsonOutput bool
		noHistory  bool
	)

	cmd := &cobra.Command{
		Use:   "convert SOURCE",
		Short: "Convert a model file into an encrypted VR package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			source, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve source path: %w", err)
			}

			conv := cfg.Conversion
			if cmd.Flags().Changed("no-physics") {
				conv.EnablePhysics = !noPhysics
			}
			if cmd.Flags().Changed("no-ai") {
				conv.EnableAIRealism = !noAI
			}
			if len(platforms) > 0 {
				if conv.TargetPlatforms, err = parsePlatforms(platforms); err != nil {
					return err
				}
			}

			spec := watch.SpecificationFor(source, conv)
			if strings.TrimSpace(project) != "" {
				spec.ProjectName = textutil.SanitizeFileName(project)
			}
			spec.Notes = notes
			spec.OutputEncryptionKey = strings.TrimSpace(key)

			out := strings.TrimSpace(outputDir)
			if out == "" {
				out = cfg.Paths.OutputDir
			}
			if out, err = filepath.Abs(out); err != nil {
				return fmt.Errorf("resolve output directory: %w", err)
			}

			logger, err := ctx.newLogger(cmd)
			if err != nil {
				return err
			}
			shutdown, err := ctx.startTelemetry(cmd.Context())
			if err != nil {
				logger.Warn("telemetry setup failed", logging.Error(err))
			} else {
				defer func() { _ = shutdown(cmd.Context()) }()
			}

			runID := uuid.NewString()
			runCtx := services.WithRunID(cmd.Context(), runID)

			var store *history.Store
			if !noHistory {
				if store, err = ctx.openHistory(); err != nil {
					logger.Warn("history unavailable", logging.Error(err))
					store = nil
				} else {
					defer store.Close()
					if _, err := store.Begin(runCtx, runID, spec, out); err != nil {
						logger.Warn("history record failed", logging.Error(err))
					}
				}
			}

			runner := pipeline.New(pipeline.WithLogger(logger))
			result, runErr := runner.Run(runCtx, spec, out, newProgressRenderer(cmd.ErrOrStderr()).Sink())
			if store != nil {
				if runErr != nil {
					err = store.Fail(runCtx, runID, runErr)
				} else {
					err = store.Complete(runCtx, runID, result)
				}
				if err != nil {
					logger.Warn("history update failed", logging.Error(err))
				}
			}
			if runErr != nil {
				return runErr
			}
			return printConversion(cmd, runID, spec, result, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project name (defaults to the source file stem)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (defaults to paths.output_dir)")
	cmd.Flags().BoolVar(&noPhysics, "no-physics", false, "Skip physics profile generation")
	cmd.Flags().BoolVar(&noAI, "no-ai", false, "Skip AI material realism")
	cmd.Flags().StringVar(&key, "encryption-key", "", "Use this key instead of generating one")
	cmd.Flags().StringSliceVar(&platforms, "platform", nil, "Target platform (repeatable: meta-quest, htc-vive, pimax)")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes attached to the request")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record this run in the history ledger")
	return cmd
}

// parsePlatforms lowercases --platform values and rejects unknown headset families.
func parsePlatforms(values []string) ([]string, error) {
	out := make([]string, 0, len(values))
	for _, v := range values {
		id := strings.ToLower(strings.TrimSpace(v))
		if !scene.KnownPlatform(id) {
			return nil, services.Wrap(
				services.ErrInvalidSpecification, pipeline.StageValidate, "check platforms",
				fmt.Sprintf("unknown platform %q (expected one of %s)", v, strings.Join(scene.DefaultPlatforms(), ", ")),
				nil,
			)
		}
		out = append(out, id)
	}
	return out, nil
}

func printConversion(cmd *cobra.Command, runID string, spec scene.Specification, result scene.ConversionResult, asJSON bool) error {
	keyFile := ""
	if !spec.HasEncryptionKey() {
		keyFile = packaging.KeyPath(filepath.Dir(result.PackagePath), spec.ProjectName)
	}
	if asJSON {
		return writeJSON(cmd, convertOutput{
			RunID:          runID,
			Project:        spec.ProjectName,
			PackagePath:    result.PackagePath,
			EncryptionKey:  result.EncryptionKey,
			KeyFile:        keyFile,
			PhysicsProfile: result.Scene.PhysicsProfile,
			AIMetadata:     result.Scene.AIMetadata,
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Package: %s\n", result.PackagePath)
	fmt.Fprintf(out, "Key: %s\n", result.EncryptionKey)
	if keyFile != "" {
		fmt.Fprintf(out, "Key file: %s\n", keyFile)
	}
	fmt.Fprintf(out, "Run: %s\n", runID)
	return nil
}
