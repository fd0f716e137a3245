package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"vrhouse/internal/history"
	"vrhouse/internal/logging"
	"vrhouse/internal/pipeline"
	"vrhouse/internal/watch"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var inbox string
	var outputDir string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Convert model files dropped into the inbox until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			inboxDir := cfg.Watch.InboxDir
			if strings.TrimSpace(inbox) != "" {
				if inboxDir, err = filepath.Abs(inbox); err != nil {
					return fmt.Errorf("resolve inbox: %w", err)
				}
			}
			out := cfg.Paths.OutputDir
			if strings.TrimSpace(outputDir) != "" {
				if out, err = filepath.Abs(outputDir); err != nil {
					return fmt.Errorf("resolve output directory: %w", err)
				}
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

			var store *history.Store
			if store, err = ctx.openHistory(); err != nil {
				logger.Warn("history unavailable", logging.Error(err))
				store = nil
			} else {
				defer store.Close()
			}

			stdout := cmd.OutOrStdout()
			w, err := watch.New(watch.Options{
				InboxDir:   inboxDir,
				OutputDir:  out,
				Conversion: cfg.Conversion,
				Runner:     pipeline.New(pipeline.WithLogger(logger)),
				History:    store,
				Logger:     logger,
				OnResult: func(r watch.Result) {
					if jsonOutput {
						if err := encodeJSON(stdout, newWatchEvent(r), ""); err != nil {
							logger.Warn("write watch event failed", logging.Error(err))
						}
						return
					}
					if r.Err != nil {
						fmt.Fprintf(stdout, "failed  %s: %s\n", filepath.Base(r.SourceFile), formatError(r.Err))
						return
					}
					fmt.Fprintf(stdout, "packed  %s -> %s\n", filepath.Base(r.SourceFile), r.Conversion.PackagePath)
				},
			})
			if err != nil {
				return err
			}
			if err := w.Open(); err != nil {
				return err
			}
			defer w.Close()

			banner := stdout
			if jsonOutput {
				banner = cmd.ErrOrStderr()
			}
			fmt.Fprintf(banner, "Watching %s (Ctrl+C to stop)\n", inboxDir)
			return w.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&inbox, "inbox", "", "Inbox directory (defaults to watch.inbox_dir)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (defaults to paths.output_dir)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print one JSON line per conversion attempt")
	return cmd
}
