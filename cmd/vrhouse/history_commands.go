package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"vrhouse/internal/history"
)

type historyView struct {
	ID              string   `json:"id"`
	Project         string   `json:"project"`
	Status          string   `json:"status"`
	SourceFile      string   `json:"source_file"`
	OutputDir       string   `json:"output_dir"`
	PackagePath     string   `json:"package_path,omitempty"`
	EnablePhysics   bool     `json:"enable_physics"`
	EnableAIRealism bool     `json:"enable_ai_realism"`
	TargetPlatforms []string `json:"target_platforms"`
	ErrorKind       string   `json:"error_kind,omitempty"`
	ErrorMessage    string   `json:"error_message,omitempty"`
	StartedAt       string   `json:"started_at"`
	FinishedAt      string   `json:"finished_at,omitempty"`
}

func toHistoryView(e history.Entry) historyView {
	v := historyView{
		ID:              e.ID,
		Project:         e.Project,
		Status:          string(e.Status),
		SourceFile:      e.SourceFile,
		OutputDir:       e.OutputDir,
		PackagePath:     e.PackagePath,
		EnablePhysics:   e.EnablePhysics,
		EnableAIRealism: e.EnableAIRealism,
		TargetPlatforms: e.TargetPlatforms,
		ErrorKind:       e.ErrorKind,
		ErrorMessage:    e.ErrorMessage,
		StartedAt:       e.StartedAt.Format(time.RFC3339),
	}
	if e.FinishedAt != nil {
		v.FinishedAt = e.FinishedAt.Format(time.RFC3339)
	}
	return v
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent conversions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				views := make([]historyView, 0, len(entries))
				for _, e := range entries {
					views = append(views, toHistoryView(e))
				}
				return writeJSON(cmd, views)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No conversions recorded")
				return nil
			}

			caser := cases.Title(language.English)
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					shortID(e.ID),
					e.Project,
					caser.String(string(e.Status)),
					e.StartedAt.Local().Format("2006-01-02 15:04:05"),
					formatDuration(e.Duration()),
					historyOutcome(e),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				"",
				[]string{"ID", "Project", "Status", "Started", "Duration", "Result"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			if version, err := store.SchemaVersion(cmd.Context()); err == nil && version != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Ledger %s (schema %s)\n", store.Path(), version)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries (0 for all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print entries as JSON")
	cmd.AddCommand(newHistoryShowCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show one conversion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			entry, err := findEntry(cmd, store, strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			view := toHistoryView(*entry)
			if jsonOutput {
				return writeJSON(cmd, view)
			}
			pairs := [][2]string{
				{"ID", view.ID},
				{"Project", view.Project},
				{"Status", view.Status},
				{"Source", view.SourceFile},
				{"Output", view.OutputDir},
				{"Physics", yesNo(view.EnablePhysics)},
				{"AI realism", yesNo(view.EnableAIRealism)},
				{"Platforms", strings.Join(view.TargetPlatforms, ", ")},
				{"Started", view.StartedAt},
			}
			if view.FinishedAt != "" {
				pairs = append(pairs, [2]string{"Finished", view.FinishedAt})
			}
			if view.PackagePath != "" {
				pairs = append(pairs, [2]string{"Package", view.PackagePath})
			}
			if view.ErrorKind != "" {
				pairs = append(pairs, [2]string{"Error kind", view.ErrorKind}, [2]string{"Error", view.ErrorMessage})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderKeyValues("Conversion", pairs))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the entry as JSON")
	return cmd
}

// findEntry accepts a full run id or a unique prefix as shown by `history`.
func findEntry(cmd *cobra.Command, store *history.Store, id string) (*history.Entry, error) {
	entry, err := store.Get(cmd.Context(), id)
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, history.ErrNotFound) {
		return nil, err
	}
	entries, listErr := store.List(cmd.Context(), 0)
	if listErr != nil {
		return nil, listErr
	}
	var match *history.Entry
	for i := range entries {
		if strings.HasPrefix(entries[i].ID, id) {
			if match != nil {
				return nil, fmt.Errorf("run id prefix %q is ambiguous", id)
			}
			match = &entries[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("run %s: %w", id, history.ErrNotFound)
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(time.Millisecond).String()
}

func historyOutcome(e history.Entry) string {
	switch e.Status {
	case history.StatusCompleted:
		return e.PackagePath
	case history.StatusFailed:
		return e.ErrorKind
	default:
		return ""
	}
}
