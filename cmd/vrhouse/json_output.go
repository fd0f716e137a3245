package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"vrhouse/internal/history"
	"vrhouse/internal/services"
	"vrhouse/internal/watch"
)

// writeJSON prints v as indented JSON on the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	return encodeJSON(cmd.OutOrStdout(), v, "  ")
}

// encodeJSON writes v followed by a newline. An empty indent yields one
// compact line. File paths are written without HTML escaping.
func encodeJSON(w io.Writer, v any, indent string) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(v)
}

// watchEvent is one line of `watch --json` output.
type watchEvent struct {
	RunID       string `json:"run_id"`
	SourceFile  string `json:"source_file"`
	Status      string `json:"status"`
	PackagePath string `json:"package_path,omitempty"`
	ErrorKind   string `json:"error_kind,omitempty"`
	Error       string `json:"error,omitempty"`
}

func newWatchEvent(r watch.Result) watchEvent {
	ev := watchEvent{RunID: r.RunID, SourceFile: r.SourceFile}
	if r.Err != nil {
		ev.Status = string(history.StatusFailed)
		ev.ErrorKind = services.Kind(r.Err)
		ev.Error = r.Err.Error()
		return ev
	}
	ev.Status = string(history.StatusCompleted)
	ev.PackagePath = r.Conversion.PackagePath
	return ev
}
