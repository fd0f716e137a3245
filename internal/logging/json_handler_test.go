package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"vrhouse/internal/services"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var line map[string]any
		if err := json.Unmarshal([]byte(raw), &line); err != nil {
			t.Fatalf("log line is not JSON: %v (%q)", err, raw)
		}
		lines = append(lines, line)
	}
	return lines
}

func TestJSONHandlerAttachesRunFieldsFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newJSONHandler(&buf, new(slog.LevelVar), false))

	ctx := services.WithRunID(context.Background(), "run-7")
	ctx = services.WithStage(ctx, "geometry")
	logger.InfoContext(ctx, "stage started")
	logger.With(String(FieldStage, "physics")).InfoContext(ctx, "bound stage wins")
	logger.InfoContext(ctx, "explicit stage wins", String(FieldStage, "export"))
	logger.WithGroup("detail").InfoContext(ctx, "grouped", String("k", "v"))

	lines := decodeLines(t, &buf)
	if len(lines) != 4 {
		t.Fatalf("expected four lines, got %d", len(lines))
	}
	if lines[0][FieldRunID] != "run-7" || lines[0][FieldStage] != "geometry" {
		t.Fatalf("expected context fields on first line, got %v", lines[0])
	}
	if lines[1][FieldStage] != "physics" || lines[1][FieldRunID] != "run-7" {
		t.Fatalf("expected bound stage and context run id, got %v", lines[1])
	}
	if lines[2][FieldStage] != "export" {
		t.Fatalf("expected explicit stage, got %v", lines[2])
	}
	if _, ok := lines[3][FieldRunID]; ok {
		t.Fatalf("grouped logger should not hoist context fields, got %v", lines[3])
	}
}

func TestJSONHandlerNormalizesAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newJSONHandler(&buf, new(slog.LevelVar), false))
	logger.Warn("stage completed",
		String(FieldRunID, ""),
		String(FieldProject, "demo"),
		Duration("duration", 1500*time.Microsecond),
	)

	line := decodeLines(t, &buf)[0]
	if line["level"] != "warn" || line["msg"] != "stage completed" {
		t.Fatalf("unexpected level or message: %v", line)
	}
	if _, ok := line["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", line)
	}
	if _, ok := line[FieldRunID]; ok {
		t.Fatalf("empty run id should be dropped, got %v", line)
	}
	if line[FieldProject] != "demo" {
		t.Fatalf("expected project, got %v", line)
	}
	if line["duration_ms"] != 1.5 {
		t.Fatalf("expected duration in milliseconds, got %v", line)
	}
}
