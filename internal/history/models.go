package history

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"vrhouse/internal/scene"
)

// Status is the lifecycle state of a recorded conversion.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// ErrNotFound is returned by Get for unknown run ids.
var ErrNotFound = errors.New("history entry not found")

// Entry is one recorded conversion run.
type Entry struct {
	ID                string
	Project           string
	SourceFile        string
	OutputDir         string
	Status            Status
	EnablePhysics     bool
	EnableAIRealism   bool
	TargetPlatforms   []string
	PackagePath       string
	PhysicsParameters int
	ErrorKind         string
	ErrorMessage      string
	StartedAt         time.Time
	FinishedAt        *time.Time
}

// Duration reports how long a finished run took, or zero while running.
func (e Entry) Duration() time.Duration {
	if e.FinishedAt == nil {
		return 0
	}
	return e.FinishedAt.Sub(e.StartedAt)
}

const entryColumns = "id, project, source_file, output_dir, status, enable_physics, enable_ai_realism, target_platforms, package_path, physics_parameters, error_kind, error_message, started_at, finished_at"

func scanEntry(scanner interface{ Scan(dest ...any) error }) (*Entry, error) {
	var (
		e           Entry
		status      string
		physics     int
		ai          int
		platforms   sql.NullString
		packagePath sql.NullString
		errorKind   sql.NullString
		errorMsg    sql.NullString
		startedRaw  string
		finishedRaw sql.NullString
	)
	if err := scanner.Scan(
		&e.ID,
		&e.Project,
		&e.SourceFile,
		&e.OutputDir,
		&status,
		&physics,
		&ai,
		&platforms,
		&packagePath,
		&e.PhysicsParameters,
		&errorKind,
		&errorMsg,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return nil, err
	}
	e.Status = Status(status)
	e.EnablePhysics = physics != 0
	e.EnableAIRealism = ai != 0
	e.TargetPlatforms = scene.SplitList(platforms.String)
	e.PackagePath = packagePath.String
	e.ErrorKind = errorKind.String
	e.ErrorMessage = errorMsg.String
	e.StartedAt = parseTime(startedRaw)
	if finishedRaw.Valid && strings.TrimSpace(finishedRaw.String) != "" {
		t := parseTime(finishedRaw.String)
		e.FinishedAt = &t
	}
	return &e, nil
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
