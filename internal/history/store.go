package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"vrhouse/internal/scene"
	"vrhouse/internal/services"
)

// timeLayout keeps fractional digits fixed so timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages the conversion ledger backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open initializes or connects to the ledger at path and applies migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, now: time.Now}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Begin records a running conversion. An empty runID gets a fresh UUID.
func (s *Store) Begin(ctx context.Context, runID string, spec scene.Specification, outputDir string) (*Entry, error) {
	if strings.TrimSpace(runID) == "" {
		runID = uuid.NewString()
	}
	started := s.timestamp()
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO conversions (
            id, project, source_file, output_dir, status,
            enable_physics, enable_ai_realism, target_platforms, started_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID,
		spec.ProjectName,
		spec.SourceFile,
		outputDir,
		StatusRunning,
		boolToInt(spec.EnablePhysics),
		boolToInt(spec.EnableAIRealism),
		nullableString(scene.JoinList(spec.Platforms())),
		started,
	)
	if err != nil {
		return nil, fmt.Errorf("insert conversion: %w", err)
	}
	return s.Get(ctx, runID)
}

// Complete marks a run as completed with its package location.
func (s *Store) Complete(ctx context.Context, id string, result scene.ConversionResult) error {
	return s.finish(
		ctx,
		`UPDATE conversions
            SET status = ?, package_path = ?, physics_parameters = ?, finished_at = ?
          WHERE id = ?`,
		StatusCompleted,
		nullableString(result.PackagePath),
		len(result.Scene.PhysicsProfile),
		s.timestamp(),
		id,
	)
}

// Fail marks a run as failed, keeping the taxonomy kind and message.
func (s *Store) Fail(ctx context.Context, id string, runErr error) error {
	details := services.Describe(runErr)
	return s.finish(
		ctx,
		`UPDATE conversions
            SET status = ?, error_kind = ?, error_message = ?, finished_at = ?
          WHERE id = ?`,
		StatusFailed,
		nullableString(details.Kind),
		nullableString(details.Message),
		s.timestamp(),
		id,
	)
}

func (s *Store) finish(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update conversion: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Get fetches one run by id.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+entryColumns+" FROM conversions WHERE id = ?", id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get conversion: %w", err)
	}
	return entry, nil
}

// List returns the most recent runs first. A non-positive limit returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	query := "SELECT " + entryColumns + " FROM conversions ORDER BY started_at DESC, rowid DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list conversions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conversion: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversions: %w", err)
	}
	return entries, nil
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(timeLayout)
}
