// Package storage provides the data persistence layer for the mosys application.
//
// The durable form of the database is a single SQLite byte image (the
// snapshot). The store works on a private working copy and writes the image
// back after every mutation, so durable state is at most one mutation behind
// memory state.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mosys-app/mosys/internal/common"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Snapshot and working file names inside the data directory.
const (
	snapshotFile = "mosys.db"
	workFile     = "mosys.work.db"
)

// Store owns the embedded database handle and the durable snapshot image.
// Exactly one Store exists per process; repositories and the reporting engine
// receive it by reference.
type Store struct {
	db           *sql.DB
	dataDir      string
	workPath     string
	snapshotPath string
}

// Statement is one parameterized statement of a transactional batch.
// Args are always bound positionally, never interpolated.
type Statement struct {
	SQL  string
	Args []any
}

// ExecResult reports the outcome of a mutating statement.
type ExecResult struct {
	InsertedID   int64
	RowsAffected int64
}

// Open loads the persisted database image from dataDir if present, otherwise
// creates an empty database, then applies the schema and seeds defaults.
// On failure no handle is left open.
func Open(ctx context.Context, dataDir string) (*Store, error) {
	if strings.TrimSpace(dataDir) == "" {
		return nil, fmt.Errorf("%w: data directory", common.ErrInvalidConfig)
	}
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Store{
		dataDir:      dataDir,
		workPath:     filepath.Join(dataDir, workFile),
		snapshotPath: filepath.Join(dataDir, snapshotFile),
	}

	// The working copy is disposable; always rebuild it from the snapshot.
	removeDatabaseFiles(s.workPath)

	restored := false
	if _, err := os.Stat(s.snapshotPath); err == nil {
		if err := copyFile(s.snapshotPath, s.workPath); err != nil {
			return nil, fmt.Errorf("failed to restore database image: %w", err)
		}
		restored = true
	}

	db, err := sql.Open("sqlite3", s.workPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	s.db = db

	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		s.db = nil
		return nil, err
	}
	if err := s.persist(ctx); err != nil {
		_ = db.Close()
		s.db = nil
		return nil, err
	}

	slog.Info("database ready",
		"data_dir", dataDir,
		"restored_from_snapshot", restored)

	return s, nil
}

// Close releases the database handle. The snapshot already holds the durable
// state, so nothing is flushed here.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Execute runs one mutating statement, persists the image, and returns the
// driver-reported inserted id and affected row count.
func (s *Store) Execute(ctx context.Context, query string, args ...any) (ExecResult, error) {
	if err := s.validateReady(ctx); err != nil {
		return ExecResult{}, err
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return ExecResult{}, fmt.Errorf("failed to execute statement: %w", err)
	}

	var out ExecResult
	if id, idErr := res.LastInsertId(); idErr == nil {
		out.InsertedID = id
	}
	if n, nErr := res.RowsAffected(); nErr == nil {
		out.RowsAffected = n
	}

	if err := s.persist(ctx); err != nil {
		return out, err
	}
	return out, nil
}

// RunTransaction executes the batch atomically: all statements apply or none
// do. The image is persisted only after a successful commit.
func (s *Store) RunTransaction(ctx context.Context, stmts []Statement) error {
	if err := s.validateReady(ctx); err != nil {
		return err
	}
	if len(stmts) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for i, stmt := range stmts {
		if _, execErr := tx.ExecContext(ctx, stmt.SQL, stmt.Args...); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("statement %d of %d failed: %w", i+1, len(stmts), execErr)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s.persist(ctx)
}

// Status reports connectivity and primary-table row counts. It never returns
// an error; failures degrade to a disconnected status.
type Status struct {
	Message   string
	Movements int
	Debts     int
	Connected bool
}

// Status probes the database with a trivial query and counts the two primary
// tables.
func (s *Store) Status(ctx context.Context) Status {
	if s == nil || s.db == nil {
		return Status{Message: "database not initialized"}
	}

	var one int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return Status{Message: fmt.Sprintf("database probe failed: %v", err)}
	}

	st := Status{Connected: true, Message: "database operational"}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM movimientos").Scan(&st.Movements); err != nil {
		return Status{Message: fmt.Sprintf("failed to count movements: %v", err)}
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM deudas").Scan(&st.Debts); err != nil {
		return Status{Message: fmt.Sprintf("failed to count debts: %v", err)}
	}
	return st
}

// persist serializes the full database to the snapshot image. Called after
// every mutation (write-through); the rename keeps the image replacement
// atomic.
func (s *Store) persist(ctx context.Context) error {
	// Ensure the WAL is folded into the main file before copying.
	if _, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("failed to checkpoint WAL: %w", err)
	}

	tmpPath := s.snapshotPath + ".tmp"
	if err := os.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear stale snapshot temp file: %w", err)
	}

	if err := validateImagePath(tmpPath); err != nil {
		return err
	}
	// VACUUM INTO writes a compact, consistent copy (SQLite 3.27+). The path
	// cannot be bound as a parameter; validateImagePath guards the formatting.
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("VACUUM INTO '%s'", tmpPath)); err != nil {
		return fmt.Errorf("failed to serialize database image: %w", err)
	}

	if err := os.Rename(tmpPath, s.snapshotPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace snapshot image: %w", err)
	}
	return nil
}

func (s *Store) validateReady(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	if s == nil || s.db == nil {
		return common.ErrStoreClosed
	}
	return nil
}

// validateImagePath rejects paths that cannot be safely embedded in the
// VACUUM INTO statement.
func validateImagePath(path string) error {
	if strings.ContainsAny(path, `'";`) {
		return fmt.Errorf("invalid snapshot path %q: contains forbidden characters", path)
	}
	return nil
}

// removeDatabaseFiles deletes a SQLite database file and its sidecars.
func removeDatabaseFiles(path string) {
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove database file", "path", p, "error", err)
		}
	}
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0600)
}

// Stored timestamp layouts. fecha carries minute precision, created_at and
// updated_at come from datetime('now') with second precision.
const (
	dateTimeLayout  = "2006-01-02 15:04"
	timestampLayout = "2006-01-02 15:04:05"
	dateLayout      = "2006-01-02"
)

func formatDateTime(t time.Time) string {
	return t.Format(dateTimeLayout)
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// parseStoredTime accepts every timestamp shape the schema produces.
func parseStoredTime(s string) time.Time {
	for _, layout := range []string{timestampLayout, dateTimeLayout, dateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// queryable is an interface satisfied by both *sql.DB and *sql.Tx.
type queryable interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
