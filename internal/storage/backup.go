package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/mosys-app/mosys/internal/common"
)

// ExportImage returns the durable database image as raw bytes. The image is
// a complete SQLite file, loadable by any SQLite tool.
func (s *Store) ExportImage(ctx context.Context) ([]byte, error) {
	if err := s.validateReady(ctx); err != nil {
		return nil, err
	}

	// Refresh the snapshot so the export reflects the latest state.
	if err := s.persist(ctx); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.snapshotPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read database image: %w", err)
	}
	return data, nil
}

// ImportImage replaces the entire database with the supplied image. The image
// is validated on a separate connection first; on any validation failure the
// live database is untouched.
func (s *Store) ImportImage(ctx context.Context, image []byte) error {
	if err := s.validateReady(ctx); err != nil {
		return err
	}
	if len(image) == 0 {
		return fmt.Errorf("%w: empty image", common.ErrInvalidImage)
	}

	probePath := s.workPath + ".import"
	defer removeDatabaseFiles(probePath)
	if err := os.WriteFile(probePath, image, 0600); err != nil {
		return fmt.Errorf("failed to stage imported image: %w", err)
	}

	if err := validateImage(ctx, probePath); err != nil {
		return err
	}

	// The image is sound; swap it in and reopen.
	if err := s.db.Close(); err != nil {
		s.db = nil
		return fmt.Errorf("failed to close database for import: %w", err)
	}
	s.db = nil

	removeDatabaseFiles(s.workPath)
	if err := os.Rename(probePath, s.workPath); err != nil {
		return fmt.Errorf("failed to install imported image: %w", err)
	}

	db, err := sql.Open("sqlite3", s.workPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("failed to reopen database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping imported database: %w", err)
	}
	s.db = db

	// Older images may predate newer tables or seeds.
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	return s.persist(ctx)
}

// validateImage opens the staged image read-only and checks that every
// required table is present.
func validateImage(ctx context.Context, path string) error {
	probe, err := sql.Open("sqlite3", path+"?mode=ro")
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidImage, err)
	}
	defer func() { _ = probe.Close() }()

	rows, err := probe.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table'")
	if err != nil {
		return fmt.Errorf("%w: not a readable SQLite database: %v", common.ErrInvalidImage, err)
	}
	defer func() { _ = rows.Close() }()

	present := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("%w: %v", common.ErrInvalidImage, err)
		}
		present[name] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidImage, err)
	}

	var missing []string
	for _, table := range requiredTables {
		if !present[table] {
			missing = append(missing, table)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing tables %s", common.ErrInvalidImage, strings.Join(missing, ", "))
	}
	return nil
}
