package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mosys-app/mosys/internal/common"
)

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()

	src, err := Open(ctx, t.TempDir())
	if err != nil {
		t.Fatalf("failed to open source store: %v", err)
	}
	defer func() { _ = src.Close() }()

	mustCreateMovement(t, src, incomeInput(1500, "Sueldo marzo"))
	mustCreateMovement(t, src, expenseInput(75, "Internet"))

	image, err := src.ExportImage(ctx)
	if err != nil {
		t.Fatalf("failed to export: %v", err)
	}
	if len(image) == 0 {
		t.Fatal("expected nonempty image")
	}

	dst, err := Open(ctx, t.TempDir())
	if err != nil {
		t.Fatalf("failed to open destination store: %v", err)
	}
	defer func() { _ = dst.Close() }()

	if err := dst.ImportImage(ctx, image); err != nil {
		t.Fatalf("failed to import: %v", err)
	}

	st := dst.Status(ctx)
	if st.Movements != 2 {
		t.Errorf("expected 2 movements after import, got %d", st.Movements)
	}
}

func TestImportRejectsEmptyImage(t *testing.T) {
	s := newTestStore(t)

	err := s.ImportImage(context.Background(), nil)
	if !errors.Is(err, common.ErrInvalidImage) {
		t.Errorf("expected ErrInvalidImage, got %v", err)
	}
}

func TestImportRejectsGarbage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateMovement(t, s, expenseInput(10, "Pan"))

	err := s.ImportImage(ctx, []byte("this is not a sqlite database"))
	if !errors.Is(err, common.ErrInvalidImage) {
		t.Fatalf("expected ErrInvalidImage, got %v", err)
	}

	// Live database untouched after the rejected import.
	if got := s.Status(ctx).Movements; got != 1 {
		t.Errorf("expected original data intact, got %d movements", got)
	}
}

func TestImportRejectsImageMissingTables(t *testing.T) {
	ctx := context.Background()

	// Build a structurally valid SQLite image that lacks required tables.
	stranger, err := Open(ctx, t.TempDir())
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	if _, err := stranger.Execute(ctx, "DROP TABLE categorias"); err != nil {
		t.Fatalf("failed to drop table: %v", err)
	}
	image, err := stranger.ExportImage(ctx)
	if err != nil {
		t.Fatalf("failed to export: %v", err)
	}
	_ = stranger.Close()

	s := newTestStore(t)
	err = s.ImportImage(ctx, image)
	if !errors.Is(err, common.ErrInvalidImage) {
		t.Fatalf("expected ErrInvalidImage, got %v", err)
	}
	if !strings.Contains(err.Error(), "categorias") {
		t.Errorf("expected missing table named in error, got %q", err)
	}
}

func TestExportReflectsLatestState(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.ExportImage(ctx)
	if err != nil {
		t.Fatalf("failed first export: %v", err)
	}
	mustCreateMovement(t, s, expenseInput(42, "Libros"))
	second, err := s.ExportImage(ctx)
	if err != nil {
		t.Fatalf("failed second export: %v", err)
	}

	if len(first) == len(second) && string(first) == string(second) {
		t.Error("expected export to change after a mutation")
	}
}
