// Package exchange moves movements in and out of the application as CSV and
// XLSX files.
package exchange

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/mosys-app/mosys/internal/model"
	"github.com/mosys-app/mosys/internal/storage"
)

// csvHeader is the exported column layout. Import accepts the same shape.
var csvHeader = []string{
	"ID", "Tipo", "Monto", "Categoría", "Concepto",
	"Descripción", "Método de Pago", "Fecha", "Creado",
}

const csvDateLayout = "2006-01-02 15:04"

// Result tallies a best-effort import.
type Result struct {
	Imported int
	Failed   int
	Total    int
}

// ExportCSV writes the movements as CSV. Quoting is handled by the encoder,
// so commas inside concepts survive a round trip.
func ExportCSV(w io.Writer, movements []model.Movement) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, m := range movements {
		record := []string{
			strconv.FormatInt(m.ID, 10),
			string(m.Kind),
			strconv.FormatFloat(m.Amount, 'f', 2, 64),
			m.Category,
			m.Concept,
			m.Description,
			m.PaymentMethod,
			m.Date.Format(csvDateLayout),
			m.CreatedAt.Format(csvDateLayout),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// ImportCSV reads movements from r and inserts them one by one. Malformed
// rows are skipped and counted rather than aborting the whole file. The id
// and created columns are ignored; the store assigns fresh ones.
func ImportCSV(ctx context.Context, store *storage.Store, r io.Reader) (Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return Result{}, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return Result{}, nil
	}

	// Drop the header row if present.
	if strings.EqualFold(records[0][0], "ID") {
		records = records[1:]
	}

	var res Result
	res.Total = len(records)
	for i, record := range records {
		in, err := movementFromRecord(record)
		if err != nil {
			slog.Warn("skipping CSV row", "row", i+1, "error", err)
			res.Failed++
			continue
		}
		if _, err := store.CreateMovement(ctx, in); err != nil {
			slog.Warn("failed to import CSV row", "row", i+1, "error", err)
			res.Failed++
			continue
		}
		res.Imported++
	}
	return res, nil
}

func movementFromRecord(record []string) (model.MovementInput, error) {
	if len(record) < 8 {
		return model.MovementInput{}, fmt.Errorf("expected at least 8 columns, got %d", len(record))
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
	if err != nil {
		return model.MovementInput{}, fmt.Errorf("invalid amount %q", record[2])
	}

	in := model.MovementInput{
		Kind:          model.MovementKind(strings.TrimSpace(record[1])),
		Amount:        amount,
		Category:      strings.TrimSpace(record[3]),
		Concept:       strings.TrimSpace(record[4]),
		Description:   record[5],
		PaymentMethod: strings.TrimSpace(record[6]),
	}

	raw := strings.TrimSpace(record[7])
	for _, layout := range []string{csvDateLayout, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, perr := time.Parse(layout, raw); perr == nil {
			in.Date = t
			break
		}
	}
	if in.Date.IsZero() {
		return model.MovementInput{}, fmt.Errorf("invalid date %q", raw)
	}
	return in, nil
}
