package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mosys-app/mosys/internal/common"
	"github.com/mosys-app/mosys/internal/model"
)

const debtColumns = `
	id, tipo, persona, monto, concepto, fecha_inicio, fecha_limite,
	COALESCE(estado, 'Pendiente'), COALESCE(notas, ''),
	COALESCE(created_at, ''), COALESCE(updated_at, '')`

// CreateDebt validates and inserts a debt, returning its new id. A zero
// StartDate defaults to today; an empty Status defaults to pending.
func (s *Store) CreateDebt(ctx context.Context, in model.DebtInput) (int64, error) {
	if err := s.validateReady(ctx); err != nil {
		return 0, err
	}
	if err := validateDebtInput(in); err != nil {
		return 0, err
	}

	start := in.StartDate
	if start.IsZero() {
		start = time.Now()
	}
	status := in.Status
	if status == "" {
		status = model.StatusPending
	}

	res, err := s.Execute(ctx, `
		INSERT INTO deudas (tipo, persona, monto, concepto, fecha_inicio, fecha_limite, estado, notas, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, datetime('now'), datetime('now'))
	`, string(in.Kind), strings.TrimSpace(in.Counterparty), in.Amount,
		strings.TrimSpace(in.Concept), formatDate(start), dueDateArg(in.DueDate),
		string(status), in.Notes)
	if err != nil {
		return 0, fmt.Errorf("failed to create debt: %w", err)
	}
	return res.InsertedID, nil
}

// GetDebt fetches one debt by id.
func (s *Store) GetDebt(ctx context.Context, id int64) (*model.Debt, error) {
	if err := s.validateReady(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+debtColumns+` FROM deudas WHERE id = ?
	`, id)

	d, err := scanDebt(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("debt %d: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get debt %d: %w", id, err)
	}
	return d, nil
}

// ListDebts returns debts matching the filter, most recent start date first.
func (s *Store) ListDebts(ctx context.Context, filter model.DebtFilter) ([]model.Debt, error) {
	if err := s.validateReady(ctx); err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + debtColumns + " FROM deudas WHERE 1=1")
	var args []any

	if filter.Kind != "" {
		sb.WriteString(" AND tipo = ?")
		args = append(args, string(filter.Kind))
	}
	if filter.Status != "" {
		sb.WriteString(" AND estado = ?")
		args = append(args, string(filter.Status))
	}
	if p := strings.TrimSpace(filter.CounterpartyLike); p != "" {
		sb.WriteString(" AND persona LIKE ?")
		args = append(args, "%"+p+"%")
	}
	sb.WriteString(" ORDER BY fecha_inicio DESC, id DESC")

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Debt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate debts: %w", err)
	}
	return out, nil
}

// UpdateDebt replaces every caller-editable field of the debt.
func (s *Store) UpdateDebt(ctx context.Context, id int64, in model.DebtInput) error {
	if err := s.validateReady(ctx); err != nil {
		return err
	}
	if err := validateDebtInput(in); err != nil {
		return err
	}

	start := in.StartDate
	if start.IsZero() {
		start = time.Now()
	}
	status := in.Status
	if status == "" {
		status = model.StatusPending
	}

	res, err := s.Execute(ctx, `
		UPDATE deudas
		SET tipo = ?, persona = ?, monto = ?, concepto = ?, fecha_inicio = ?,
		    fecha_limite = ?, estado = ?, notas = ?, updated_at = datetime('now')
		WHERE id = ?
	`, string(in.Kind), strings.TrimSpace(in.Counterparty), in.Amount,
		strings.TrimSpace(in.Concept), formatDate(start), dueDateArg(in.DueDate),
		string(status), in.Notes, id)
	if err != nil {
		return fmt.Errorf("failed to update debt %d: %w", id, err)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("debt %d: %w", id, common.ErrNotFound)
	}
	return nil
}

// DeleteDebt removes a debt by id.
func (s *Store) DeleteDebt(ctx context.Context, id int64) error {
	if err := s.validateReady(ctx); err != nil {
		return err
	}

	res, err := s.Execute(ctx, "DELETE FROM deudas WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete debt %d: %w", id, err)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("debt %d: %w", id, common.ErrNotFound)
	}
	return nil
}

// MarkDebtPaid settles a pending debt. Paying an already-paid or missing debt
// returns ErrNotFound.
func (s *Store) MarkDebtPaid(ctx context.Context, id int64) error {
	if err := s.validateReady(ctx); err != nil {
		return err
	}

	res, err := s.Execute(ctx, `
		UPDATE deudas SET estado = 'Pagado', updated_at = datetime('now')
		WHERE id = ? AND estado = 'Pendiente'
	`, id)
	if err != nil {
		return fmt.Errorf("failed to mark debt %d paid: %w", id, err)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("pending debt %d: %w", id, common.ErrNotFound)
	}
	return nil
}

// DebtSummary totals pending obligations and counts the overdue ones.
func (s *Store) DebtSummary(ctx context.Context) (*model.DebtSummary, error) {
	if err := s.validateReady(ctx); err != nil {
		return nil, err
	}

	sum := &model.DebtSummary{}
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN tipo = 'Débito' THEN monto ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN tipo = 'Crédito' THEN monto ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN fecha_limite IS NOT NULL AND fecha_limite < date('now') THEN 1 ELSE 0 END), 0)
		FROM deudas
		WHERE estado = 'Pendiente'
	`).Scan(&sum.PendingPayables, &sum.PendingReceivables, &sum.OverdueCount)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize debts: %w", err)
	}
	sum.NetBalance = sum.PendingReceivables - sum.PendingPayables
	return sum, nil
}

// UpcomingDebts lists pending debts due within the next `days` days, soonest
// first.
func (s *Store) UpcomingDebts(ctx context.Context, days int) ([]model.Debt, error) {
	if err := s.validateReady(ctx); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = 7
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+debtColumns+`
		FROM deudas
		WHERE estado = 'Pendiente'
		  AND fecha_limite IS NOT NULL
		  AND fecha_limite BETWEEN date('now') AND date('now', ?)
		ORDER BY fecha_limite ASC
	`, fmt.Sprintf("+%d days", days))
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming debts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Debt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan upcoming debt: %w", err)
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate upcoming debts: %w", err)
	}
	return out, nil
}

func dueDateArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatDate(*t)
}

func scanDebt(row rowScanner) (*model.Debt, error) {
	var d model.Debt
	var kind, status, start, created, updated string
	var due sql.NullString
	err := row.Scan(&d.ID, &kind, &d.Counterparty, &d.Amount, &d.Concept,
		&start, &due, &status, &d.Notes, &created, &updated)
	if err != nil {
		return nil, err
	}
	d.Kind = model.DebtKind(kind)
	d.Status = model.DebtStatus(status)
	d.StartDate = parseStoredTime(start)
	if due.Valid && due.String != "" {
		t := parseStoredTime(due.String)
		d.DueDate = &t
	}
	d.CreatedAt = parseStoredTime(created)
	d.UpdatedAt = parseStoredTime(updated)
	return &d, nil
}
