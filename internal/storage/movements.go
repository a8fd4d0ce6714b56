package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mosys-app/mosys/internal/common"
	"github.com/mosys-app/mosys/internal/model"
)

// movementColumns joins category decoration by name. Movements keep working
// if the category row disappears; the icon and color just come back empty.
const movementColumns = `
	m.id, m.tipo, m.monto, m.categoria, m.concepto,
	COALESCE(m.descripcion, ''), m.metodo_pago, m.fecha,
	COALESCE(m.created_at, ''), COALESCE(m.updated_at, ''),
	COALESCE(c.icono, ''), COALESCE(c.color, '')`

// sortableMovementColumns whitelists the columns a caller may sort by. The
// ORDER BY clause is assembled from these values only, never from raw input.
var sortableMovementColumns = map[string]string{
	"fecha":     "m.fecha",
	"monto":     "m.monto",
	"id":        "m.id",
	"categoria": "m.categoria",
	"tipo":      "m.tipo",
	"concepto":  "m.concepto",
}

// CreateMovement validates and inserts a movement, returning its new id.
// A zero Date defaults to the current time.
func (s *Store) CreateMovement(ctx context.Context, in model.MovementInput) (int64, error) {
	if err := s.validateReady(ctx); err != nil {
		return 0, err
	}
	if err := validateMovementInput(in); err != nil {
		return 0, err
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}

	res, err := s.Execute(ctx, `
		INSERT INTO movimientos (tipo, monto, categoria, concepto, descripcion, metodo_pago, fecha, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, datetime('now'), datetime('now'))
	`, string(in.Kind), in.Amount, in.Category, strings.TrimSpace(in.Concept),
		in.Description, in.PaymentMethod, formatDateTime(date))
	if err != nil {
		return 0, fmt.Errorf("failed to create movement: %w", err)
	}
	return res.InsertedID, nil
}

// GetMovement fetches one movement by id.
func (s *Store) GetMovement(ctx context.Context, id int64) (*model.Movement, error) {
	if err := s.validateReady(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+movementColumns+`
		FROM movimientos m
		LEFT JOIN categorias c ON c.nombre = m.categoria
		WHERE m.id = ?
	`, id)

	m, err := scanMovement(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("movement %d: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get movement %d: %w", id, err)
	}
	return m, nil
}

// ListMovements returns movements matching the filter, newest first unless a
// sort is requested.
func (s *Store) ListMovements(ctx context.Context, filter model.MovementFilter) ([]model.Movement, error) {
	if err := s.validateReady(ctx); err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString(`
		SELECT ` + movementColumns + `
		FROM movimientos m
		LEFT JOIN categorias c ON c.nombre = m.categoria
		WHERE 1=1`)
	var args []any

	if filter.Kind != "" {
		sb.WriteString(" AND m.tipo = ?")
		args = append(args, string(filter.Kind))
	}
	if filter.Category != "" {
		sb.WriteString(" AND m.categoria = ?")
		args = append(args, filter.Category)
	}
	if filter.DateFrom != nil {
		sb.WriteString(" AND date(m.fecha) >= ?")
		args = append(args, formatDate(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		sb.WriteString(" AND date(m.fecha) <= ?")
		args = append(args, formatDate(*filter.DateTo))
	}
	if filter.AmountMin != nil {
		sb.WriteString(" AND m.monto >= ?")
		args = append(args, *filter.AmountMin)
	}
	if filter.AmountMax != nil {
		sb.WriteString(" AND m.monto <= ?")
		args = append(args, *filter.AmountMax)
	}
	if search := strings.TrimSpace(filter.SearchText); search != "" {
		sb.WriteString(" AND (m.concepto LIKE ? OR m.descripcion LIKE ?)")
		like := "%" + search + "%"
		args = append(args, like, like)
	}

	orderCol := "m.fecha"
	if col, ok := sortableMovementColumns[filter.SortColumn]; ok {
		orderCol = col
	}
	dir := "DESC"
	if filter.SortDirection == model.SortAsc {
		dir = "ASC"
	}
	// Secondary id sort keeps same-date rows in a stable order.
	fmt.Fprintf(&sb, " ORDER BY %s %s, m.id %s", orderCol, dir, dir)

	if filter.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movement: %w", err)
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate movements: %w", err)
	}
	return out, nil
}

// UpdateMovement replaces every caller-editable field of the movement.
func (s *Store) UpdateMovement(ctx context.Context, id int64, in model.MovementInput) error {
	if err := s.validateReady(ctx); err != nil {
		return err
	}
	if err := validateMovementInput(in); err != nil {
		return err
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}

	res, err := s.Execute(ctx, `
		UPDATE movimientos
		SET tipo = ?, monto = ?, categoria = ?, concepto = ?, descripcion = ?,
		    metodo_pago = ?, fecha = ?, updated_at = datetime('now')
		WHERE id = ?
	`, string(in.Kind), in.Amount, in.Category, strings.TrimSpace(in.Concept),
		in.Description, in.PaymentMethod, formatDateTime(date), id)
	if err != nil {
		return fmt.Errorf("failed to update movement %d: %w", id, err)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("movement %d: %w", id, common.ErrNotFound)
	}
	return nil
}

// DeleteMovement removes a movement by id.
func (s *Store) DeleteMovement(ctx context.Context, id int64) error {
	if err := s.validateReady(ctx); err != nil {
		return err
	}

	res, err := s.Execute(ctx, "DELETE FROM movimientos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete movement %d: %w", id, err)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("movement %d: %w", id, common.ErrNotFound)
	}
	return nil
}

// resolvePeriod turns a named statistics period into inclusive date bounds.
// The week runs Sunday through Saturday.
func resolvePeriod(period model.StatsPeriod, now time.Time) (from, to string) {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	switch period {
	case model.PeriodDay:
		return formatDate(today), formatDate(today)
	case model.PeriodWeek:
		start := today.AddDate(0, 0, -int(today.Weekday()))
		return formatDate(start), formatDate(start.AddDate(0, 0, 6))
	case model.PeriodYear:
		return fmt.Sprintf("%04d-01-01", y), fmt.Sprintf("%04d-12-31", y)
	default: // month
		first := time.Date(y, m, 1, 0, 0, 0, 0, now.Location())
		last := first.AddDate(0, 1, -1)
		return formatDate(first), formatDate(last)
	}
}

// MovementStatistics aggregates counts and amounts per kind over the period.
func (s *Store) MovementStatistics(ctx context.Context, period model.StatsPeriod) (*model.MovementStats, error) {
	if err := s.validateReady(ctx); err != nil {
		return nil, err
	}

	from, to := resolvePeriod(period, time.Now())
	stats := &model.MovementStats{Period: period, DateFrom: from, DateTo: to}

	rows, err := s.db.QueryContext(ctx, `
		SELECT tipo, COUNT(*), COALESCE(SUM(monto), 0),
		       COALESCE(AVG(monto), 0), COALESCE(MIN(monto), 0), COALESCE(MAX(monto), 0)
		FROM movimientos
		WHERE date(fecha) BETWEEN ? AND ?
		GROUP BY tipo
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to compute statistics: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var kind string
		var ks model.KindStats
		if err := rows.Scan(&kind, &ks.Count, &ks.Total, &ks.Average, &ks.Min, &ks.Max); err != nil {
			return nil, fmt.Errorf("failed to scan statistics row: %w", err)
		}
		switch model.MovementKind(kind) {
		case model.KindIncome:
			stats.Income = ks
		case model.KindExpense:
			stats.Expense = ks
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate statistics: %w", err)
	}
	return stats, nil
}

// MovementsByCategory totals movements grouped by category, largest total
// first. An empty kind aggregates income and expense alike.
func (s *Store) MovementsByCategory(ctx context.Context, kind model.MovementKind) ([]model.CategoryTotal, error) {
	if err := s.validateReady(ctx); err != nil {
		return nil, err
	}
	if kind != "" && !kind.Valid() {
		return nil, common.NewValidationError([]string{"kind must be 'Ingreso' or 'Gasto'"})
	}

	query := `
		SELECT m.categoria, COALESCE(c.icono, ''), COALESCE(c.color, ''),
		       COUNT(*), COALESCE(SUM(m.monto), 0), COALESCE(AVG(m.monto), 0)
		FROM movimientos m
		LEFT JOIN categorias c ON c.nombre = m.categoria`
	var args []any
	if kind != "" {
		query += "\n\t\tWHERE m.tipo = ?"
		args = append(args, string(kind))
	}
	query += `
		GROUP BY m.categoria
		ORDER BY SUM(m.monto) DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by category: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.CategoryTotal
	for rows.Next() {
		var ct model.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Icon, &ct.Color, &ct.Count, &ct.Total, &ct.Average); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		out = append(out, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category totals: %w", err)
	}
	return out, nil
}

// TopExpenseCategories returns the n largest expense categories by total.
func (s *Store) TopExpenseCategories(ctx context.Context, n int) ([]model.CategoryTotal, error) {
	totals, err := s.MovementsByCategory(ctx, model.KindExpense)
	if err != nil {
		return nil, err
	}
	if n > 0 && len(totals) > n {
		totals = totals[:n]
	}
	return totals, nil
}

// MovementTrends returns monthly income and expense totals for the last
// `months` calendar months, oldest first. Months without movements are absent.
func (s *Store) MovementTrends(ctx context.Context, months int) ([]model.TrendPoint, error) {
	if err := s.validateReady(ctx); err != nil {
		return nil, err
	}
	if months <= 0 {
		months = 6
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT strftime('%Y-%m', fecha) AS mes, tipo, COALESCE(SUM(monto), 0)
		FROM movimientos
		WHERE fecha >= date('now', ?)
		GROUP BY mes, tipo
		ORDER BY mes ASC
	`, fmt.Sprintf("-%d months", months))
	if err != nil {
		return nil, fmt.Errorf("failed to compute trends: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.TrendPoint
	index := make(map[string]int)
	for rows.Next() {
		var month, kind string
		var total float64
		if err := rows.Scan(&month, &kind, &total); err != nil {
			return nil, fmt.Errorf("failed to scan trend row: %w", err)
		}
		i, ok := index[month]
		if !ok {
			out = append(out, model.TrendPoint{Month: month})
			i = len(out) - 1
			index[month] = i
		}
		switch model.MovementKind(kind) {
		case model.KindIncome:
			out[i].Income = total
		case model.KindExpense:
			out[i].Expense = total
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trends: %w", err)
	}
	return out, nil
}

// RunningBalance builds a cumulative balance series for the period. Each point
// is the balance at the end of its bucket, including everything before the
// window. An empty window with a nonzero opening balance yields a flat
// two-point series so charts still have something to draw.
func (s *Store) RunningBalance(ctx context.Context, period model.BalancePeriod) ([]model.BalancePoint, error) {
	if err := s.validateReady(ctx); err != nil {
		return nil, err
	}

	now := time.Now()
	var (
		windowStart string
		bucketExpr  string
		dateCompare string
	)
	switch period {
	case model.BalanceDay:
		windowStart = formatDateTime(now.Add(-24 * time.Hour))
		bucketExpr = "strftime('%Y-%m-%d %H:00', fecha)"
		dateCompare = "fecha >= ?"
	case model.BalanceMonth:
		windowStart = formatDate(now.AddDate(0, 0, -30))
		bucketExpr = "strftime('%Y-%m-%d', fecha)"
		dateCompare = "date(fecha) >= ?"
	case model.BalanceYear:
		windowStart = formatDate(now.AddDate(0, -12, 0))
		bucketExpr = "strftime('%Y-%m', fecha)"
		dateCompare = "date(fecha) >= ?"
	default: // all history
		windowStart = "1970-01-01"
		bucketExpr = "strftime('%Y-%m', fecha)"
		dateCompare = "date(fecha) >= ?"
	}

	var opening float64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(CASE WHEN tipo = 'Ingreso' THEN monto ELSE -monto END), 0)
		FROM movimientos
		WHERE `+strings.Replace(dateCompare, ">=", "<", 1)+`
	`, windowStart).Scan(&opening)
	if err != nil {
		return nil, fmt.Errorf("failed to compute opening balance: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+bucketExpr+` AS bucket,
		       COALESCE(SUM(CASE WHEN tipo = 'Ingreso' THEN monto ELSE -monto END), 0)
		FROM movimientos
		WHERE `+dateCompare+`
		GROUP BY bucket
		ORDER BY bucket ASC
	`, windowStart)
	if err != nil {
		return nil, fmt.Errorf("failed to compute balance series: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var series []model.BalancePoint
	running := opening
	for rows.Next() {
		var label string
		var delta float64
		if err := rows.Scan(&label, &delta); err != nil {
			return nil, fmt.Errorf("failed to scan balance row: %w", err)
		}
		running += delta
		series = append(series, model.BalancePoint{Label: label, Balance: running})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balance series: %w", err)
	}

	switch {
	case len(series) == 0 && opening != 0:
		series = []model.BalancePoint{
			{Label: windowStart, Balance: opening},
			{Label: formatDateTime(now), Balance: opening},
		}
	case len(series) > 0 && period != model.BalanceAll:
		series = append([]model.BalancePoint{{Label: windowStart, Balance: opening}}, series...)
	}
	return series, nil
}

// FindDuplicateMovements groups movements sharing kind, amount, category,
// concept and calendar day.
func (s *Store) FindDuplicateMovements(ctx context.Context) ([]model.DuplicateGroup, error) {
	if err := s.validateReady(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT tipo, monto, categoria, concepto, date(fecha) AS dia,
		       COUNT(*), GROUP_CONCAT(id)
		FROM movimientos
		GROUP BY tipo, monto, categoria, concepto, dia
		HAVING COUNT(*) > 1
		ORDER BY dia DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to find duplicates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.DuplicateGroup
	for rows.Next() {
		var g model.DuplicateGroup
		var kind, idList string
		if err := rows.Scan(&kind, &g.Amount, &g.Category, &g.Concept, &g.Date, &g.Count, &idList); err != nil {
			return nil, fmt.Errorf("failed to scan duplicate group: %w", err)
		}
		g.Kind = model.MovementKind(kind)
		for _, raw := range strings.Split(idList, ",") {
			id, convErr := strconv.ParseInt(raw, 10, 64)
			if convErr != nil {
				return nil, fmt.Errorf("failed to parse duplicate id %q: %w", raw, convErr)
			}
			g.IDs = append(g.IDs, id)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate duplicates: %w", err)
	}
	return out, nil
}

// PurgeMovementsOlderThan deletes movements dated before now minus the given
// number of months and returns how many were removed.
func (s *Store) PurgeMovementsOlderThan(ctx context.Context, months int) (int64, error) {
	if err := s.validateReady(ctx); err != nil {
		return 0, err
	}
	if months <= 0 {
		return 0, common.NewValidationError([]string{"months must be positive"})
	}

	res, err := s.Execute(ctx, `
		DELETE FROM movimientos WHERE fecha < date('now', ?)
	`, fmt.Sprintf("-%d months", months))
	if err != nil {
		return 0, fmt.Errorf("failed to purge old movements: %w", err)
	}
	return res.RowsAffected, nil
}

// LifetimeTotals sums income and expense across all history.
func (s *Store) LifetimeTotals(ctx context.Context) (income, expense float64, err error) {
	if err := s.validateReady(ctx); err != nil {
		return 0, 0, err
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN tipo = 'Ingreso' THEN monto ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN tipo = 'Gasto' THEN monto ELSE 0 END), 0)
		FROM movimientos
	`).Scan(&income, &expense)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to compute lifetime totals: %w", err)
	}
	return income, expense, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovement(row rowScanner) (*model.Movement, error) {
	var m model.Movement
	var kind, fecha, created, updated string
	err := row.Scan(&m.ID, &kind, &m.Amount, &m.Category, &m.Concept,
		&m.Description, &m.PaymentMethod, &fecha,
		&created, &updated, &m.CategoryIcon, &m.CategoryColor)
	if err != nil {
		return nil, err
	}
	m.Kind = model.MovementKind(kind)
	m.Date = parseStoredTime(fecha)
	m.CreatedAt = parseStoredTime(created)
	m.UpdatedAt = parseStoredTime(updated)
	return &m, nil
}
