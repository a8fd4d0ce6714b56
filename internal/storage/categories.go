package storage

import (
	"context"
	"fmt"

	"github.com/mosys-app/mosys/internal/model"
)

// ListCategories returns active categories usable for the given scope,
// alphabetically. Categories scoped 'Ambos' match any scope.
func (s *Store) ListCategories(ctx context.Context, scope model.CategoryScope) ([]model.Category, error) {
	if err := s.validateReady(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, nombre, tipo, COALESCE(icono, ''), COALESCE(color, ''), activa
		FROM categorias
		WHERE activa = 1`
	var args []any
	if scope != "" {
		query += " AND (tipo = ? OR tipo = 'Ambos')"
		args = append(args, string(scope))
	}
	query += " ORDER BY nombre ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Category
	for rows.Next() {
		var c model.Category
		var scopeStr string
		var active int
		if err := rows.Scan(&c.ID, &c.Name, &scopeStr, &c.Icon, &c.Color, &active); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		c.Scope = model.CategoryScope(scopeStr)
		c.Active = active == 1
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return out, nil
}
