package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mosys-app/mosys/internal/common"
	"github.com/mosys-app/mosys/internal/model"
)

// GetSetting returns the value for a configuration key.
func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	if err := s.validateReady(ctx); err != nil {
		return "", err
	}

	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT valor FROM configuraciones WHERE clave = ?", key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("setting %q: %w", key, common.ErrNotFound)
		}
		return "", fmt.Errorf("failed to get setting %q: %w", key, err)
	}
	return value, nil
}

// SetSetting upserts a configuration key. The description only replaces the
// stored one when non-empty.
func (s *Store) SetSetting(ctx context.Context, key, value, description string) error {
	if err := s.validateReady(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(key) == "" {
		return common.NewValidationError([]string{"setting key is required"})
	}

	_, err := s.Execute(ctx, `
		INSERT INTO configuraciones (clave, valor, descripcion, updated_at)
		VALUES (?, ?, ?, datetime('now'))
		ON CONFLICT(clave) DO UPDATE SET
			valor = excluded.valor,
			descripcion = CASE WHEN excluded.descripcion != '' THEN excluded.descripcion ELSE descripcion END,
			updated_at = excluded.updated_at
	`, key, value, description)
	if err != nil {
		return fmt.Errorf("failed to set setting %q: %w", key, err)
	}
	return nil
}

// ListSettings returns every configuration entry sorted by key.
func (s *Store) ListSettings(ctx context.Context) ([]model.Setting, error) {
	if err := s.validateReady(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT clave, valor, COALESCE(descripcion, '')
		FROM configuraciones
		ORDER BY clave ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Setting
	for rows.Next() {
		var st model.Setting
		if err := rows.Scan(&st.Key, &st.Value, &st.Description); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settings: %w", err)
	}
	return out, nil
}

// GetProfile returns the single user profile.
func (s *Store) GetProfile(ctx context.Context) (*model.Profile, error) {
	if err := s.validateReady(ctx); err != nil {
		return nil, err
	}

	var p model.Profile
	err := s.db.QueryRowContext(ctx, `
		SELECT name, email, COALESCE(avatar, ''), COALESCE(bio, '')
		FROM user_profile WHERE id = 1
	`).Scan(&p.Name, &p.Email, &p.Avatar, &p.Bio)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("profile: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

// UpdateProfile replaces the user profile fields.
func (s *Store) UpdateProfile(ctx context.Context, p model.Profile) error {
	if err := s.validateReady(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(p.Name) == "" {
		return common.NewValidationError([]string{"profile name is required"})
	}

	_, err := s.Execute(ctx, `
		UPDATE user_profile
		SET name = ?, email = ?, avatar = ?, bio = ?, updated_at = datetime('now')
		WHERE id = 1
	`, strings.TrimSpace(p.Name), p.Email, p.Avatar, p.Bio)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}
