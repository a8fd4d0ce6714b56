package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/mosys-app/mosys/internal/model"
)

// requiredTables must be present in any database image this application
// accepts on import.
var requiredTables = []string{"movimientos", "deudas", "categorias", "configuraciones"}

// Table names and enum values are kept verbatim from the original snapshot
// format so backup images interchange across versions.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS movimientos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tipo TEXT NOT NULL CHECK (tipo IN ('Ingreso', 'Gasto')),
		monto REAL NOT NULL CHECK (monto > 0),
		categoria TEXT NOT NULL,
		concepto TEXT NOT NULL,
		descripcion TEXT,
		metodo_pago TEXT NOT NULL,
		fecha TEXT NOT NULL,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP,
		updated_at TEXT DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS deudas (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tipo TEXT NOT NULL CHECK (tipo IN ('Débito', 'Crédito')),
		persona TEXT NOT NULL,
		monto REAL NOT NULL CHECK (monto > 0),
		concepto TEXT NOT NULL,
		fecha_inicio TEXT NOT NULL,
		fecha_limite TEXT,
		estado TEXT DEFAULT 'Pendiente' CHECK (estado IN ('Pendiente', 'Pagado', 'Vencido')),
		notas TEXT,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP,
		updated_at TEXT DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS categorias (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nombre TEXT NOT NULL UNIQUE,
		tipo TEXT NOT NULL CHECK (tipo IN ('Ingreso', 'Gasto', 'Ambos')),
		icono TEXT,
		color TEXT,
		activa INTEGER DEFAULT 1,
		created_at TEXT DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS user_profile (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		name TEXT DEFAULT 'USER',
		email TEXT DEFAULT 'usuario@ejemplo.com',
		avatar TEXT DEFAULT '',
		bio TEXT DEFAULT '',
		created_at TEXT DEFAULT CURRENT_TIMESTAMP,
		updated_at TEXT DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS configuraciones (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		clave TEXT NOT NULL UNIQUE,
		valor TEXT NOT NULL,
		descripcion TEXT,
		updated_at TEXT DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_movimientos_fecha ON movimientos(fecha)`,
	`CREATE INDEX IF NOT EXISTS idx_movimientos_tipo ON movimientos(tipo)`,
	`CREATE INDEX IF NOT EXISTS idx_movimientos_categoria ON movimientos(categoria)`,
	`CREATE INDEX IF NOT EXISTS idx_deudas_estado ON deudas(estado)`,
	`CREATE INDEX IF NOT EXISTS idx_deudas_fecha_limite ON deudas(fecha_limite)`,
}

// Default profile values and the placeholder name retired by the one-time
// profile migration.
const (
	defaultProfileName   = "USER"
	defaultProfileEmail  = "admin@mosys.com"
	defaultProfileAvatar = "https://ui-avatars.com/api/?name=USER&background=random"
	staleProfileName     = "Dr. Anderson Q."
)

var defaultCategories = []model.Category{
	{Name: "Alimentación", Scope: model.ScopeExpense, Icon: "🍽️", Color: "#ef4444"},
	{Name: "Transporte", Scope: model.ScopeExpense, Icon: "🚗", Color: "#f59e0b"},
	{Name: "Vivienda", Scope: model.ScopeExpense, Icon: "🏠", Color: "#8b5cf6"},
	{Name: "Salud", Scope: model.ScopeExpense, Icon: "⚕️", Color: "#10b981"},
	{Name: "Educación", Scope: model.ScopeExpense, Icon: "📚", Color: "#3b82f6"},
	{Name: "Entretenimiento", Scope: model.ScopeExpense, Icon: "🎬", Color: "#ec4899"},
	{Name: "Ropa", Scope: model.ScopeExpense, Icon: "👕", Color: "#06b6d4"},
	{Name: "Servicios", Scope: model.ScopeExpense, Icon: "⚡", Color: "#f97316"},
	{Name: "Gastos Varios", Scope: model.ScopeExpense, Icon: "📦", Color: "#6b7280"},
	{Name: "Salario", Scope: model.ScopeIncome, Icon: "💼", Color: "#059669"},
	{Name: "Freelance", Scope: model.ScopeIncome, Icon: "💻", Color: "#0891b2"},
	{Name: "Negocio", Scope: model.ScopeIncome, Icon: "🏪", Color: "#7c3aed"},
	{Name: "Inversiones", Scope: model.ScopeIncome, Icon: "📈", Color: "#dc2626"},
	{Name: "Bonos", Scope: model.ScopeIncome, Icon: "🎁", Color: "#059669"},
	{Name: "Ventas", Scope: model.ScopeIncome, Icon: "💰", Color: "#0d9488"},
	{Name: "Otros Ingresos", Scope: model.ScopeIncome, Icon: "💵", Color: "#6366f1"},
}

var defaultSettings = []model.Setting{
	{Key: model.SettingTheme, Value: "light", Description: "Tema de la aplicación"},
	{Key: model.SettingColorScheme, Value: "default", Description: "Paleta de colores"},
	{Key: model.SettingCurrency, Value: "PEN", Description: "Moneda predeterminada"},
	{Key: model.SettingDateFormat, Value: "DD/MM/YYYY", Description: "Formato de fecha"},
	{Key: model.SettingFirstRun, Value: "true", Description: "Primera ejecución de la app"},
}

// ensureSchema creates missing tables, seeds reference data into empty tables
// and applies the one-time profile migration. Safe to re-run on every startup.
func (s *Store) ensureSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}

	if err := seedCategories(ctx, tx); err != nil {
		return err
	}
	if err := seedSettings(ctx, tx); err != nil {
		return err
	}
	if err := ensureProfile(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema transaction: %w", err)
	}
	return nil
}

func seedCategories(ctx context.Context, tx *sql.Tx) error {
	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM categorias").Scan(&count); err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, c := range defaultCategories {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO categorias (nombre, tipo, icono, color)
			VALUES (?, ?, ?, ?)
		`, c.Name, string(c.Scope), c.Icon, c.Color)
		if err != nil {
			return fmt.Errorf("failed to seed category %q: %w", c.Name, err)
		}
	}
	slog.Info("seeded default categories", "count", len(defaultCategories))
	return nil
}

func seedSettings(ctx context.Context, tx *sql.Tx) error {
	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM configuraciones").Scan(&count); err != nil {
		return fmt.Errorf("failed to count settings: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, c := range defaultSettings {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO configuraciones (clave, valor, descripcion)
			VALUES (?, ?, ?)
		`, c.Key, c.Value, c.Description)
		if err != nil {
			return fmt.Errorf("failed to seed setting %q: %w", c.Key, err)
		}
	}
	slog.Info("seeded default settings", "count", len(defaultSettings))
	return nil
}

func ensureProfile(ctx context.Context, tx *sql.Tx) error {
	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM user_profile").Scan(&count); err != nil {
		return fmt.Errorf("failed to count profile rows: %w", err)
	}

	if count == 0 {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO user_profile (id, name, email, avatar)
			VALUES (1, ?, ?, ?)
		`, defaultProfileName, defaultProfileEmail, defaultProfileAvatar)
		if err != nil {
			return fmt.Errorf("failed to create default profile: %w", err)
		}
		return nil
	}

	// One-time migration: retire the old placeholder name.
	var name string
	if err := tx.QueryRowContext(ctx, "SELECT name FROM user_profile WHERE id = 1").Scan(&name); err != nil {
		return fmt.Errorf("failed to read profile name: %w", err)
	}
	if name == staleProfileName {
		_, err := tx.ExecContext(ctx, `
			UPDATE user_profile SET name = ?, avatar = ? WHERE id = 1
		`, defaultProfileName, defaultProfileAvatar)
		if err != nil {
			return fmt.Errorf("failed to migrate stale profile name: %w", err)
		}
		slog.Info("migrated stale profile placeholder name")
	}
	return nil
}
