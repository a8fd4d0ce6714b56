package storage

import (
	"context"
	"testing"

	"github.com/mosys-app/mosys/internal/model"
)

func TestSeedsDefaultCategories(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	expense, err := s.ListCategories(ctx, model.ScopeExpense)
	if err != nil {
		t.Fatalf("failed to list expense categories: %v", err)
	}
	if len(expense) != 9 {
		t.Errorf("expected 9 expense categories, got %d", len(expense))
	}

	income, err := s.ListCategories(ctx, model.ScopeIncome)
	if err != nil {
		t.Fatalf("failed to list income categories: %v", err)
	}
	if len(income) != 7 {
		t.Errorf("expected 7 income categories, got %d", len(income))
	}

	found := false
	for _, c := range expense {
		if c.Name == "Alimentación" {
			found = true
			if c.Icon == "" || c.Color == "" {
				t.Error("expected seeded category to carry icon and color")
			}
		}
	}
	if !found {
		t.Error("expected Alimentación among expense categories")
	}
}

func TestSeedsDefaultSettings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cases := map[string]string{
		model.SettingTheme:       "light",
		model.SettingColorScheme: "default",
		model.SettingCurrency:    "PEN",
		model.SettingDateFormat:  "DD/MM/YYYY",
		model.SettingFirstRun:    "true",
	}
	for key, want := range cases {
		got, err := s.GetSetting(ctx, key)
		if err != nil {
			t.Fatalf("failed to get setting %q: %v", key, err)
		}
		if got != want {
			t.Errorf("setting %q = %q, want %q", key, got, want)
		}
	}
}

func TestSeedsDefaultProfile(t *testing.T) {
	s := newTestStore(t)

	p, err := s.GetProfile(context.Background())
	if err != nil {
		t.Fatalf("failed to get profile: %v", err)
	}
	if p.Name != defaultProfileName {
		t.Errorf("expected default profile name %q, got %q", defaultProfileName, p.Name)
	}
	if p.Email != defaultProfileEmail {
		t.Errorf("expected default profile email %q, got %q", defaultProfileEmail, p.Email)
	}
}

func TestSeedingIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(ctx, dir)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	if err := s.SetSetting(ctx, model.SettingTheme, "dark", ""); err != nil {
		t.Fatalf("failed to change setting: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("failed to close store: %v", err)
	}

	s2, err := Open(ctx, dir)
	if err != nil {
		t.Fatalf("failed to reopen store: %v", err)
	}
	defer func() { _ = s2.Close() }()

	// Reopen must not reset user data back to seeds.
	got, err := s2.GetSetting(ctx, model.SettingTheme)
	if err != nil {
		t.Fatalf("failed to get setting: %v", err)
	}
	if got != "dark" {
		t.Errorf("expected theme to stay 'dark' after reopen, got %q", got)
	}

	all, err := s2.ListCategories(ctx, "")
	if err != nil {
		t.Fatalf("failed to list categories: %v", err)
	}
	if len(all) != 16 {
		t.Errorf("expected 16 categories after reopen, got %d", len(all))
	}
}

func TestStaleProfileNameMigrated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Execute(ctx, "UPDATE user_profile SET name = ? WHERE id = 1", staleProfileName)
	if err != nil {
		t.Fatalf("failed to plant stale name: %v", err)
	}

	if err := s.ensureSchema(ctx); err != nil {
		t.Fatalf("ensureSchema failed: %v", err)
	}

	p, err := s.GetProfile(ctx)
	if err != nil {
		t.Fatalf("failed to get profile: %v", err)
	}
	if p.Name != defaultProfileName {
		t.Errorf("expected stale name replaced with %q, got %q", defaultProfileName, p.Name)
	}
}

func TestCustomProfileNameSurvivesMigration(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.UpdateProfile(ctx, model.Profile{Name: "Lucía", Email: "lucia@example.com"}); err != nil {
		t.Fatalf("failed to update profile: %v", err)
	}
	if err := s.ensureSchema(ctx); err != nil {
		t.Fatalf("ensureSchema failed: %v", err)
	}

	p, err := s.GetProfile(ctx)
	if err != nil {
		t.Fatalf("failed to get profile: %v", err)
	}
	if p.Name != "Lucía" {
		t.Errorf("expected custom name preserved, got %q", p.Name)
	}
}
