package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mosys-app/mosys/internal/common"
	"github.com/mosys-app/mosys/internal/config"
	"github.com/mosys-app/mosys/internal/model"
	"github.com/mosys-app/mosys/internal/storage"
)

// currencySymbols maps the stored currency code to a display prefix.
var currencySymbols = map[string]string{
	"PEN": "S/",
	"USD": "$",
	"EUR": "€",
}

// openStore opens the database at the configured data directory.
func openStore(ctx context.Context) (*storage.Store, error) {
	dataDir := viper.GetString("database.dir")
	if dataDir == "" {
		dataDir = "$HOME/.local/share/mosys"
	}
	dataDir = config.ExpandPath(dataDir)

	store, err := storage.Open(ctx, dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}

// currencySymbol reads the configured currency, defaulting to soles.
func currencySymbol(ctx context.Context, store *storage.Store) string {
	code, err := store.GetSetting(ctx, model.SettingCurrency)
	if err != nil {
		return currencySymbols["PEN"]
	}
	if sym, ok := currencySymbols[code]; ok {
		return sym
	}
	return code + " "
}

func formatMoney(symbol string, amount float64) string {
	return fmt.Sprintf("%s %.2f", symbol, amount)
}

// parseAmount accepts plain decimal amounts.
func parseAmount(raw string) (float64, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	return amount, nil
}

// parseDateFlag accepts YYYY-MM-DD or YYYY-MM-DD HH:MM.
func parseDateFlag(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD or YYYY-MM-DD HH:MM", raw)
}

// parseID parses a positional id argument.
func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// friendlyError rewrites storage errors for terminal display.
func friendlyError(err error) error {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return fmt.Errorf("nothing found: %w", err)
	case common.IsValidation(err):
		return fmt.Errorf("invalid input: %w", err)
	default:
		return err
	}
}
