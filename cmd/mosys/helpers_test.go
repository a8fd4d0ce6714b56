package main

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mosys-app/mosys/internal/common"
)

func TestParseAmount(t *testing.T) {
	amount, err := parseAmount(" 45.50 ")
	require.NoError(t, err)
	assert.Equal(t, 45.50, amount)

	_, err = parseAmount("abc")
	assert.Error(t, err)
}

func TestParseDateFlag(t *testing.T) {
	d, err := parseDateFlag("2025-06-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), d)

	d, err = parseDateFlag("2025-06-15 13:30")
	require.NoError(t, err)
	assert.Equal(t, 13, d.Hour())

	_, err = parseDateFlag("15/06/2025")
	assert.Error(t, err)
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = parseID("0")
	assert.Error(t, err)
	_, err = parseID("-3")
	assert.Error(t, err)
	_, err = parseID("abc")
	assert.Error(t, err)
}

func TestFriendlyErrorKeepsSentinels(t *testing.T) {
	err := friendlyError(common.ErrNotFound)
	assert.True(t, errors.Is(err, common.ErrNotFound))

	verr := friendlyError(common.NewValidationError([]string{"amount must be a positive number"}))
	assert.True(t, common.IsValidation(verr))
	assert.Contains(t, verr.Error(), "amount must be a positive number")

	plain := errors.New("boom")
	assert.Equal(t, plain, friendlyError(plain))
}

func TestCurrencySymbols(t *testing.T) {
	assert.Equal(t, "S/", currencySymbols["PEN"])
	assert.Equal(t, "$", currencySymbols["USD"])
}
