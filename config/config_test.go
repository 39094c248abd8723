package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centavo/finance-engine/config"
	"github.com/centavo/finance-engine/ledger"
)

func TestLoad_RequiresCutover(t *testing.T) {
	t.Setenv("INCOME_BALANCE_FROM_YEAR", "")
	t.Setenv("INCOME_BALANCE_FROM_MONTH", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INCOME_BALANCE_FROM_YEAR")
}

func TestLoad_DefaultsAndCutover(t *testing.T) {
	t.Setenv("INCOME_BALANCE_FROM_YEAR", "2025")
	t.Setenv("INCOME_BALANCE_FROM_MONTH", "6")
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_PATH", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "finance.db", cfg.DatabasePath)
	assert.Equal(t, ledger.YearMonth{Year: 2025, Month: 6}, cfg.Cutover.From)
}

func TestLoad_RejectsInvalidMonth(t *testing.T) {
	t.Setenv("INCOME_BALANCE_FROM_YEAR", "2025")
	t.Setenv("INCOME_BALANCE_FROM_MONTH", "13")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "month must be 1-12")
}
