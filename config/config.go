/*
Package config loads runtime configuration from the environment.

PURPOSE:
  One place that knows every environment variable the server reads. A .env
  file in the working directory is loaded first (godotenv) so local dev
  doesn't need exported variables; real environment values win over .env.

VARIABLES:
  INCOME_BALANCE_FROM_YEAR   (required) income cutover year, e.g. 2025
  INCOME_BALANCE_FROM_MONTH  (required) income cutover month, 1-12
  PORT                       HTTP port (default 8080)
  DATABASE_PATH              SQLite path (default finance.db, ":memory:" ok)
  LOG_LEVEL                  zerolog level name (default info)

  The cutover pair is required on purpose: defaulting it would silently
  change which income entries count toward balances.
*/
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/centavo/finance-engine/ledger"
)

// Config is the resolved server configuration.
type Config struct {
	Port         int
	DatabasePath string
	LogLevel     string
	Cutover      ledger.IncomeCutover
}

// Load reads .env (if present) and the environment, and validates the result.
func Load() (Config, error) {
	// Missing .env is fine; the environment may carry everything.
	_ = godotenv.Load()

	cfg := Config{
		Port:         8080,
		DatabasePath: "finance.db",
		LogLevel:     "info",
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	year, err := requiredInt("INCOME_BALANCE_FROM_YEAR")
	if err != nil {
		return Config{}, err
	}
	month, err := requiredInt("INCOME_BALANCE_FROM_MONTH")
	if err != nil {
		return Config{}, err
	}
	cfg.Cutover = ledger.IncomeCutover{From: ledger.YearMonth{Year: year, Month: month}}
	if !cfg.Cutover.From.Valid() {
		return Config{}, fmt.Errorf("invalid income cutover %d-%d: month must be 1-12", year, month)
	}

	return cfg, nil
}

func requiredInt(name string) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, v, err)
	}
	return n, nil
}
