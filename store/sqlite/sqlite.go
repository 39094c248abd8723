/*
Package sqlite provides the SQLite-backed implementation of ledger.TxStore.

PURPOSE:
  Durable persistence for every record kind: one row per Account, Category,
  Transaction, Debt, IncomeEntry, FixedIncome, Investment, InvestmentEntry,
  each scoped by owner.

WAL MODE:
  The database is opened with WAL (Write-Ahead Logging): readers don't block
  each other, there is a single writer at a time, and crash recovery is
  better than rollback-journal mode.

CONCURRENCY:
  A store-level RWMutex serializes writers. Combined with WithTx, concurrent
  requests that post against the same account are serialized with respect to
  that account's balance - the read-then-write inside a reconciler can never
  interleave with another writer's.

TRANSACTIONS:
  WithTx wraps BeginTx/Commit/Rollback. The ledger.Store handed to the
  callback issues every statement on the open *sql.Tx, so a reconciler's
  load-revert-apply sequence commits or rolls back as one unit.

MIGRATION:
  Schema is created on New(). For a long-lived deployment use a versioned
  migration tool; migrate-on-open keeps dev and tests simple.

USAGE:
  store, err := sqlite.New("./data/finance.db")  // or ":memory:"
  defer store.Close()

SEE ALSO:
  - records.go: row-level CRUD for each record kind
  - ledger/store/memory.go: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/centavo/finance-engine/ledger"
)

// Store implements ledger.TxStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (and migrates) the database at dbPath. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		balance TEXT NOT NULL,
		limit_amount TEXT,
		color TEXT NOT NULL DEFAULT '',
		archived INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_accounts_owner ON accounts(owner_id);

	CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		color TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_categories_owner ON categories(owner_id);

	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		account_id TEXT NOT NULL REFERENCES accounts(id),
		category_id TEXT REFERENCES categories(id),
		amount TEXT NOT NULL,
		date TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_transactions_owner_date
		ON transactions(owner_id, date DESC);
	CREATE INDEX IF NOT EXISTS idx_transactions_account
		ON transactions(account_id);

	CREATE TABLE IF NOT EXISTS debts (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		total_amount TEXT NOT NULL,
		remaining_amount TEXT NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		payment_year INTEGER NOT NULL,
		payment_month INTEGER NOT NULL,
		account_id TEXT REFERENCES accounts(id),
		interest_rate TEXT,
		due_date INTEGER,
		min_payment TEXT,
		status TEXT NOT NULL DEFAULT 'active',
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_debts_owner ON debts(owner_id);

	CREATE TABLE IF NOT EXISTS income_entries (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		amount TEXT NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		account_id TEXT NOT NULL REFERENCES accounts(id),
		category_id TEXT REFERENCES categories(id),
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_income_entries_owner_period
		ON income_entries(owner_id, year, month);

	CREATE TABLE IF NOT EXISTS fixed_incomes (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		amount TEXT NOT NULL,
		day_of_month INTEGER NOT NULL,
		account_id TEXT NOT NULL REFERENCES accounts(id),
		category_id TEXT REFERENCES categories(id),
		starts_at TEXT NOT NULL,
		ends_at TEXT,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_fixed_incomes_owner ON fixed_incomes(owner_id);

	CREATE TABLE IF NOT EXISTS investments (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		current_value TEXT NOT NULL,
		last_updated TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_investments_owner ON investments(owner_id);

	CREATE TABLE IF NOT EXISTS investment_entries (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		investment_id TEXT NOT NULL REFERENCES investments(id),
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		value TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	-- One logical entry per (investment, year, month); same-month
	-- contributions accumulate into it instead of inserting a sibling.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_investment_entries_month
		ON investment_entries(investment_id, year, month);
	CREATE INDEX IF NOT EXISTS idx_investment_entries_owner
		ON investment_entries(owner_id, year);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx executes fn inside one database transaction. An error from fn rolls
// back every statement it issued.
func (s *Store) WithTx(ctx context.Context, fn func(ledger.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&session{q: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

// session implements ledger.Store against a querier. It does no locking of
// its own; locking happens at the Store boundary.
type session struct {
	q querier
}
