/*
store.go - Persistence interfaces for the balance engine

PURPOSE:
  Defines the interface between reconcilers and the database. One durable
  row per record, every read and write scoped by owner. Two implementations
  exist: store/memory (tests, dev) and store/sqlite (production).

OWNERSHIP CONTRACT:
  Get* methods take the owner and return NotFound both for absent records
  and for records owned by someone else. Stores never distinguish the two.

DELETE CONTRACT:
  Delete* methods report whether a row was removed, so callers can surface
  "not found" distinctly from "deleted". Accounts are the exception: they
  are archived, never deleted.

TRANSACTIONS:
  Any reconciler operation that loads then writes - and every operation that
  touches more than one record - runs inside TxStore.WithTx. Either the
  whole sequence commits or none of it does.
*/
package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PER-RECORD STORES
// =============================================================================

type AccountStore interface {
	CreateAccount(ctx context.Context, a Account) error
	// GetAccount returns NotFound if absent or not owned by owner.
	GetAccount(ctx context.Context, owner OwnerID, id AccountID) (Account, error)
	// ListAccounts returns the owner's non-archived accounts.
	ListAccounts(ctx context.Context, owner OwnerID) ([]Account, error)
	// UpdateAccount persists every field except Balance.
	UpdateAccount(ctx context.Context, a Account) error
	// SetBalance is the Poster's write path. Nothing else calls it.
	SetBalance(ctx context.Context, owner OwnerID, id AccountID, balance decimal.Decimal) error
	// ArchiveAccount soft-deletes; the row remains.
	ArchiveAccount(ctx context.Context, owner OwnerID, id AccountID) error
}

type CategoryStore interface {
	CreateCategory(ctx context.Context, c Category) error
	GetCategory(ctx context.Context, owner OwnerID, id CategoryID) (Category, error)
	ListCategories(ctx context.Context, owner OwnerID) ([]Category, error)
}

// TransactionFilter narrows ListTransactions. Nil fields match everything.
type TransactionFilter struct {
	AccountID  *AccountID
	CategoryID *CategoryID
	Type       *TransactionType
	From       *time.Time
	To         *time.Time
	Limit      int // 0 = no limit
}

type TransactionStore interface {
	CreateTransaction(ctx context.Context, tx Transaction) error
	GetTransaction(ctx context.Context, owner OwnerID, id TransactionID) (Transaction, error)
	// ListTransactions returns matches ordered by date descending.
	ListTransactions(ctx context.Context, owner OwnerID, filter TransactionFilter) ([]Transaction, error)
	UpdateTransaction(ctx context.Context, tx Transaction) error
	DeleteTransaction(ctx context.Context, owner OwnerID, id TransactionID) (bool, error)
}

type DebtStore interface {
	CreateDebt(ctx context.Context, d Debt) error
	GetDebt(ctx context.Context, owner OwnerID, id DebtID) (Debt, error)
	ListDebts(ctx context.Context, owner OwnerID) ([]Debt, error)
	UpdateDebt(ctx context.Context, d Debt) error
	DeleteDebt(ctx context.Context, owner OwnerID, id DebtID) (bool, error)
}

type IncomeEntryStore interface {
	CreateIncomeEntry(ctx context.Context, e IncomeEntry) error
	GetIncomeEntry(ctx context.Context, owner OwnerID, id IncomeEntryID) (IncomeEntry, error)
	// ListIncomeEntries returns all entries, or one month's when period != nil.
	ListIncomeEntries(ctx context.Context, owner OwnerID, period *YearMonth) ([]IncomeEntry, error)
	UpdateIncomeEntry(ctx context.Context, e IncomeEntry) error
	DeleteIncomeEntry(ctx context.Context, owner OwnerID, id IncomeEntryID) (bool, error)
}

type FixedIncomeStore interface {
	CreateFixedIncome(ctx context.Context, f FixedIncome) error
	GetFixedIncome(ctx context.Context, owner OwnerID, id FixedIncomeID) (FixedIncome, error)
	ListFixedIncomes(ctx context.Context, owner OwnerID) ([]FixedIncome, error)
	UpdateFixedIncome(ctx context.Context, f FixedIncome) error
}

type InvestmentStore interface {
	CreateInvestment(ctx context.Context, inv Investment) error
	GetInvestment(ctx context.Context, owner OwnerID, id InvestmentID) (Investment, error)
	ListInvestments(ctx context.Context, owner OwnerID) ([]Investment, error)
	UpdateInvestment(ctx context.Context, inv Investment) error
	DeleteInvestment(ctx context.Context, owner OwnerID, id InvestmentID) (bool, error)

	CreateInvestmentEntry(ctx context.Context, e InvestmentEntry) error
	GetInvestmentEntry(ctx context.Context, owner OwnerID, id InvestmentEntryID) (InvestmentEntry, error)
	// GetEntryForMonth returns the single logical entry for the month, if any.
	GetEntryForMonth(ctx context.Context, investmentID InvestmentID, period YearMonth) (InvestmentEntry, bool, error)
	// LatestEntry returns the entry with the greatest (year, month), if any.
	LatestEntry(ctx context.Context, investmentID InvestmentID) (InvestmentEntry, bool, error)
	// ListInvestmentEntries returns all of the owner's entries, optionally
	// restricted to one year.
	ListInvestmentEntries(ctx context.Context, owner OwnerID, year *int) ([]InvestmentEntry, error)
	UpdateInvestmentEntry(ctx context.Context, e InvestmentEntry) error
	DeleteInvestmentEntry(ctx context.Context, owner OwnerID, id InvestmentEntryID) (bool, error)
}

// =============================================================================
// AGGREGATE STORE
// =============================================================================

// Store is everything the reconcilers need from persistence.
type Store interface {
	AccountStore
	CategoryStore
	TransactionStore
	DebtStore
	IncomeEntryStore
	FixedIncomeStore
	InvestmentStore
}

// TxStore adds atomic execution. The Store handed to fn sees and joins the
// same transaction; if fn returns an error nothing it did survives.
type TxStore interface {
	Store

	WithTx(ctx context.Context, fn func(Store) error) error
}
