/*
Package ledger provides the core balance mutation engine.

PURPOSE:
  This package contains the types and algorithms that keep stored account
  balances consistent with the financial records that affect them. Whether
  the record is a transaction, a debt, or a monthly income attribution, the
  same machinery decides whether it is currently "posted" against an account
  and applies the exact signed delta required by a state transition.

KEY CONCEPTS IN THIS FILE (types.go):
  - Account: owner-scoped account with a stored, incrementally-maintained balance
  - Transaction/Debt/IncomeEntry: records that may post against an account
  - Investment/InvestmentEntry: valued holdings outside the account ledger
  - YearMonth: calendar month used for competency and cutover comparisons

DESIGN PRINCIPLES:
  1. Precision: all monetary values are decimal.Decimal, never float64
  2. Ownership: every record belongs to exactly one owner; reads and writes
     are scoped by that owner, and a mismatch is indistinguishable from absence
  3. Single mutator: Account.Balance changes only through the Poster
  4. Symmetry: every delete reverts exactly what its create applied

SEE ALSO:
  - policy.go: posting eligibility and delta computation
  - posting.go: the Poster, sole mutator of Account.Balance
  - store.go: persistence interfaces
*/
package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type OwnerID string
type AccountID string
type CategoryID string
type TransactionID string
type DebtID string
type IncomeEntryID string
type FixedIncomeID string
type InvestmentID string
type InvestmentEntryID string

// =============================================================================
// YEAR-MONTH - Calendar month, used for competency and cutover comparisons
// =============================================================================

// YearMonth identifies a calendar month. Month is 1-12.
type YearMonth struct {
	Year  int
	Month int
}

func (ym YearMonth) Valid() bool { return ym.Month >= 1 && ym.Month <= 12 }

func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

func (ym YearMonth) After(other YearMonth) bool  { return other.Before(ym) }
func (ym YearMonth) Equal(other YearMonth) bool  { return ym == other }
func (ym YearMonth) String() string              { return fmt.Sprintf("%04d-%02d", ym.Year, ym.Month) }

// =============================================================================
// ACCOUNT - The record whose Balance this engine maintains
// =============================================================================

type AccountType string

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountCredit     AccountType = "credit"
	AccountCash       AccountType = "cash"
	AccountInvestment AccountType = "investment"
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountChecking, AccountSavings, AccountCredit, AccountCash, AccountInvestment:
		return true
	}
	return false
}

// Account holds a stored balance that must equal the sum of all currently
// posted effects referencing it. Accounts are archived, never deleted.
type Account struct {
	ID        AccountID
	OwnerID   OwnerID
	Name      string
	Type      AccountType
	Balance   decimal.Decimal
	Limit     *decimal.Decimal
	Color     string
	Archived  bool
	CreatedAt time.Time
}

// =============================================================================
// CATEGORY - Thin reference target for transactions and income entries
// =============================================================================

type CategoryType string

const (
	CategoryIncome  CategoryType = "income"
	CategoryExpense CategoryType = "expense"
)

type Category struct {
	ID        CategoryID
	OwnerID   OwnerID
	Name      string
	Type      CategoryType
	Color     string
	CreatedAt time.Time
}

// =============================================================================
// TRANSACTION - income / expense / transfer
// =============================================================================

type TransactionType string

const (
	TxIncome   TransactionType = "income"
	TxExpense  TransactionType = "expense"
	TxTransfer TransactionType = "transfer"
)

func (t TransactionType) Valid() bool {
	return t == TxIncome || t == TxExpense || t == TxTransfer
}

// Transaction is a dated movement. Only income and expense post against the
// account; transfers are audit records produced by investment applications.
type Transaction struct {
	ID          TransactionID
	OwnerID     OwnerID
	AccountID   AccountID
	CategoryID  *CategoryID
	Amount      decimal.Decimal // unsigned; sign comes from Type
	Date        time.Time
	Description string
	Type        TransactionType
	CreatedAt   time.Time
}

// =============================================================================
// DEBT
// =============================================================================

type DebtStatus string

const (
	DebtActive    DebtStatus = "active"
	DebtPaid      DebtStatus = "paid"
	DebtDefaulted DebtStatus = "defaulted"
)

func (s DebtStatus) Valid() bool {
	return s == DebtActive || s == DebtPaid || s == DebtDefaulted
}

// Debt belongs to a competency month and is settled in a payment month.
// A paid debt linked to an account draws that account down by TotalAmount
// once its payment lands in a cycle after its competency (see DebtPosted).
type Debt struct {
	ID              DebtID
	OwnerID         OwnerID
	Name            string
	TotalAmount     decimal.Decimal
	RemainingAmount decimal.Decimal
	Competency      YearMonth
	Payment         YearMonth
	AccountID       *AccountID
	InterestRate    *decimal.Decimal
	DueDate         *int // day of month
	MinPayment      *decimal.Decimal
	Status          DebtStatus
	CreatedAt       time.Time
}

// =============================================================================
// INCOME ENTRY - Monthly income attribution, distinct from Transaction
// =============================================================================

type IncomeEntry struct {
	ID         IncomeEntryID
	OwnerID    OwnerID
	Name       string
	Amount     decimal.Decimal
	Period     YearMonth
	AccountID  AccountID
	CategoryID *CategoryID
	CreatedAt  time.Time
}

// FixedIncome is a recurring income definition with month-scoped mutability:
// edits and deletes close the definition at the end of the current month and
// never rewrite past months.
type FixedIncome struct {
	ID         FixedIncomeID
	OwnerID    OwnerID
	Name       string
	Amount     decimal.Decimal
	DayOfMonth int
	AccountID  AccountID
	CategoryID *CategoryID
	StartsAt   time.Time
	EndsAt     *time.Time
	CreatedAt  time.Time
}

// ActiveAt reports whether the definition is in force at t.
func (f FixedIncome) ActiveAt(t time.Time) bool {
	if f.StartsAt.After(t) {
		return false
	}
	return f.EndsAt == nil || !f.EndsAt.Before(t)
}

// =============================================================================
// INVESTMENT - Valued holding outside the account ledger
// =============================================================================

type InvestmentType string

const (
	InvestStock      InvestmentType = "stock"
	InvestCrypto     InvestmentType = "crypto"
	InvestBond       InvestmentType = "bond"
	InvestRealEstate InvestmentType = "real_estate"
	InvestOther      InvestmentType = "other"
)

func (t InvestmentType) Valid() bool {
	switch t {
	case InvestStock, InvestCrypto, InvestBond, InvestRealEstate, InvestOther:
		return true
	}
	return false
}

// Investment.CurrentValue is derived: it always equals the value of the
// chronologically latest entry, except for manual top-ups via the
// application orchestrator and user-initiated corrections.
type Investment struct {
	ID           InvestmentID
	OwnerID      OwnerID
	Name         string
	Type         InvestmentType
	CurrentValue decimal.Decimal
	LastUpdated  time.Time
	CreatedAt    time.Time
}

// InvestmentEntry is a value snapshot for one month, not a delta. At most one
// entry exists per (investment, year, month); contributions within the same
// month accumulate into it.
type InvestmentEntry struct {
	ID           InvestmentEntryID
	OwnerID      OwnerID
	InvestmentID InvestmentID
	Period       YearMonth
	Value        decimal.Decimal
	CreatedAt    time.Time
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// IncomeCutover is the process-wide month from which income entries post
// against account balances. It is loaded once at startup and injected into
// the income reconciler; it never changes at runtime.
type IncomeCutover struct {
	From YearMonth
}
