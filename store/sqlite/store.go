/*
store.go - Store-level ledger.Store methods

  Outside a transaction every call goes through these wrappers: reads take
  the read lock, writes the write lock, and the actual work is delegated to
  a session bound to the raw *sql.DB. Inside WithTx the session is bound to
  the open *sql.Tx instead and the write lock is already held.
*/
package sqlite

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/centavo/finance-engine/ledger"
)

func (s *Store) read() *session  { return &session{q: s.db} }
func (s *Store) write() *session { return &session{q: s.db} }

// =============================================================================
// ACCOUNTS
// =============================================================================

func (s *Store) CreateAccount(ctx context.Context, a ledger.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().CreateAccount(ctx, a)
}

func (s *Store) GetAccount(ctx context.Context, owner ledger.OwnerID, id ledger.AccountID) (ledger.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().GetAccount(ctx, owner, id)
}

func (s *Store) ListAccounts(ctx context.Context, owner ledger.OwnerID) ([]ledger.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListAccounts(ctx, owner)
}

func (s *Store) UpdateAccount(ctx context.Context, a ledger.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().UpdateAccount(ctx, a)
}

func (s *Store) SetBalance(ctx context.Context, owner ledger.OwnerID, id ledger.AccountID, balance decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().SetBalance(ctx, owner, id, balance)
}

func (s *Store) ArchiveAccount(ctx context.Context, owner ledger.OwnerID, id ledger.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().ArchiveAccount(ctx, owner, id)
}

// =============================================================================
// CATEGORIES
// =============================================================================

func (s *Store) CreateCategory(ctx context.Context, c ledger.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().CreateCategory(ctx, c)
}

func (s *Store) GetCategory(ctx context.Context, owner ledger.OwnerID, id ledger.CategoryID) (ledger.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().GetCategory(ctx, owner, id)
}

func (s *Store) ListCategories(ctx context.Context, owner ledger.OwnerID) ([]ledger.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListCategories(ctx, owner)
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func (s *Store) CreateTransaction(ctx context.Context, tx ledger.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().CreateTransaction(ctx, tx)
}

func (s *Store) GetTransaction(ctx context.Context, owner ledger.OwnerID, id ledger.TransactionID) (ledger.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().GetTransaction(ctx, owner, id)
}

func (s *Store) ListTransactions(ctx context.Context, owner ledger.OwnerID, filter ledger.TransactionFilter) ([]ledger.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListTransactions(ctx, owner, filter)
}

func (s *Store) UpdateTransaction(ctx context.Context, tx ledger.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().UpdateTransaction(ctx, tx)
}

func (s *Store) DeleteTransaction(ctx context.Context, owner ledger.OwnerID, id ledger.TransactionID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().DeleteTransaction(ctx, owner, id)
}

// =============================================================================
// DEBTS
// =============================================================================

func (s *Store) CreateDebt(ctx context.Context, d ledger.Debt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().CreateDebt(ctx, d)
}

func (s *Store) GetDebt(ctx context.Context, owner ledger.OwnerID, id ledger.DebtID) (ledger.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().GetDebt(ctx, owner, id)
}

func (s *Store) ListDebts(ctx context.Context, owner ledger.OwnerID) ([]ledger.Debt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListDebts(ctx, owner)
}

func (s *Store) UpdateDebt(ctx context.Context, d ledger.Debt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().UpdateDebt(ctx, d)
}

func (s *Store) DeleteDebt(ctx context.Context, owner ledger.OwnerID, id ledger.DebtID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().DeleteDebt(ctx, owner, id)
}

// =============================================================================
// INCOME ENTRIES
// =============================================================================

func (s *Store) CreateIncomeEntry(ctx context.Context, e ledger.IncomeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().CreateIncomeEntry(ctx, e)
}

func (s *Store) GetIncomeEntry(ctx context.Context, owner ledger.OwnerID, id ledger.IncomeEntryID) (ledger.IncomeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().GetIncomeEntry(ctx, owner, id)
}

func (s *Store) ListIncomeEntries(ctx context.Context, owner ledger.OwnerID, period *ledger.YearMonth) ([]ledger.IncomeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListIncomeEntries(ctx, owner, period)
}

func (s *Store) UpdateIncomeEntry(ctx context.Context, e ledger.IncomeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().UpdateIncomeEntry(ctx, e)
}

func (s *Store) DeleteIncomeEntry(ctx context.Context, owner ledger.OwnerID, id ledger.IncomeEntryID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().DeleteIncomeEntry(ctx, owner, id)
}

// =============================================================================
// FIXED INCOMES
// =============================================================================

func (s *Store) CreateFixedIncome(ctx context.Context, f ledger.FixedIncome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().CreateFixedIncome(ctx, f)
}

func (s *Store) GetFixedIncome(ctx context.Context, owner ledger.OwnerID, id ledger.FixedIncomeID) (ledger.FixedIncome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().GetFixedIncome(ctx, owner, id)
}

func (s *Store) ListFixedIncomes(ctx context.Context, owner ledger.OwnerID) ([]ledger.FixedIncome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListFixedIncomes(ctx, owner)
}

func (s *Store) UpdateFixedIncome(ctx context.Context, f ledger.FixedIncome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().UpdateFixedIncome(ctx, f)
}

// =============================================================================
// INVESTMENTS
// =============================================================================

func (s *Store) CreateInvestment(ctx context.Context, inv ledger.Investment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().CreateInvestment(ctx, inv)
}

func (s *Store) GetInvestment(ctx context.Context, owner ledger.OwnerID, id ledger.InvestmentID) (ledger.Investment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().GetInvestment(ctx, owner, id)
}

func (s *Store) ListInvestments(ctx context.Context, owner ledger.OwnerID) ([]ledger.Investment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListInvestments(ctx, owner)
}

func (s *Store) UpdateInvestment(ctx context.Context, inv ledger.Investment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().UpdateInvestment(ctx, inv)
}

func (s *Store) DeleteInvestment(ctx context.Context, owner ledger.OwnerID, id ledger.InvestmentID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().DeleteInvestment(ctx, owner, id)
}

// =============================================================================
// INVESTMENT ENTRIES
// =============================================================================

func (s *Store) CreateInvestmentEntry(ctx context.Context, e ledger.InvestmentEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().CreateInvestmentEntry(ctx, e)
}

func (s *Store) GetInvestmentEntry(ctx context.Context, owner ledger.OwnerID, id ledger.InvestmentEntryID) (ledger.InvestmentEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().GetInvestmentEntry(ctx, owner, id)
}

func (s *Store) GetEntryForMonth(ctx context.Context, investmentID ledger.InvestmentID, period ledger.YearMonth) (ledger.InvestmentEntry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().GetEntryForMonth(ctx, investmentID, period)
}

func (s *Store) LatestEntry(ctx context.Context, investmentID ledger.InvestmentID) (ledger.InvestmentEntry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().LatestEntry(ctx, investmentID)
}

func (s *Store) ListInvestmentEntries(ctx context.Context, owner ledger.OwnerID, year *int) ([]ledger.InvestmentEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListInvestmentEntries(ctx, owner, year)
}

func (s *Store) UpdateInvestmentEntry(ctx context.Context, e ledger.InvestmentEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().UpdateInvestmentEntry(ctx, e)
}

func (s *Store) DeleteInvestmentEntry(ctx context.Context, owner ledger.OwnerID, id ledger.InvestmentEntryID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().DeleteInvestmentEntry(ctx, owner, id)
}
