// Package store provides an in-memory ledger.Store implementation for tests
// and development. WithTx is simulated with a full snapshot and rollback on
// error, which is exactly the atomicity contract production code relies on.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/centavo/finance-engine/ledger"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

type Memory struct {
	mu sync.RWMutex

	accounts          map[ledger.AccountID]ledger.Account
	categories        map[ledger.CategoryID]ledger.Category
	transactions      map[ledger.TransactionID]ledger.Transaction
	debts             map[ledger.DebtID]ledger.Debt
	incomeEntries     map[ledger.IncomeEntryID]ledger.IncomeEntry
	fixedIncomes      map[ledger.FixedIncomeID]ledger.FixedIncome
	investments       map[ledger.InvestmentID]ledger.Investment
	investmentEntries map[ledger.InvestmentEntryID]ledger.InvestmentEntry
}

func NewMemory() *Memory {
	return &Memory{
		accounts:          make(map[ledger.AccountID]ledger.Account),
		categories:        make(map[ledger.CategoryID]ledger.Category),
		transactions:      make(map[ledger.TransactionID]ledger.Transaction),
		debts:             make(map[ledger.DebtID]ledger.Debt),
		incomeEntries:     make(map[ledger.IncomeEntryID]ledger.IncomeEntry),
		fixedIncomes:      make(map[ledger.FixedIncomeID]ledger.FixedIncome),
		investments:       make(map[ledger.InvestmentID]ledger.Investment),
		investmentEntries: make(map[ledger.InvestmentEntryID]ledger.InvestmentEntry),
	}
}

// =============================================================================
// ACCOUNTS
// =============================================================================

func (m *Memory) CreateAccount(_ context.Context, a ledger.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[a.ID] = a
	return nil
}

func (m *Memory) GetAccount(_ context.Context, owner ledger.OwnerID, id ledger.AccountID) (ledger.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.accounts[id]
	if !ok || a.OwnerID != owner {
		return ledger.Account{}, &ledger.NotFoundError{Kind: "account", ID: string(id)}
	}
	return a, nil
}

func (m *Memory) ListAccounts(_ context.Context, owner ledger.OwnerID) ([]ledger.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ledger.Account
	for _, a := range m.accounts {
		if a.OwnerID == owner && !a.Archived {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) UpdateAccount(_ context.Context, a ledger.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.accounts[a.ID]
	if !ok || existing.OwnerID != a.OwnerID {
		return &ledger.NotFoundError{Kind: "account", ID: string(a.ID)}
	}
	a.Balance = existing.Balance // balance changes only via SetBalance
	m.accounts[a.ID] = a
	return nil
}

func (m *Memory) SetBalance(_ context.Context, owner ledger.OwnerID, id ledger.AccountID, balance decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok || a.OwnerID != owner {
		return &ledger.NotFoundError{Kind: "account", ID: string(id)}
	}
	a.Balance = balance
	m.accounts[id] = a
	return nil
}

func (m *Memory) ArchiveAccount(_ context.Context, owner ledger.OwnerID, id ledger.AccountID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok || a.OwnerID != owner {
		return &ledger.NotFoundError{Kind: "account", ID: string(id)}
	}
	a.Archived = true
	m.accounts[id] = a
	return nil
}

// =============================================================================
// CATEGORIES
// =============================================================================

func (m *Memory) CreateCategory(_ context.Context, c ledger.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[c.ID] = c
	return nil
}

func (m *Memory) GetCategory(_ context.Context, owner ledger.OwnerID, id ledger.CategoryID) (ledger.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.categories[id]
	if !ok || c.OwnerID != owner {
		return ledger.Category{}, &ledger.NotFoundError{Kind: "category", ID: string(id)}
	}
	return c, nil
}

func (m *Memory) ListCategories(_ context.Context, owner ledger.OwnerID) ([]ledger.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ledger.Category
	for _, c := range m.categories {
		if c.OwnerID == owner {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func (m *Memory) CreateTransaction(_ context.Context, tx ledger.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[tx.ID] = tx
	return nil
}

func (m *Memory) GetTransaction(_ context.Context, owner ledger.OwnerID, id ledger.TransactionID) (ledger.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tx, ok := m.transactions[id]
	if !ok || tx.OwnerID != owner {
		return ledger.Transaction{}, &ledger.NotFoundError{Kind: "transaction", ID: string(id)}
	}
	return tx, nil
}

func (m *Memory) ListTransactions(_ context.Context, owner ledger.OwnerID, filter ledger.TransactionFilter) ([]ledger.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ledger.Transaction
	for _, tx := range m.transactions {
		if tx.OwnerID != owner {
			continue
		}
		if filter.AccountID != nil && tx.AccountID != *filter.AccountID {
			continue
		}
		if filter.CategoryID != nil && (tx.CategoryID == nil || *tx.CategoryID != *filter.CategoryID) {
			continue
		}
		if filter.Type != nil && tx.Type != *filter.Type {
			continue
		}
		if filter.From != nil && tx.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && tx.Date.After(*filter.To) {
			continue
		}
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *Memory) UpdateTransaction(_ context.Context, tx ledger.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.transactions[tx.ID]
	if !ok || existing.OwnerID != tx.OwnerID {
		return &ledger.NotFoundError{Kind: "transaction", ID: string(tx.ID)}
	}
	m.transactions[tx.ID] = tx
	return nil
}

func (m *Memory) DeleteTransaction(_ context.Context, owner ledger.OwnerID, id ledger.TransactionID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx, ok := m.transactions[id]
	if !ok || tx.OwnerID != owner {
		return false, nil
	}
	delete(m.transactions, id)
	return true, nil
}

// =============================================================================
// DEBTS
// =============================================================================

func (m *Memory) CreateDebt(_ context.Context, d ledger.Debt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.debts[d.ID] = d
	return nil
}

func (m *Memory) GetDebt(_ context.Context, owner ledger.OwnerID, id ledger.DebtID) (ledger.Debt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.debts[id]
	if !ok || d.OwnerID != owner {
		return ledger.Debt{}, &ledger.NotFoundError{Kind: "debt", ID: string(id)}
	}
	return d, nil
}

func (m *Memory) ListDebts(_ context.Context, owner ledger.OwnerID) ([]ledger.Debt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ledger.Debt
	for _, d := range m.debts {
		if d.OwnerID == owner {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) UpdateDebt(_ context.Context, d ledger.Debt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.debts[d.ID]
	if !ok || existing.OwnerID != d.OwnerID {
		return &ledger.NotFoundError{Kind: "debt", ID: string(d.ID)}
	}
	m.debts[d.ID] = d
	return nil
}

func (m *Memory) DeleteDebt(_ context.Context, owner ledger.OwnerID, id ledger.DebtID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.debts[id]
	if !ok || d.OwnerID != owner {
		return false, nil
	}
	delete(m.debts, id)
	return true, nil
}

// =============================================================================
// INCOME ENTRIES
// =============================================================================

func (m *Memory) CreateIncomeEntry(_ context.Context, e ledger.IncomeEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.incomeEntries[e.ID] = e
	return nil
}

func (m *Memory) GetIncomeEntry(_ context.Context, owner ledger.OwnerID, id ledger.IncomeEntryID) (ledger.IncomeEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.incomeEntries[id]
	if !ok || e.OwnerID != owner {
		return ledger.IncomeEntry{}, &ledger.NotFoundError{Kind: "income entry", ID: string(id)}
	}
	return e, nil
}

func (m *Memory) ListIncomeEntries(_ context.Context, owner ledger.OwnerID, period *ledger.YearMonth) ([]ledger.IncomeEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ledger.IncomeEntry
	for _, e := range m.incomeEntries {
		if e.OwnerID != owner {
			continue
		}
		if period != nil && e.Period != *period {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Period != out[j].Period {
			return out[i].Period.Before(out[j].Period)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) UpdateIncomeEntry(_ context.Context, e ledger.IncomeEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.incomeEntries[e.ID]
	if !ok || existing.OwnerID != e.OwnerID {
		return &ledger.NotFoundError{Kind: "income entry", ID: string(e.ID)}
	}
	m.incomeEntries[e.ID] = e
	return nil
}

func (m *Memory) DeleteIncomeEntry(_ context.Context, owner ledger.OwnerID, id ledger.IncomeEntryID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.incomeEntries[id]
	if !ok || e.OwnerID != owner {
		return false, nil
	}
	delete(m.incomeEntries, id)
	return true, nil
}

// =============================================================================
// FIXED INCOMES
// =============================================================================

func (m *Memory) CreateFixedIncome(_ context.Context, f ledger.FixedIncome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fixedIncomes[f.ID] = f
	return nil
}

func (m *Memory) GetFixedIncome(_ context.Context, owner ledger.OwnerID, id ledger.FixedIncomeID) (ledger.FixedIncome, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.fixedIncomes[id]
	if !ok || f.OwnerID != owner {
		return ledger.FixedIncome{}, &ledger.NotFoundError{Kind: "fixed income", ID: string(id)}
	}
	return f, nil
}

func (m *Memory) ListFixedIncomes(_ context.Context, owner ledger.OwnerID) ([]ledger.FixedIncome, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ledger.FixedIncome
	for _, f := range m.fixedIncomes {
		if f.OwnerID == owner {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) UpdateFixedIncome(_ context.Context, f ledger.FixedIncome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.fixedIncomes[f.ID]
	if !ok || existing.OwnerID != f.OwnerID {
		return &ledger.NotFoundError{Kind: "fixed income", ID: string(f.ID)}
	}
	m.fixedIncomes[f.ID] = f
	return nil
}

// =============================================================================
// INVESTMENTS
// =============================================================================

func (m *Memory) CreateInvestment(_ context.Context, inv ledger.Investment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.investments[inv.ID] = inv
	return nil
}

func (m *Memory) GetInvestment(_ context.Context, owner ledger.OwnerID, id ledger.InvestmentID) (ledger.Investment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inv, ok := m.investments[id]
	if !ok || inv.OwnerID != owner {
		return ledger.Investment{}, &ledger.NotFoundError{Kind: "investment", ID: string(id)}
	}
	return inv, nil
}

func (m *Memory) ListInvestments(_ context.Context, owner ledger.OwnerID) ([]ledger.Investment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ledger.Investment
	for _, inv := range m.investments {
		if inv.OwnerID == owner {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) UpdateInvestment(_ context.Context, inv ledger.Investment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.investments[inv.ID]
	if !ok || existing.OwnerID != inv.OwnerID {
		return &ledger.NotFoundError{Kind: "investment", ID: string(inv.ID)}
	}
	m.investments[inv.ID] = inv
	return nil
}

func (m *Memory) DeleteInvestment(_ context.Context, owner ledger.OwnerID, id ledger.InvestmentID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.investments[id]
	if !ok || inv.OwnerID != owner {
		return false, nil
	}
	delete(m.investments, id)
	for eid, e := range m.investmentEntries {
		if e.InvestmentID == id {
			delete(m.investmentEntries, eid)
		}
	}
	return true, nil
}

// =============================================================================
// INVESTMENT ENTRIES
// =============================================================================

func (m *Memory) CreateInvestmentEntry(_ context.Context, e ledger.InvestmentEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.investmentEntries[e.ID] = e
	return nil
}

func (m *Memory) GetInvestmentEntry(_ context.Context, owner ledger.OwnerID, id ledger.InvestmentEntryID) (ledger.InvestmentEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.investmentEntries[id]
	if !ok || e.OwnerID != owner {
		return ledger.InvestmentEntry{}, &ledger.NotFoundError{Kind: "investment entry", ID: string(id)}
	}
	return e, nil
}

func (m *Memory) GetEntryForMonth(_ context.Context, investmentID ledger.InvestmentID, period ledger.YearMonth) (ledger.InvestmentEntry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.investmentEntries {
		if e.InvestmentID == investmentID && e.Period == period {
			return e, true, nil
		}
	}
	return ledger.InvestmentEntry{}, false, nil
}

func (m *Memory) LatestEntry(_ context.Context, investmentID ledger.InvestmentID) (ledger.InvestmentEntry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest ledger.InvestmentEntry
	found := false
	for _, e := range m.investmentEntries {
		if e.InvestmentID != investmentID {
			continue
		}
		if !found || e.Period.After(latest.Period) {
			latest = e
			found = true
		}
	}
	return latest, found, nil
}

func (m *Memory) ListInvestmentEntries(_ context.Context, owner ledger.OwnerID, year *int) ([]ledger.InvestmentEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []ledger.InvestmentEntry
	for _, e := range m.investmentEntries {
		if e.OwnerID != owner {
			continue
		}
		if year != nil && e.Period.Year != *year {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Period != out[j].Period {
			return out[i].Period.Before(out[j].Period)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) UpdateInvestmentEntry(_ context.Context, e ledger.InvestmentEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.investmentEntries[e.ID]
	if !ok || existing.OwnerID != e.OwnerID {
		return &ledger.NotFoundError{Kind: "investment entry", ID: string(e.ID)}
	}
	m.investmentEntries[e.ID] = e
	return nil
}

func (m *Memory) DeleteInvestmentEntry(_ context.Context, owner ledger.OwnerID, id ledger.InvestmentEntryID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.investmentEntries[id]
	if !ok || e.OwnerID != owner {
		return false, nil
	}
	delete(m.investmentEntries, id)
	return true, nil
}

// =============================================================================
// TRANSACTIONAL MEMORY STORE
// =============================================================================

// TxMemory wraps Memory with snapshot-based transactions.
type TxMemory struct {
	*Memory
	txMu sync.Mutex
}

func NewTxMemory() *TxMemory {
	return &TxMemory{Memory: NewMemory()}
}

// WithTx executes fn against the live store; on error the pre-call state is
// restored wholesale, so partial application is impossible.
func (tm *TxMemory) WithTx(_ context.Context, fn func(ledger.Store) error) error {
	tm.txMu.Lock()
	defer tm.txMu.Unlock()

	snap := tm.snapshot()
	if err := fn(tm.Memory); err != nil {
		tm.restore(snap)
		return err
	}
	return nil
}

type memorySnapshot struct {
	accounts          map[ledger.AccountID]ledger.Account
	categories        map[ledger.CategoryID]ledger.Category
	transactions      map[ledger.TransactionID]ledger.Transaction
	debts             map[ledger.DebtID]ledger.Debt
	incomeEntries     map[ledger.IncomeEntryID]ledger.IncomeEntry
	fixedIncomes      map[ledger.FixedIncomeID]ledger.FixedIncome
	investments       map[ledger.InvestmentID]ledger.Investment
	investmentEntries map[ledger.InvestmentEntryID]ledger.InvestmentEntry
}

func copyMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (tm *TxMemory) snapshot() memorySnapshot {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	return memorySnapshot{
		accounts:          copyMap(tm.accounts),
		categories:        copyMap(tm.categories),
		transactions:      copyMap(tm.transactions),
		debts:             copyMap(tm.debts),
		incomeEntries:     copyMap(tm.incomeEntries),
		fixedIncomes:      copyMap(tm.fixedIncomes),
		investments:       copyMap(tm.investments),
		investmentEntries: copyMap(tm.investmentEntries),
	}
}

func (tm *TxMemory) restore(s memorySnapshot) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.accounts = s.accounts
	tm.categories = s.categories
	tm.transactions = s.transactions
	tm.debts = s.debts
	tm.incomeEntries = s.incomeEntries
	tm.fixedIncomes = s.fixedIncomes
	tm.investments = s.investments
	tm.investmentEntries = s.investmentEntries
}
