/*
records.go - Row-level CRUD for each record kind

  Monetary values are stored as TEXT in decimal string form and parsed back
  with shopspring/decimal; timestamps are RFC3339 TEXT. Every query is
  owner-scoped, so a foreign record is indistinguishable from a missing one.
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/centavo/finance-engine/ledger"
)

// =============================================================================
// SCAN/BIND HELPERS
// =============================================================================

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func bindDecimal(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func scanDecimalPtr(ns sql.NullString) *decimal.Decimal {
	if !ns.Valid {
		return nil
	}
	d := mustDecimal(ns.String)
	return &d
}

func bindTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func bindTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return bindTime(*t)
}

func scanTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func scanTimePtr(ns sql.NullString) *time.Time {
	if !ns.Valid {
		return nil
	}
	t := scanTime(ns.String)
	return &t
}

func bindStrPtr[T ~string](v *T) any {
	if v == nil {
		return nil
	}
	return string(*v)
}

func bindIntPtr(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

// =============================================================================
// ACCOUNTS
// =============================================================================

const accountColumns = "id, owner_id, name, type, balance, limit_amount, color, archived, created_at"

func scanAccount(row interface{ Scan(...any) error }) (ledger.Account, error) {
	var a ledger.Account
	var balance, createdAt string
	var limit sql.NullString
	err := row.Scan(&a.ID, &a.OwnerID, &a.Name, &a.Type, &balance, &limit, &a.Color, &a.Archived, &createdAt)
	if err != nil {
		return ledger.Account{}, err
	}
	a.Balance = mustDecimal(balance)
	a.Limit = scanDecimalPtr(limit)
	a.CreatedAt = scanTime(createdAt)
	return a, nil
}

func (s *session) CreateAccount(ctx context.Context, a ledger.Account) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO accounts (`+accountColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.OwnerID, a.Name, a.Type, a.Balance.String(),
		bindDecimal(a.Limit), a.Color, a.Archived, bindTime(a.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

func (s *session) GetAccount(ctx context.Context, owner ledger.OwnerID, id ledger.AccountID) (ledger.Account, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT `+accountColumns+` FROM accounts WHERE id = ? AND owner_id = ?`, id, owner)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Account{}, &ledger.NotFoundError{Kind: "account", ID: string(id)}
	}
	return a, err
}

func (s *session) ListAccounts(ctx context.Context, owner ledger.OwnerID) ([]ledger.Account, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT `+accountColumns+` FROM accounts
		WHERE owner_id = ? AND archived = 0
		ORDER BY created_at ASC`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *session) UpdateAccount(ctx context.Context, a ledger.Account) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE accounts SET name = ?, type = ?, limit_amount = ?, color = ?, archived = ?
		WHERE id = ? AND owner_id = ?`,
		a.Name, a.Type, bindDecimal(a.Limit), a.Color, a.Archived, a.ID, a.OwnerID)
	if err != nil {
		return err
	}
	return requireRow(res, &ledger.NotFoundError{Kind: "account", ID: string(a.ID)})
}

func (s *session) SetBalance(ctx context.Context, owner ledger.OwnerID, id ledger.AccountID, balance decimal.Decimal) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE accounts SET balance = ? WHERE id = ? AND owner_id = ?`,
		balance.String(), id, owner)
	if err != nil {
		return err
	}
	return requireRow(res, &ledger.NotFoundError{Kind: "account", ID: string(id)})
}

func (s *session) ArchiveAccount(ctx context.Context, owner ledger.OwnerID, id ledger.AccountID) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE accounts SET archived = 1 WHERE id = ? AND owner_id = ?`, id, owner)
	if err != nil {
		return err
	}
	return requireRow(res, &ledger.NotFoundError{Kind: "account", ID: string(id)})
}

func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// =============================================================================
// CATEGORIES
// =============================================================================

func (s *session) CreateCategory(ctx context.Context, c ledger.Category) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO categories (id, owner_id, name, type, color, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.OwnerID, c.Name, c.Type, c.Color, bindTime(c.CreatedAt))
	return err
}

func (s *session) GetCategory(ctx context.Context, owner ledger.OwnerID, id ledger.CategoryID) (ledger.Category, error) {
	var c ledger.Category
	var createdAt string
	err := s.q.QueryRowContext(ctx, `
		SELECT id, owner_id, name, type, color, created_at FROM categories
		WHERE id = ? AND owner_id = ?`, id, owner).
		Scan(&c.ID, &c.OwnerID, &c.Name, &c.Type, &c.Color, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Category{}, &ledger.NotFoundError{Kind: "category", ID: string(id)}
	}
	if err != nil {
		return ledger.Category{}, err
	}
	c.CreatedAt = scanTime(createdAt)
	return c, nil
}

func (s *session) ListCategories(ctx context.Context, owner ledger.OwnerID) ([]ledger.Category, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, owner_id, name, type, color, created_at FROM categories
		WHERE owner_id = ? ORDER BY name ASC`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Category
	for rows.Next() {
		var c ledger.Category
		var createdAt string
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Type, &c.Color, &createdAt); err != nil {
			return nil, err
		}
		c.CreatedAt = scanTime(createdAt)
		out = append(out, c)
	}
	return out, rows.Err()
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

const txColumns = "id, owner_id, account_id, category_id, amount, date, description, type, created_at"

func scanTransaction(row interface{ Scan(...any) error }) (ledger.Transaction, error) {
	var tx ledger.Transaction
	var amount, date, createdAt string
	var category sql.NullString
	err := row.Scan(&tx.ID, &tx.OwnerID, &tx.AccountID, &category, &amount, &date, &tx.Description, &tx.Type, &createdAt)
	if err != nil {
		return ledger.Transaction{}, err
	}
	if category.Valid {
		id := ledger.CategoryID(category.String)
		tx.CategoryID = &id
	}
	tx.Amount = mustDecimal(amount)
	tx.Date = scanTime(date)
	tx.CreatedAt = scanTime(createdAt)
	return tx, nil
}

func (s *session) CreateTransaction(ctx context.Context, tx ledger.Transaction) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO transactions (`+txColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.OwnerID, tx.AccountID, bindStrPtr(tx.CategoryID),
		tx.Amount.String(), bindTime(tx.Date), tx.Description, tx.Type, bindTime(tx.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

func (s *session) GetTransaction(ctx context.Context, owner ledger.OwnerID, id ledger.TransactionID) (ledger.Transaction, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT `+txColumns+` FROM transactions WHERE id = ? AND owner_id = ?`, id, owner)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Transaction{}, &ledger.NotFoundError{Kind: "transaction", ID: string(id)}
	}
	return tx, err
}

func (s *session) ListTransactions(ctx context.Context, owner ledger.OwnerID, filter ledger.TransactionFilter) ([]ledger.Transaction, error) {
	conditions := []string{"owner_id = ?"}
	args := []any{owner}

	if filter.AccountID != nil {
		conditions = append(conditions, "account_id = ?")
		args = append(args, *filter.AccountID)
	}
	if filter.CategoryID != nil {
		conditions = append(conditions, "category_id = ?")
		args = append(args, *filter.CategoryID)
	}
	if filter.Type != nil {
		conditions = append(conditions, "type = ?")
		args = append(args, *filter.Type)
	}
	if filter.From != nil {
		conditions = append(conditions, "date >= ?")
		args = append(args, bindTime(*filter.From))
	}
	if filter.To != nil {
		conditions = append(conditions, "date <= ?")
		args = append(args, bindTime(*filter.To))
	}

	query := `SELECT ` + txColumns + ` FROM transactions WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY date DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

func (s *session) UpdateTransaction(ctx context.Context, tx ledger.Transaction) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE transactions
		SET account_id = ?, category_id = ?, amount = ?, date = ?, description = ?, type = ?
		WHERE id = ? AND owner_id = ?`,
		tx.AccountID, bindStrPtr(tx.CategoryID), tx.Amount.String(),
		bindTime(tx.Date), tx.Description, tx.Type, tx.ID, tx.OwnerID)
	if err != nil {
		return err
	}
	return requireRow(res, &ledger.NotFoundError{Kind: "transaction", ID: string(tx.ID)})
}

func (s *session) DeleteTransaction(ctx context.Context, owner ledger.OwnerID, id ledger.TransactionID) (bool, error) {
	res, err := s.q.ExecContext(ctx, `
		DELETE FROM transactions WHERE id = ? AND owner_id = ?`, id, owner)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// =============================================================================
// DEBTS
// =============================================================================

const debtColumns = "id, owner_id, name, total_amount, remaining_amount, year, month, payment_year, payment_month, account_id, interest_rate, due_date, min_payment, status, created_at"

func scanDebt(row interface{ Scan(...any) error }) (ledger.Debt, error) {
	var d ledger.Debt
	var total, remaining, createdAt string
	var account, rate, minPayment sql.NullString
	var dueDate sql.NullInt64
	err := row.Scan(&d.ID, &d.OwnerID, &d.Name, &total, &remaining,
		&d.Competency.Year, &d.Competency.Month, &d.Payment.Year, &d.Payment.Month,
		&account, &rate, &dueDate, &minPayment, &d.Status, &createdAt)
	if err != nil {
		return ledger.Debt{}, err
	}
	d.TotalAmount = mustDecimal(total)
	d.RemainingAmount = mustDecimal(remaining)
	if account.Valid {
		id := ledger.AccountID(account.String)
		d.AccountID = &id
	}
	d.InterestRate = scanDecimalPtr(rate)
	if dueDate.Valid {
		day := int(dueDate.Int64)
		d.DueDate = &day
	}
	d.MinPayment = scanDecimalPtr(minPayment)
	d.CreatedAt = scanTime(createdAt)
	return d, nil
}

func (s *session) CreateDebt(ctx context.Context, d ledger.Debt) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO debts (`+debtColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.OwnerID, d.Name, d.TotalAmount.String(), d.RemainingAmount.String(),
		d.Competency.Year, d.Competency.Month, d.Payment.Year, d.Payment.Month,
		bindStrPtr(d.AccountID), bindDecimal(d.InterestRate), bindIntPtr(d.DueDate),
		bindDecimal(d.MinPayment), d.Status, bindTime(d.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert debt: %w", err)
	}
	return nil
}

func (s *session) GetDebt(ctx context.Context, owner ledger.OwnerID, id ledger.DebtID) (ledger.Debt, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT `+debtColumns+` FROM debts WHERE id = ? AND owner_id = ?`, id, owner)
	d, err := scanDebt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Debt{}, &ledger.NotFoundError{Kind: "debt", ID: string(id)}
	}
	return d, err
}

func (s *session) ListDebts(ctx context.Context, owner ledger.OwnerID) ([]ledger.Debt, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT `+debtColumns+` FROM debts WHERE owner_id = ? ORDER BY created_at ASC`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Debt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *session) UpdateDebt(ctx context.Context, d ledger.Debt) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE debts
		SET name = ?, total_amount = ?, remaining_amount = ?, year = ?, month = ?,
		    payment_year = ?, payment_month = ?, account_id = ?, interest_rate = ?,
		    due_date = ?, min_payment = ?, status = ?
		WHERE id = ? AND owner_id = ?`,
		d.Name, d.TotalAmount.String(), d.RemainingAmount.String(),
		d.Competency.Year, d.Competency.Month, d.Payment.Year, d.Payment.Month,
		bindStrPtr(d.AccountID), bindDecimal(d.InterestRate), bindIntPtr(d.DueDate),
		bindDecimal(d.MinPayment), d.Status, d.ID, d.OwnerID)
	if err != nil {
		return err
	}
	return requireRow(res, &ledger.NotFoundError{Kind: "debt", ID: string(d.ID)})
}

func (s *session) DeleteDebt(ctx context.Context, owner ledger.OwnerID, id ledger.DebtID) (bool, error) {
	res, err := s.q.ExecContext(ctx, `
		DELETE FROM debts WHERE id = ? AND owner_id = ?`, id, owner)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// =============================================================================
// INCOME ENTRIES
// =============================================================================

const incomeColumns = "id, owner_id, name, amount, year, month, account_id, category_id, created_at"

func scanIncomeEntry(row interface{ Scan(...any) error }) (ledger.IncomeEntry, error) {
	var e ledger.IncomeEntry
	var amount, createdAt string
	var category sql.NullString
	err := row.Scan(&e.ID, &e.OwnerID, &e.Name, &amount,
		&e.Period.Year, &e.Period.Month, &e.AccountID, &category, &createdAt)
	if err != nil {
		return ledger.IncomeEntry{}, err
	}
	e.Amount = mustDecimal(amount)
	if category.Valid {
		id := ledger.CategoryID(category.String)
		e.CategoryID = &id
	}
	e.CreatedAt = scanTime(createdAt)
	return e, nil
}

func (s *session) CreateIncomeEntry(ctx context.Context, e ledger.IncomeEntry) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO income_entries (`+incomeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.OwnerID, e.Name, e.Amount.String(),
		e.Period.Year, e.Period.Month, e.AccountID, bindStrPtr(e.CategoryID), bindTime(e.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert income entry: %w", err)
	}
	return nil
}

func (s *session) GetIncomeEntry(ctx context.Context, owner ledger.OwnerID, id ledger.IncomeEntryID) (ledger.IncomeEntry, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT `+incomeColumns+` FROM income_entries WHERE id = ? AND owner_id = ?`, id, owner)
	e, err := scanIncomeEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.IncomeEntry{}, &ledger.NotFoundError{Kind: "income entry", ID: string(id)}
	}
	return e, err
}

func (s *session) ListIncomeEntries(ctx context.Context, owner ledger.OwnerID, period *ledger.YearMonth) ([]ledger.IncomeEntry, error) {
	query := `SELECT ` + incomeColumns + ` FROM income_entries WHERE owner_id = ?`
	args := []any{owner}
	if period != nil {
		query += ` AND year = ? AND month = ?`
		args = append(args, period.Year, period.Month)
	}
	query += ` ORDER BY year ASC, month ASC, created_at ASC`

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.IncomeEntry
	for rows.Next() {
		e, err := scanIncomeEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *session) UpdateIncomeEntry(ctx context.Context, e ledger.IncomeEntry) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE income_entries
		SET name = ?, amount = ?, year = ?, month = ?, account_id = ?, category_id = ?
		WHERE id = ? AND owner_id = ?`,
		e.Name, e.Amount.String(), e.Period.Year, e.Period.Month,
		e.AccountID, bindStrPtr(e.CategoryID), e.ID, e.OwnerID)
	if err != nil {
		return err
	}
	return requireRow(res, &ledger.NotFoundError{Kind: "income entry", ID: string(e.ID)})
}

func (s *session) DeleteIncomeEntry(ctx context.Context, owner ledger.OwnerID, id ledger.IncomeEntryID) (bool, error) {
	res, err := s.q.ExecContext(ctx, `
		DELETE FROM income_entries WHERE id = ? AND owner_id = ?`, id, owner)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// =============================================================================
// FIXED INCOMES
// =============================================================================

const fixedColumns = "id, owner_id, name, amount, day_of_month, account_id, category_id, starts_at, ends_at, created_at"

func scanFixedIncome(row interface{ Scan(...any) error }) (ledger.FixedIncome, error) {
	var f ledger.FixedIncome
	var amount, startsAt, createdAt string
	var category, endsAt sql.NullString
	err := row.Scan(&f.ID, &f.OwnerID, &f.Name, &amount, &f.DayOfMonth,
		&f.AccountID, &category, &startsAt, &endsAt, &createdAt)
	if err != nil {
		return ledger.FixedIncome{}, err
	}
	f.Amount = mustDecimal(amount)
	if category.Valid {
		id := ledger.CategoryID(category.String)
		f.CategoryID = &id
	}
	f.StartsAt = scanTime(startsAt)
	f.EndsAt = scanTimePtr(endsAt)
	f.CreatedAt = scanTime(createdAt)
	return f, nil
}

func (s *session) CreateFixedIncome(ctx context.Context, f ledger.FixedIncome) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO fixed_incomes (`+fixedColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.OwnerID, f.Name, f.Amount.String(), f.DayOfMonth,
		f.AccountID, bindStrPtr(f.CategoryID), bindTime(f.StartsAt),
		bindTimePtr(f.EndsAt), bindTime(f.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert fixed income: %w", err)
	}
	return nil
}

func (s *session) GetFixedIncome(ctx context.Context, owner ledger.OwnerID, id ledger.FixedIncomeID) (ledger.FixedIncome, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT `+fixedColumns+` FROM fixed_incomes WHERE id = ? AND owner_id = ?`, id, owner)
	f, err := scanFixedIncome(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.FixedIncome{}, &ledger.NotFoundError{Kind: "fixed income", ID: string(id)}
	}
	return f, err
}

func (s *session) ListFixedIncomes(ctx context.Context, owner ledger.OwnerID) ([]ledger.FixedIncome, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT `+fixedColumns+` FROM fixed_incomes WHERE owner_id = ? ORDER BY created_at ASC`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.FixedIncome
	for rows.Next() {
		f, err := scanFixedIncome(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *session) UpdateFixedIncome(ctx context.Context, f ledger.FixedIncome) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE fixed_incomes
		SET name = ?, amount = ?, day_of_month = ?, account_id = ?, category_id = ?,
		    starts_at = ?, ends_at = ?
		WHERE id = ? AND owner_id = ?`,
		f.Name, f.Amount.String(), f.DayOfMonth, f.AccountID, bindStrPtr(f.CategoryID),
		bindTime(f.StartsAt), bindTimePtr(f.EndsAt), f.ID, f.OwnerID)
	if err != nil {
		return err
	}
	return requireRow(res, &ledger.NotFoundError{Kind: "fixed income", ID: string(f.ID)})
}

// =============================================================================
// INVESTMENTS
// =============================================================================

const investmentColumns = "id, owner_id, name, type, current_value, last_updated, created_at"

func scanInvestment(row interface{ Scan(...any) error }) (ledger.Investment, error) {
	var inv ledger.Investment
	var value, lastUpdated, createdAt string
	err := row.Scan(&inv.ID, &inv.OwnerID, &inv.Name, &inv.Type, &value, &lastUpdated, &createdAt)
	if err != nil {
		return ledger.Investment{}, err
	}
	inv.CurrentValue = mustDecimal(value)
	inv.LastUpdated = scanTime(lastUpdated)
	inv.CreatedAt = scanTime(createdAt)
	return inv, nil
}

func (s *session) CreateInvestment(ctx context.Context, inv ledger.Investment) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO investments (`+investmentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.OwnerID, inv.Name, inv.Type, inv.CurrentValue.String(),
		bindTime(inv.LastUpdated), bindTime(inv.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert investment: %w", err)
	}
	return nil
}

func (s *session) GetInvestment(ctx context.Context, owner ledger.OwnerID, id ledger.InvestmentID) (ledger.Investment, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT `+investmentColumns+` FROM investments WHERE id = ? AND owner_id = ?`, id, owner)
	inv, err := scanInvestment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Investment{}, &ledger.NotFoundError{Kind: "investment", ID: string(id)}
	}
	return inv, err
}

func (s *session) ListInvestments(ctx context.Context, owner ledger.OwnerID) ([]ledger.Investment, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT `+investmentColumns+` FROM investments WHERE owner_id = ? ORDER BY created_at ASC`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Investment
	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (s *session) UpdateInvestment(ctx context.Context, inv ledger.Investment) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE investments SET name = ?, type = ?, current_value = ?, last_updated = ?
		WHERE id = ? AND owner_id = ?`,
		inv.Name, inv.Type, inv.CurrentValue.String(), bindTime(inv.LastUpdated),
		inv.ID, inv.OwnerID)
	if err != nil {
		return err
	}
	return requireRow(res, &ledger.NotFoundError{Kind: "investment", ID: string(inv.ID)})
}

func (s *session) DeleteInvestment(ctx context.Context, owner ledger.OwnerID, id ledger.InvestmentID) (bool, error) {
	res, err := s.q.ExecContext(ctx, `
		DELETE FROM investments WHERE id = ? AND owner_id = ?`, id, owner)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil || n == 0 {
		return false, err
	}
	_, err = s.q.ExecContext(ctx, `
		DELETE FROM investment_entries WHERE investment_id = ?`, id)
	return true, err
}

// =============================================================================
// INVESTMENT ENTRIES
// =============================================================================

const entryColumns = "id, owner_id, investment_id, year, month, value, created_at"

func scanEntry(row interface{ Scan(...any) error }) (ledger.InvestmentEntry, error) {
	var e ledger.InvestmentEntry
	var value, createdAt string
	err := row.Scan(&e.ID, &e.OwnerID, &e.InvestmentID, &e.Period.Year, &e.Period.Month, &value, &createdAt)
	if err != nil {
		return ledger.InvestmentEntry{}, err
	}
	e.Value = mustDecimal(value)
	e.CreatedAt = scanTime(createdAt)
	return e, nil
}

func (s *session) CreateInvestmentEntry(ctx context.Context, e ledger.InvestmentEntry) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO investment_entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.OwnerID, e.InvestmentID, e.Period.Year, e.Period.Month,
		e.Value.String(), bindTime(e.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert investment entry: %w", err)
	}
	return nil
}

func (s *session) GetInvestmentEntry(ctx context.Context, owner ledger.OwnerID, id ledger.InvestmentEntryID) (ledger.InvestmentEntry, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT `+entryColumns+` FROM investment_entries WHERE id = ? AND owner_id = ?`, id, owner)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.InvestmentEntry{}, &ledger.NotFoundError{Kind: "investment entry", ID: string(id)}
	}
	return e, err
}

func (s *session) GetEntryForMonth(ctx context.Context, investmentID ledger.InvestmentID, period ledger.YearMonth) (ledger.InvestmentEntry, bool, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT `+entryColumns+` FROM investment_entries
		WHERE investment_id = ? AND year = ? AND month = ?`,
		investmentID, period.Year, period.Month)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.InvestmentEntry{}, false, nil
	}
	if err != nil {
		return ledger.InvestmentEntry{}, false, err
	}
	return e, true, nil
}

func (s *session) LatestEntry(ctx context.Context, investmentID ledger.InvestmentID) (ledger.InvestmentEntry, bool, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT `+entryColumns+` FROM investment_entries
		WHERE investment_id = ?
		ORDER BY year DESC, month DESC
		LIMIT 1`, investmentID)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.InvestmentEntry{}, false, nil
	}
	if err != nil {
		return ledger.InvestmentEntry{}, false, err
	}
	return e, true, nil
}

func (s *session) ListInvestmentEntries(ctx context.Context, owner ledger.OwnerID, year *int) ([]ledger.InvestmentEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM investment_entries WHERE owner_id = ?`
	args := []any{owner}
	if year != nil {
		query += ` AND year = ?`
		args = append(args, *year)
	}
	query += ` ORDER BY year ASC, month ASC, created_at ASC`

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.InvestmentEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *session) UpdateInvestmentEntry(ctx context.Context, e ledger.InvestmentEntry) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE investment_entries SET year = ?, month = ?, value = ?
		WHERE id = ? AND owner_id = ?`,
		e.Period.Year, e.Period.Month, e.Value.String(), e.ID, e.OwnerID)
	if err != nil {
		return err
	}
	return requireRow(res, &ledger.NotFoundError{Kind: "investment entry", ID: string(e.ID)})
}

func (s *session) DeleteInvestmentEntry(ctx context.Context, owner ledger.OwnerID, id ledger.InvestmentEntryID) (bool, error) {
	res, err := s.q.ExecContext(ctx, `
		DELETE FROM investment_entries WHERE id = ? AND owner_id = ?`, id, owner)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
