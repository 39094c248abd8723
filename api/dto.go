/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Monetary fields are decimal.Decimal; shopspring marshals them as quoted
  decimal strings and unmarshals both quoted and bare numbers, so clients
  can send "10.50" or 10.50 without a float ever touching the value.

PARTIAL UPDATES:
  Update requests use pointer fields; absent JSON keys stay nil and the
  corresponding record fields are left untouched.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/centavo/finance-engine/ledger"
)

// =============================================================================
// ACCOUNTS
// =============================================================================

type AccountDTO struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Type      string           `json:"type"`
	Balance   decimal.Decimal  `json:"balance"`
	Limit     *decimal.Decimal `json:"limit,omitempty"`
	Color     string           `json:"color,omitempty"`
	Archived  bool             `json:"archived"`
	CreatedAt string           `json:"created_at"`
}

func toAccountDTO(a ledger.Account) AccountDTO {
	return AccountDTO{
		ID:        string(a.ID),
		Name:      a.Name,
		Type:      string(a.Type),
		Balance:   a.Balance,
		Limit:     a.Limit,
		Color:     a.Color,
		Archived:  a.Archived,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
	}
}

type CreateAccountRequest struct {
	Name    string           `json:"name"`
	Type    string           `json:"type"`
	Balance decimal.Decimal  `json:"balance"`
	Limit   *decimal.Decimal `json:"limit"`
	Color   string           `json:"color"`
}

type UpdateAccountRequest struct {
	Name  *string          `json:"name"`
	Type  *string          `json:"type"`
	Limit *decimal.Decimal `json:"limit"`
	Color *string          `json:"color"`
}

type AdjustBalanceRequest struct {
	Delta decimal.Decimal `json:"delta"`
}

// =============================================================================
// CATEGORIES
// =============================================================================

type CategoryDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Color     string `json:"color,omitempty"`
	CreatedAt string `json:"created_at"`
}

func toCategoryDTO(c ledger.Category) CategoryDTO {
	return CategoryDTO{
		ID:        string(c.ID),
		Name:      c.Name,
		Type:      string(c.Type),
		Color:     c.Color,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

type CreateCategoryRequest struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Color string `json:"color"`
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

type TransactionDTO struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"account_id"`
	CategoryID  *string         `json:"category_id,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Description string          `json:"description,omitempty"`
	Type        string          `json:"type"`
	CreatedAt   string          `json:"created_at"`
}

func toTransactionDTO(tx ledger.Transaction) TransactionDTO {
	dto := TransactionDTO{
		ID:          string(tx.ID),
		AccountID:   string(tx.AccountID),
		Amount:      tx.Amount,
		Date:        tx.Date.Format(time.RFC3339),
		Description: tx.Description,
		Type:        string(tx.Type),
		CreatedAt:   tx.CreatedAt.Format(time.RFC3339),
	}
	if tx.CategoryID != nil {
		id := string(*tx.CategoryID)
		dto.CategoryID = &id
	}
	return dto
}

type CreateTransactionRequest struct {
	AccountID   string          `json:"account_id"`
	CategoryID  *string         `json:"category_id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
}

type UpdateTransactionRequest struct {
	AccountID   *string          `json:"account_id"`
	CategoryID  *string          `json:"category_id"`
	Amount      *decimal.Decimal `json:"amount"`
	Date        *string          `json:"date"`
	Description *string          `json:"description"`
	Type        *string          `json:"type"`
}

// =============================================================================
// DEBTS
// =============================================================================

type DebtDTO struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	TotalAmount     decimal.Decimal  `json:"total_amount"`
	RemainingAmount decimal.Decimal  `json:"remaining_amount"`
	Year            int              `json:"year"`
	Month           int              `json:"month"`
	PaymentYear     int              `json:"payment_year"`
	PaymentMonth    int              `json:"payment_month"`
	AccountID       *string          `json:"account_id,omitempty"`
	InterestRate    *decimal.Decimal `json:"interest_rate,omitempty"`
	DueDate         *int             `json:"due_date,omitempty"`
	MinPayment      *decimal.Decimal `json:"min_payment,omitempty"`
	Status          string           `json:"status"`
	CreatedAt       string           `json:"created_at"`
}

func toDebtDTO(d ledger.Debt) DebtDTO {
	dto := DebtDTO{
		ID:              string(d.ID),
		Name:            d.Name,
		TotalAmount:     d.TotalAmount,
		RemainingAmount: d.RemainingAmount,
		Year:            d.Competency.Year,
		Month:           d.Competency.Month,
		PaymentYear:     d.Payment.Year,
		PaymentMonth:    d.Payment.Month,
		InterestRate:    d.InterestRate,
		DueDate:         d.DueDate,
		MinPayment:      d.MinPayment,
		Status:          string(d.Status),
		CreatedAt:       d.CreatedAt.Format(time.RFC3339),
	}
	if d.AccountID != nil {
		id := string(*d.AccountID)
		dto.AccountID = &id
	}
	return dto
}

type CreateDebtRequest struct {
	Name            string           `json:"name"`
	TotalAmount     decimal.Decimal  `json:"total_amount"`
	RemainingAmount decimal.Decimal  `json:"remaining_amount"`
	Year            int              `json:"year"`
	Month           int              `json:"month"`
	PaymentYear     int              `json:"payment_year"`
	PaymentMonth    int              `json:"payment_month"`
	AccountID       *string          `json:"account_id"`
	InterestRate    *decimal.Decimal `json:"interest_rate"`
	DueDate         *int             `json:"due_date"`
	MinPayment      *decimal.Decimal `json:"min_payment"`
	Status          string           `json:"status"`
}

type UpdateDebtRequest struct {
	Name            *string          `json:"name"`
	TotalAmount     *decimal.Decimal `json:"total_amount"`
	RemainingAmount *decimal.Decimal `json:"remaining_amount"`
	Year            *int             `json:"year"`
	Month           *int             `json:"month"`
	PaymentYear     *int             `json:"payment_year"`
	PaymentMonth    *int             `json:"payment_month"`
	AccountID       *string          `json:"account_id"`
	InterestRate    *decimal.Decimal `json:"interest_rate"`
	DueDate         *int             `json:"due_date"`
	MinPayment      *decimal.Decimal `json:"min_payment"`
	Status          *string          `json:"status"`
}

// =============================================================================
// INCOME
// =============================================================================

type IncomeEntryDTO struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	AccountID  string          `json:"account_id"`
	CategoryID *string         `json:"category_id,omitempty"`
	CreatedAt  string          `json:"created_at"`
}

func toIncomeEntryDTO(e ledger.IncomeEntry) IncomeEntryDTO {
	dto := IncomeEntryDTO{
		ID:        string(e.ID),
		Name:      e.Name,
		Amount:    e.Amount,
		Year:      e.Period.Year,
		Month:     e.Period.Month,
		AccountID: string(e.AccountID),
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
	if e.CategoryID != nil {
		id := string(*e.CategoryID)
		dto.CategoryID = &id
	}
	return dto
}

type CreateIncomeEntryRequest struct {
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	AccountID  string          `json:"account_id"`
	CategoryID *string         `json:"category_id"`
}

type UpdateIncomeEntryRequest struct {
	Name       *string          `json:"name"`
	Amount     *decimal.Decimal `json:"amount"`
	Year       *int             `json:"year"`
	Month      *int             `json:"month"`
	AccountID  *string          `json:"account_id"`
	CategoryID *string          `json:"category_id"`
}

type FixedIncomeDTO struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	DayOfMonth int             `json:"day_of_month"`
	AccountID  string          `json:"account_id"`
	CategoryID *string         `json:"category_id,omitempty"`
	StartsAt   string          `json:"starts_at"`
	EndsAt     *string         `json:"ends_at,omitempty"`
	CreatedAt  string          `json:"created_at"`
}

func toFixedIncomeDTO(f ledger.FixedIncome) FixedIncomeDTO {
	dto := FixedIncomeDTO{
		ID:         string(f.ID),
		Name:       f.Name,
		Amount:     f.Amount,
		DayOfMonth: f.DayOfMonth,
		AccountID:  string(f.AccountID),
		StartsAt:   f.StartsAt.Format(time.RFC3339),
		CreatedAt:  f.CreatedAt.Format(time.RFC3339),
	}
	if f.CategoryID != nil {
		id := string(*f.CategoryID)
		dto.CategoryID = &id
	}
	if f.EndsAt != nil {
		s := f.EndsAt.Format(time.RFC3339)
		dto.EndsAt = &s
	}
	return dto
}

type CreateFixedIncomeRequest struct {
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	DayOfMonth int             `json:"day_of_month"`
	AccountID  string          `json:"account_id"`
	CategoryID *string         `json:"category_id"`
}

type UpdateFixedIncomeRequest struct {
	Name       *string          `json:"name"`
	Amount     *decimal.Decimal `json:"amount"`
	DayOfMonth *int             `json:"day_of_month"`
	AccountID  *string          `json:"account_id"`
	CategoryID *string          `json:"category_id"`
}

// =============================================================================
// INVESTMENTS
// =============================================================================

type InvestmentDTO struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	CurrentValue decimal.Decimal `json:"current_value"`
	LastUpdated  string          `json:"last_updated"`
	CreatedAt    string          `json:"created_at"`
}

func toInvestmentDTO(inv ledger.Investment) InvestmentDTO {
	return InvestmentDTO{
		ID:           string(inv.ID),
		Name:         inv.Name,
		Type:         string(inv.Type),
		CurrentValue: inv.CurrentValue,
		LastUpdated:  inv.LastUpdated.Format(time.RFC3339),
		CreatedAt:    inv.CreatedAt.Format(time.RFC3339),
	}
}

type CreateInvestmentRequest struct {
	Name  string          `json:"name"`
	Type  string          `json:"type"`
	Value decimal.Decimal `json:"value"`
}

type UpdateInvestmentRequest struct {
	Name         *string          `json:"name"`
	Type         *string          `json:"type"`
	CurrentValue *decimal.Decimal `json:"current_value"`
}

type InvestmentEntryDTO struct {
	ID           string          `json:"id"`
	InvestmentID string          `json:"investment_id"`
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	Value        decimal.Decimal `json:"value"`
	CreatedAt    string          `json:"created_at"`
}

func toInvestmentEntryDTO(e ledger.InvestmentEntry) InvestmentEntryDTO {
	return InvestmentEntryDTO{
		ID:           string(e.ID),
		InvestmentID: string(e.InvestmentID),
		Year:         e.Period.Year,
		Month:        e.Period.Month,
		Value:        e.Value,
		CreatedAt:    e.CreatedAt.Format(time.RFC3339),
	}
}

type UpsertEntryRequest struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Value decimal.Decimal `json:"value"`
}

type UpdateEntryRequest struct {
	Value decimal.Decimal `json:"value"`
}

type ApplyInvestmentRequest struct {
	InvestmentID string          `json:"investment_id"`
	AccountID    string          `json:"account_id"`
	Amount       decimal.Decimal `json:"amount"`
	Date         string          `json:"date"`
	Description  string          `json:"description"`
}

// =============================================================================
// ERRORS
// =============================================================================

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
