/*
handlers.go - HTTP API handlers for the finance engine

PURPOSE:
  Exposes the balance engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the finance services.

OWNERSHIP:
  Every request carries the owner in the X-Owner-ID header. A record owned
  by someone else is reported exactly like a missing one (404), so the API
  never confirms that a foreign ID exists.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Record not found (or not owned)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/centavo/finance-engine/finance"
	"github.com/centavo/finance-engine/ledger"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Log          zerolog.Logger
	Accounts     *finance.Accounts
	Categories   *finance.Categories
	Transactions *finance.Transactions
	Debts        *finance.Debts
	Income       *finance.Income
	Investments  *finance.Investments
}

// NewHandler wires the finance services over the given store.
func NewHandler(store ledger.TxStore, cutover ledger.IncomeCutover, log zerolog.Logger) *Handler {
	return &Handler{
		Log:          log,
		Accounts:     finance.NewAccounts(store),
		Categories:   finance.NewCategories(store),
		Transactions: finance.NewTransactions(store),
		Debts:        finance.NewDebts(store),
		Income:       finance.NewIncome(store, cutover),
		Investments:  finance.NewInvestments(store),
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case ledger.IsValidation(err):
		writeError(w, http.StatusBadRequest, "Invalid input", err)
	case ledger.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	default:
		h.Log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "Internal error", nil)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err)
		return false
	}
	return true
}

func owner(r *http.Request) ledger.OwnerID {
	return ledger.OwnerID(r.Header.Get("X-Owner-ID"))
}

// requireOwner rejects requests without an owner header.
func (h *Handler) requireOwner(w http.ResponseWriter, r *http.Request) (ledger.OwnerID, bool) {
	o := owner(r)
	if o == "" {
		writeError(w, http.StatusBadRequest, "X-Owner-ID header is required", nil)
		return "", false
	}
	return o, true
}

// parseDate accepts RFC3339 or a bare calendar date.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func writeNotFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "Not found", nil)
}

// =============================================================================
// ACCOUNT HANDLERS
// =============================================================================

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	accounts, err := h.Accounts.List(r.Context(), o)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	dtos := make([]AccountDTO, len(accounts))
	for i, a := range accounts {
		dtos[i] = toAccountDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	account, err := h.Accounts.Get(r.Context(), o, ledger.AccountID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTO(account))
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	var req CreateAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	account, err := h.Accounts.Create(r.Context(), o, finance.AccountInput{
		Name:    req.Name,
		Type:    ledger.AccountType(req.Type),
		Balance: req.Balance,
		Limit:   req.Limit,
		Color:   req.Color,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountDTO(account))
}

func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	var req UpdateAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	patch := finance.AccountPatch{
		Name:  req.Name,
		Limit: req.Limit,
		Color: req.Color,
	}
	if req.Type != nil {
		t := ledger.AccountType(*req.Type)
		patch.Type = &t
	}
	account, err := h.Accounts.Update(r.Context(), o, ledger.AccountID(chi.URLParam(r, "id")), patch)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTO(account))
}

func (h *Handler) AdjustBalance(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	var req AdjustBalanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	account, err := h.Accounts.AdjustBalance(r.Context(), o, ledger.AccountID(chi.URLParam(r, "id")), req.Delta)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTO(account))
}

func (h *Handler) ArchiveAccount(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	if err := h.Accounts.Archive(r.Context(), o, ledger.AccountID(chi.URLParam(r, "id"))); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// CATEGORY HANDLERS
// =============================================================================

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	categories, err := h.Categories.List(r.Context(), o)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	dtos := make([]CategoryDTO, len(categories))
	for i, c := range categories {
		dtos[i] = toCategoryDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	var req CreateCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	category, err := h.Categories.Create(r.Context(), o, finance.CategoryInput{
		Name:  req.Name,
		Type:  ledger.CategoryType(req.Type),
		Color: req.Color,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryDTO(category))
}

// =============================================================================
// TRANSACTION HANDLERS
// =============================================================================

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}

	var filter ledger.TransactionFilter
	q := r.URL.Query()
	if v := q.Get("account_id"); v != "" {
		id := ledger.AccountID(v)
		filter.AccountID = &id
	}
	if v := q.Get("category_id"); v != "" {
		id := ledger.CategoryID(v)
		filter.CategoryID = &id
	}
	if v := q.Get("type"); v != "" {
		t := ledger.TransactionType(v)
		filter.Type = &t
	}
	if v := q.Get("from"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from date", err)
			return
		}
		filter.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid to date", err)
			return
		}
		filter.To = &t
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		filter.Limit = n
	}

	transactions, err := h.Transactions.List(r.Context(), o, filter)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	dtos := make([]TransactionDTO, len(transactions))
	for i, tx := range transactions {
		dtos[i] = toTransactionDTO(tx)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	tx, err := h.Transactions.Get(r.Context(), o, ledger.TransactionID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionDTO(tx))
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	var req CreateTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	in := finance.TransactionInput{
		AccountID:   ledger.AccountID(req.AccountID),
		Amount:      req.Amount,
		Date:        date,
		Description: req.Description,
		Type:        ledger.TransactionType(req.Type),
	}
	if req.CategoryID != nil {
		id := ledger.CategoryID(*req.CategoryID)
		in.CategoryID = &id
	}
	tx, err := h.Transactions.Create(r.Context(), o, in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionDTO(tx))
}

func (h *Handler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	var req UpdateTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	patch := finance.TransactionPatch{
		Amount:      req.Amount,
		Description: req.Description,
	}
	if req.AccountID != nil {
		id := ledger.AccountID(*req.AccountID)
		patch.AccountID = &id
	}
	if req.CategoryID != nil {
		id := ledger.CategoryID(*req.CategoryID)
		patch.CategoryID = &id
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date", err)
			return
		}
		patch.Date = &date
	}
	if req.Type != nil {
		t := ledger.TransactionType(*req.Type)
		patch.Type = &t
	}
	tx, err := h.Transactions.Update(r.Context(), o, ledger.TransactionID(chi.URLParam(r, "id")), patch)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionDTO(tx))
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	found, err := h.Transactions.Delete(r.Context(), o, ledger.TransactionID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if !found {
		writeNotFound(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// DEBT HANDLERS
// =============================================================================

func (h *Handler) ListDebts(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	debts, err := h.Debts.List(r.Context(), o)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	dtos := make([]DebtDTO, len(debts))
	for i, d := range debts {
		dtos[i] = toDebtDTO(d)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetDebt(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	debt, err := h.Debts.Get(r.Context(), o, ledger.DebtID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDebtDTO(debt))
}

func (h *Handler) CreateDebt(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	var req CreateDebtRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	in := finance.DebtInput{
		Name:            req.Name,
		TotalAmount:     req.TotalAmount,
		RemainingAmount: req.RemainingAmount,
		Competency:      ledger.YearMonth{Year: req.Year, Month: req.Month},
		Payment:         ledger.YearMonth{Year: req.PaymentYear, Month: req.PaymentMonth},
		InterestRate:    req.InterestRate,
		DueDate:         req.DueDate,
		MinPayment:      req.MinPayment,
		Status:          ledger.DebtStatus(req.Status),
	}
	if req.AccountID != nil {
		id := ledger.AccountID(*req.AccountID)
		in.AccountID = &id
	}
	debt, err := h.Debts.Create(r.Context(), o, in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDebtDTO(debt))
}

func (h *Handler) UpdateDebt(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	var req UpdateDebtRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	patch := finance.DebtPatch{
		Name:            req.Name,
		TotalAmount:     req.TotalAmount,
		RemainingAmount: req.RemainingAmount,
		InterestRate:    req.InterestRate,
		DueDate:         req.DueDate,
		MinPayment:      req.MinPayment,
	}
	if req.Year != nil || req.Month != nil {
		if req.Year == nil || req.Month == nil {
			writeError(w, http.StatusBadRequest, "year and month must be set together", nil)
			return
		}
		patch.Competency = &ledger.YearMonth{Year: *req.Year, Month: *req.Month}
	}
	if req.PaymentYear != nil || req.PaymentMonth != nil {
		if req.PaymentYear == nil || req.PaymentMonth == nil {
			writeError(w, http.StatusBadRequest, "payment_year and payment_month must be set together", nil)
			return
		}
		patch.Payment = &ledger.YearMonth{Year: *req.PaymentYear, Month: *req.PaymentMonth}
	}
	if req.AccountID != nil {
		id := ledger.AccountID(*req.AccountID)
		patch.AccountID = &id
	}
	if req.Status != nil {
		s := ledger.DebtStatus(*req.Status)
		patch.Status = &s
	}
	debt, err := h.Debts.Update(r.Context(), o, ledger.DebtID(chi.URLParam(r, "id")), patch)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDebtDTO(debt))
}

func (h *Handler) DeleteDebt(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	found, err := h.Debts.Delete(r.Context(), o, ledger.DebtID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if !found {
		writeNotFound(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// INCOME ENTRY HANDLERS
// =============================================================================

func (h *Handler) ListIncomeEntries(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	var period *ledger.YearMonth
	q := r.URL.Query()
	if q.Get("year") != "" || q.Get("month") != "" {
		year, err1 := strconv.Atoi(q.Get("year"))
		month, err2 := strconv.Atoi(q.Get("month"))
		if err1 != nil || err2 != nil {
			writeError(w, http.StatusBadRequest, "year and month must be integers, set together", nil)
			return
		}
		period = &ledger.YearMonth{Year: year, Month: month}
	}
	entries, err := h.Income.ListEntries(r.Context(), o, period)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	dtos := make([]IncomeEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toIncomeEntryDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateIncomeEntry(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	var req CreateIncomeEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	in := finance.IncomeEntryInput{
		Name:      req.Name,
		Amount:    req.Amount,
		Period:    ledger.YearMonth{Year: req.Year, Month: req.Month},
		AccountID: ledger.AccountID(req.AccountID),
	}
	if req.CategoryID != nil {
		id := ledger.CategoryID(*req.CategoryID)
		in.CategoryID = &id
	}
	entry, err := h.Income.CreateEntry(r.Context(), o, in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toIncomeEntryDTO(entry))
}

func (h *Handler) UpdateIncomeEntry(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	var req UpdateIncomeEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	patch := finance.IncomeEntryPatch{
		Name:   req.Name,
		Amount: req.Amount,
	}
	if req.Year != nil || req.Month != nil {
		if req.Year == nil || req.Month == nil {
			writeError(w, http.StatusBadRequest, "year and month must be set together", nil)
			return
		}
		patch.Period = &ledger.YearMonth{Year: *req.Year, Month: *req.Month}
	}
	if req.AccountID != nil {
		id := ledger.AccountID(*req.AccountID)
		patch.AccountID = &id
	}
	if req.CategoryID != nil {
		id := ledger.CategoryID(*req.CategoryID)
		patch.CategoryID = &id
	}
	entry, found, err := h.Income.UpdateEntry(r.Context(), o, ledger.IncomeEntryID(chi.URLParam(r, "id")), patch)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if !found {
		writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, toIncomeEntryDTO(entry))
}

func (h *Handler) DeleteIncomeEntry(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	found, err := h.Income.DeleteEntry(r.Context(), o, ledger.IncomeEntryID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if !found {
		writeNotFound(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// FIXED INCOME HANDLERS
// =============================================================================

func (h *Handler) ListFixedIncomes(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	fixed, err := h.Income.ListFixed(r.Context(), o)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	dtos := make([]FixedIncomeDTO, len(fixed))
	for i, f := range fixed {
		dtos[i] = toFixedIncomeDTO(f)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateFixedIncome(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	var req CreateFixedIncomeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	in := finance.FixedIncomeInput{
		Name:       req.Name,
		Amount:     req.Amount,
		DayOfMonth: req.DayOfMonth,
		AccountID:  ledger.AccountID(req.AccountID),
	}
	if req.CategoryID != nil {
		id := ledger.CategoryID(*req.CategoryID)
		in.CategoryID = &id
	}
	fixed, err := h.Income.CreateFixed(r.Context(), o, in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toFixedIncomeDTO(fixed))
}

func (h *Handler) UpdateFixedIncome(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	var req UpdateFixedIncomeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	patch := finance.FixedIncomePatch{
		Name:       req.Name,
		Amount:     req.Amount,
		DayOfMonth: req.DayOfMonth,
	}
	if req.AccountID != nil {
		id := ledger.AccountID(*req.AccountID)
		patch.AccountID = &id
	}
	if req.CategoryID != nil {
		id := ledger.CategoryID(*req.CategoryID)
		patch.CategoryID = &id
	}
	successor, found, err := h.Income.UpdateFixed(r.Context(), o, ledger.FixedIncomeID(chi.URLParam(r, "id")), patch)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if !found {
		writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, toFixedIncomeDTO(successor))
}

func (h *Handler) DeleteFixedIncome(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	found, err := h.Income.DeleteFixed(r.Context(), o, ledger.FixedIncomeID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if !found {
		writeNotFound(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// INVESTMENT HANDLERS
// =============================================================================

func (h *Handler) ListInvestments(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	investments, err := h.Investments.List(r.Context(), o)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	dtos := make([]InvestmentDTO, len(investments))
	for i, inv := range investments {
		dtos[i] = toInvestmentDTO(inv)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetInvestment(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	inv, err := h.Investments.Get(r.Context(), o, ledger.InvestmentID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toInvestmentDTO(inv))
}

func (h *Handler) CreateInvestment(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	var req CreateInvestmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	inv, err := h.Investments.Create(r.Context(), o, finance.InvestmentInput{
		Name:  req.Name,
		Type:  ledger.InvestmentType(req.Type),
		Value: req.Value,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toInvestmentDTO(inv))
}

func (h *Handler) UpdateInvestment(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	var req UpdateInvestmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	patch := finance.InvestmentPatch{
		Name:         req.Name,
		CurrentValue: req.CurrentValue,
	}
	if req.Type != nil {
		t := ledger.InvestmentType(*req.Type)
		patch.Type = &t
	}
	inv, err := h.Investments.Update(r.Context(), o, ledger.InvestmentID(chi.URLParam(r, "id")), patch)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toInvestmentDTO(inv))
}

func (h *Handler) DeleteInvestment(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	found, err := h.Investments.Delete(r.Context(), o, ledger.InvestmentID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if !found {
		writeNotFound(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// INVESTMENT ENTRY HANDLERS
// =============================================================================

func (h *Handler) UpsertInvestmentEntry(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	var req UpsertEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	entry, err := h.Investments.UpsertEntry(r.Context(), o,
		ledger.InvestmentID(chi.URLParam(r, "id")),
		ledger.YearMonth{Year: req.Year, Month: req.Month},
		req.Value)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toInvestmentEntryDTO(entry))
}

func (h *Handler) ListInvestmentEntries(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	var year *int
	if v := r.URL.Query().Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid year", err)
			return
		}
		year = &n
	}
	entries, err := h.Investments.ListEntries(r.Context(), o, year)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	dtos := make([]InvestmentEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toInvestmentEntryDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) UpdateInvestmentEntry(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	var req UpdateEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	entry, err := h.Investments.UpdateEntry(r.Context(), o, ledger.InvestmentEntryID(chi.URLParam(r, "id")), req.Value)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toInvestmentEntryDTO(entry))
}

func (h *Handler) DeleteInvestmentEntry(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	found, err := h.Investments.DeleteEntry(r.Context(), o, ledger.InvestmentEntryID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if !found {
		writeNotFound(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ApplyInvestment(w http.ResponseWriter, r *http.Request) {
	o, ok := h.requireOwner(w, r)
	if !ok {
		return
	}
	var req ApplyInvestmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	inv, err := h.Investments.Apply(r.Context(), o, finance.ApplyInput{
		InvestmentID: ledger.InvestmentID(req.InvestmentID),
		AccountID:    ledger.AccountID(req.AccountID),
		Amount:       req.Amount,
		Date:         date,
		Description:  req.Description,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toInvestmentDTO(inv))
}
