/*
investments.go - Investment valuation engine and application orchestrator

VALUATION RULE (uniform, applied to every entry mutation):
  CurrentValue always equals the value of the chronologically latest entry
  after an entry is created, accumulated, updated or deleted. Backfilling an
  earlier month therefore never moves CurrentValue.

ACCUMULATION:
  At most one logical entry exists per (investment, year, month). A second
  contribution in the same month adds to the existing entry instead of
  replacing it.

APPLICATION:
  Apply moves money from an account into an investment as one atomic unit:
  debit the account through the Poster, credit CurrentValue directly (a
  manual top-up, not a monthly entry), and record an audit transfer
  transaction. Either all three effects commit or none do.
*/
package finance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/centavo/finance-engine/ledger"
)

// Investments manages Investment and InvestmentEntry records.
type Investments struct {
	store ledger.TxStore
	now   func() time.Time
}

func NewInvestments(store ledger.TxStore) *Investments {
	return &Investments{store: store, now: func() time.Time { return time.Now().UTC() }}
}

type InvestmentInput struct {
	Name  string
	Type  ledger.InvestmentType
	Value decimal.Decimal
}

type InvestmentPatch struct {
	Name         *string
	Type         *ledger.InvestmentType
	CurrentValue *decimal.Decimal // user-initiated correction
}

func validateInvestment(inv ledger.Investment) error {
	if inv.Name == "" {
		return &ledger.ValidationError{Field: "name", Reason: "required"}
	}
	if !inv.Type.Valid() {
		return &ledger.ValidationError{Field: "type", Reason: "unknown investment type"}
	}
	if inv.CurrentValue.IsNegative() {
		return &ledger.ValidationError{Field: "currentValue", Reason: "must not be negative"}
	}
	return nil
}

// Create registers an investment with its starting value.
func (s *Investments) Create(ctx context.Context, owner ledger.OwnerID, in InvestmentInput) (ledger.Investment, error) {
	now := s.now()
	inv := ledger.Investment{
		ID:           ledger.InvestmentID(uuid.NewString()),
		OwnerID:      owner,
		Name:         in.Name,
		Type:         in.Type,
		CurrentValue: in.Value,
		LastUpdated:  now,
		CreatedAt:    now,
	}
	if err := validateInvestment(inv); err != nil {
		return ledger.Investment{}, err
	}
	if err := s.store.CreateInvestment(ctx, inv); err != nil {
		return ledger.Investment{}, err
	}
	return inv, nil
}

// Update applies user edits. Setting CurrentValue here is a manual
// correction; the next entry mutation re-derives it from the latest entry.
func (s *Investments) Update(ctx context.Context, owner ledger.OwnerID, id ledger.InvestmentID, patch InvestmentPatch) (ledger.Investment, error) {
	var updated ledger.Investment
	err := s.store.WithTx(ctx, func(st ledger.Store) error {
		existing, err := st.GetInvestment(ctx, owner, id)
		if err != nil {
			return err
		}
		updated = existing
		if patch.Name != nil {
			updated.Name = *patch.Name
		}
		if patch.Type != nil {
			updated.Type = *patch.Type
		}
		if patch.CurrentValue != nil {
			updated.CurrentValue = *patch.CurrentValue
			updated.LastUpdated = s.now()
		}
		if err := validateInvestment(updated); err != nil {
			return err
		}
		return st.UpdateInvestment(ctx, updated)
	})
	if err != nil {
		return ledger.Investment{}, err
	}
	return updated, nil
}

// Delete removes the investment and its entries. Investments live outside
// the account ledger, so nothing is reverted.
func (s *Investments) Delete(ctx context.Context, owner ledger.OwnerID, id ledger.InvestmentID) (bool, error) {
	return s.store.DeleteInvestment(ctx, owner, id)
}

func (s *Investments) Get(ctx context.Context, owner ledger.OwnerID, id ledger.InvestmentID) (ledger.Investment, error) {
	return s.store.GetInvestment(ctx, owner, id)
}

func (s *Investments) List(ctx context.Context, owner ledger.OwnerID) ([]ledger.Investment, error) {
	return s.store.ListInvestments(ctx, owner)
}

// =============================================================================
// ENTRIES
// =============================================================================

// refreshCurrentValue re-derives CurrentValue from the chronologically
// latest entry. With no entries left it leaves the value alone (manual
// top-ups and corrections are not entry-backed).
func (s *Investments) refreshCurrentValue(ctx context.Context, st ledger.Store, owner ledger.OwnerID, investmentID ledger.InvestmentID) error {
	latest, ok, err := st.LatestEntry(ctx, investmentID)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	inv, err := st.GetInvestment(ctx, owner, investmentID)
	if err != nil {
		return err
	}
	inv.CurrentValue = latest.Value
	inv.LastUpdated = s.now()
	return st.UpdateInvestment(ctx, inv)
}

// UpsertEntry records a value for one month. An existing entry for the same
// month accumulates (existing + value); otherwise a new entry is created.
func (s *Investments) UpsertEntry(ctx context.Context, owner ledger.OwnerID, investmentID ledger.InvestmentID, period ledger.YearMonth, value decimal.Decimal) (ledger.InvestmentEntry, error) {
	if !period.Valid() {
		return ledger.InvestmentEntry{}, &ledger.ValidationError{Field: "month", Reason: "must be 1-12"}
	}
	if !value.IsPositive() {
		return ledger.InvestmentEntry{}, &ledger.ValidationError{Field: "value", Reason: "must be positive"}
	}

	var entry ledger.InvestmentEntry
	err := s.store.WithTx(ctx, func(st ledger.Store) error {
		if _, err := st.GetInvestment(ctx, owner, investmentID); err != nil {
			return err
		}

		existing, ok, err := st.GetEntryForMonth(ctx, investmentID, period)
		if err != nil {
			return err
		}
		if ok {
			existing.Value = existing.Value.Add(value)
			if err := st.UpdateInvestmentEntry(ctx, existing); err != nil {
				return err
			}
			entry = existing
		} else {
			entry = ledger.InvestmentEntry{
				ID:           ledger.InvestmentEntryID(uuid.NewString()),
				OwnerID:      owner,
				InvestmentID: investmentID,
				Period:       period,
				Value:        value,
				CreatedAt:    s.now(),
			}
			if err := st.CreateInvestmentEntry(ctx, entry); err != nil {
				return err
			}
		}
		return s.refreshCurrentValue(ctx, st, owner, investmentID)
	})
	if err != nil {
		return ledger.InvestmentEntry{}, err
	}
	return entry, nil
}

// UpdateEntry overwrites an entry's value (no accumulation) and re-derives
// CurrentValue - which may follow a different entry than the one edited.
func (s *Investments) UpdateEntry(ctx context.Context, owner ledger.OwnerID, id ledger.InvestmentEntryID, value decimal.Decimal) (ledger.InvestmentEntry, error) {
	if !value.IsPositive() {
		return ledger.InvestmentEntry{}, &ledger.ValidationError{Field: "value", Reason: "must be positive"}
	}

	var updated ledger.InvestmentEntry
	err := s.store.WithTx(ctx, func(st ledger.Store) error {
		existing, err := st.GetInvestmentEntry(ctx, owner, id)
		if err != nil {
			return err
		}
		existing.Value = value
		if err := st.UpdateInvestmentEntry(ctx, existing); err != nil {
			return err
		}
		updated = existing
		return s.refreshCurrentValue(ctx, st, owner, existing.InvestmentID)
	})
	if err != nil {
		return ledger.InvestmentEntry{}, err
	}
	return updated, nil
}

// DeleteEntry removes an entry and re-derives CurrentValue from whatever is
// now latest.
func (s *Investments) DeleteEntry(ctx context.Context, owner ledger.OwnerID, id ledger.InvestmentEntryID) (bool, error) {
	found := false
	err := s.store.WithTx(ctx, func(st ledger.Store) error {
		existing, err := st.GetInvestmentEntry(ctx, owner, id)
		if err != nil {
			if ledger.IsNotFound(err) {
				return nil
			}
			return err
		}
		found = true

		deleted, err := st.DeleteInvestmentEntry(ctx, owner, id)
		if err != nil {
			return err
		}
		if !deleted {
			return &ledger.ConsistencyError{Op: "investment entry delete", Detail: "record vanished"}
		}
		return s.refreshCurrentValue(ctx, st, owner, existing.InvestmentID)
	})
	return found, err
}

// ListEntries returns the owner's entries, optionally filtered by year.
func (s *Investments) ListEntries(ctx context.Context, owner ledger.OwnerID, year *int) ([]ledger.InvestmentEntry, error) {
	return s.store.ListInvestmentEntries(ctx, owner, year)
}

// =============================================================================
// APPLICATION - move money from an account into an investment
// =============================================================================

type ApplyInput struct {
	InvestmentID ledger.InvestmentID
	AccountID    ledger.AccountID
	Amount       decimal.Decimal
	Date         time.Time
	Description  string // optional; a default is generated
}

// Apply debits the account, credits the investment's CurrentValue, and
// records an audit transfer transaction, all in one store transaction.
// Ownership of both records is verified before any effect is staged.
func (s *Investments) Apply(ctx context.Context, owner ledger.OwnerID, in ApplyInput) (ledger.Investment, error) {
	if !in.Amount.IsPositive() {
		return ledger.Investment{}, &ledger.ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if in.Date.IsZero() {
		return ledger.Investment{}, &ledger.ValidationError{Field: "date", Reason: "required"}
	}

	var updated ledger.Investment
	err := s.store.WithTx(ctx, func(st ledger.Store) error {
		investment, err := st.GetInvestment(ctx, owner, in.InvestmentID)
		if err != nil {
			return err
		}
		if _, err := st.GetAccount(ctx, owner, in.AccountID); err != nil {
			return err
		}

		poster := ledger.NewPoster(st)
		if _, err := poster.Post(ctx, owner, in.AccountID, in.Amount.Neg()); err != nil {
			return err
		}

		investment.CurrentValue = investment.CurrentValue.Add(in.Amount)
		investment.LastUpdated = s.now()
		if err := st.UpdateInvestment(ctx, investment); err != nil {
			return err
		}
		updated = investment

		description := in.Description
		if description == "" {
			description = fmt.Sprintf("Investment application: %s", investment.Name)
		}
		audit := ledger.Transaction{
			ID:          ledger.TransactionID(uuid.NewString()),
			OwnerID:     owner,
			AccountID:   in.AccountID,
			Amount:      in.Amount,
			Date:        in.Date,
			Description: description,
			Type:        ledger.TxTransfer,
			CreatedAt:   s.now(),
		}
		return st.CreateTransaction(ctx, audit)
	})
	if err != nil {
		return ledger.Investment{}, err
	}
	return updated, nil
}
