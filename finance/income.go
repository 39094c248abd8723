/*
income.go - Income entry reconciler and fixed-income definitions

CUTOVER:
  Whether an income entry posts against its account depends only on the
  global cutover month, injected at construction and immutable afterwards.
  Entries in months before the cutover are historical records.

FIXED INCOMES:
  Recurring definitions have month-scoped mutability: editing or deleting
  one never rewrites history. The existing definition is closed at the end
  of the current month; an edit opens a successor effective the first day of
  the next month. Listing filters out definitions whose end has passed.
  None of this touches balances - fixed incomes are definitions, not posted
  records.
*/
package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/centavo/finance-engine/ledger"
)

// Income manages IncomeEntry records, their balance effects, and the
// fixed-income definitions.
type Income struct {
	store   ledger.TxStore
	cutover ledger.IncomeCutover
	now     func() time.Time
}

func NewIncome(store ledger.TxStore, cutover ledger.IncomeCutover) *Income {
	return &Income{store: store, cutover: cutover, now: func() time.Time { return time.Now().UTC() }}
}

type IncomeEntryInput struct {
	Name       string
	Amount     decimal.Decimal
	Period     ledger.YearMonth
	AccountID  ledger.AccountID
	CategoryID *ledger.CategoryID
}

type IncomeEntryPatch struct {
	Name       *string
	Amount     *decimal.Decimal
	Period     *ledger.YearMonth
	AccountID  *ledger.AccountID
	CategoryID *ledger.CategoryID
}

func validateIncomeEntry(e ledger.IncomeEntry) error {
	if e.Name == "" {
		return &ledger.ValidationError{Field: "name", Reason: "required"}
	}
	if !e.Amount.IsPositive() {
		return &ledger.ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if !e.Period.Valid() {
		return &ledger.ValidationError{Field: "month", Reason: "must be 1-12"}
	}
	if e.AccountID == "" {
		return &ledger.ValidationError{Field: "accountId", Reason: "required"}
	}
	return nil
}

// CreateEntry persists the entry and posts +amount when its month is at or
// after the cutover.
func (s *Income) CreateEntry(ctx context.Context, owner ledger.OwnerID, in IncomeEntryInput) (ledger.IncomeEntry, error) {
	entry := ledger.IncomeEntry{
		ID:         ledger.IncomeEntryID(uuid.NewString()),
		OwnerID:    owner,
		Name:       in.Name,
		Amount:     in.Amount,
		Period:     in.Period,
		AccountID:  in.AccountID,
		CategoryID: in.CategoryID,
		CreatedAt:  s.now(),
	}
	if err := validateIncomeEntry(entry); err != nil {
		return ledger.IncomeEntry{}, err
	}

	err := s.store.WithTx(ctx, func(st ledger.Store) error {
		if _, err := st.GetAccount(ctx, owner, entry.AccountID); err != nil {
			return err
		}
		if err := st.CreateIncomeEntry(ctx, entry); err != nil {
			return err
		}
		return ledger.NewPoster(st).ApplyTransition(ctx, owner, ledger.NoEffect, s.cutover.Effect(entry))
	})
	if err != nil {
		return ledger.IncomeEntry{}, err
	}
	return entry, nil
}

// UpdateEntry reverts the old effect (when posted), persists the change, and
// applies the new effect against the possibly different account. A missing
// or foreign record reports found=false, not an error.
func (s *Income) UpdateEntry(ctx context.Context, owner ledger.OwnerID, id ledger.IncomeEntryID, patch IncomeEntryPatch) (ledger.IncomeEntry, bool, error) {
	var updated ledger.IncomeEntry
	found := false
	err := s.store.WithTx(ctx, func(st ledger.Store) error {
		existing, err := st.GetIncomeEntry(ctx, owner, id)
		if err != nil {
			if ledger.IsNotFound(err) {
				return nil
			}
			return err
		}
		found = true
		oldEffect := s.cutover.Effect(existing)

		updated = existing
		if patch.Name != nil {
			updated.Name = *patch.Name
		}
		if patch.Amount != nil {
			updated.Amount = *patch.Amount
		}
		if patch.Period != nil {
			updated.Period = *patch.Period
		}
		if patch.AccountID != nil {
			updated.AccountID = *patch.AccountID
		}
		if patch.CategoryID != nil {
			updated.CategoryID = patch.CategoryID
		}
		if err := validateIncomeEntry(updated); err != nil {
			return err
		}

		if err := st.UpdateIncomeEntry(ctx, updated); err != nil {
			return err
		}
		return ledger.NewPoster(st).ApplyTransition(ctx, owner, oldEffect, s.cutover.Effect(updated))
	})
	if err != nil || !found {
		return ledger.IncomeEntry{}, found, err
	}
	return updated, true, nil
}

// DeleteEntry reverts a posted entry and removes it. Returns false when no
// owned record exists; the balance is untouched in that case.
func (s *Income) DeleteEntry(ctx context.Context, owner ledger.OwnerID, id ledger.IncomeEntryID) (bool, error) {
	found := false
	err := s.store.WithTx(ctx, func(st ledger.Store) error {
		existing, err := st.GetIncomeEntry(ctx, owner, id)
		if err != nil {
			if ledger.IsNotFound(err) {
				return nil
			}
			return err
		}
		found = true

		if err := ledger.NewPoster(st).ApplyTransition(ctx, owner, s.cutover.Effect(existing), ledger.NoEffect); err != nil {
			return err
		}
		deleted, err := st.DeleteIncomeEntry(ctx, owner, id)
		if err != nil {
			return err
		}
		if !deleted {
			return &ledger.ConsistencyError{Op: "income entry delete", Detail: "record vanished after revert"}
		}
		return nil
	})
	return found, err
}

// ListEntries returns all of the owner's entries, or one month's.
func (s *Income) ListEntries(ctx context.Context, owner ledger.OwnerID, period *ledger.YearMonth) ([]ledger.IncomeEntry, error) {
	return s.store.ListIncomeEntries(ctx, owner, period)
}

// =============================================================================
// FIXED INCOMES - month-scoped mutability
// =============================================================================

type FixedIncomeInput struct {
	Name       string
	Amount     decimal.Decimal
	DayOfMonth int
	AccountID  ledger.AccountID
	CategoryID *ledger.CategoryID
}

type FixedIncomePatch struct {
	Name       *string
	Amount     *decimal.Decimal
	DayOfMonth *int
	AccountID  *ledger.AccountID
	CategoryID *ledger.CategoryID
}

func validateFixedIncome(f ledger.FixedIncome) error {
	if f.Name == "" {
		return &ledger.ValidationError{Field: "name", Reason: "required"}
	}
	if !f.Amount.IsPositive() {
		return &ledger.ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if f.DayOfMonth < 1 || f.DayOfMonth > 31 {
		return &ledger.ValidationError{Field: "dayOfMonth", Reason: "must be 1-31"}
	}
	if f.AccountID == "" {
		return &ledger.ValidationError{Field: "accountId", Reason: "required"}
	}
	return nil
}

func endOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location()).Add(-time.Nanosecond)
}

func firstOfNextMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location())
}

// CreateFixed creates a definition effective immediately.
func (s *Income) CreateFixed(ctx context.Context, owner ledger.OwnerID, in FixedIncomeInput) (ledger.FixedIncome, error) {
	now := s.now()
	fixed := ledger.FixedIncome{
		ID:         ledger.FixedIncomeID(uuid.NewString()),
		OwnerID:    owner,
		Name:       in.Name,
		Amount:     in.Amount,
		DayOfMonth: in.DayOfMonth,
		AccountID:  in.AccountID,
		CategoryID: in.CategoryID,
		StartsAt:   now,
		CreatedAt:  now,
	}
	if err := validateFixedIncome(fixed); err != nil {
		return ledger.FixedIncome{}, err
	}

	err := s.store.WithTx(ctx, func(st ledger.Store) error {
		if _, err := st.GetAccount(ctx, owner, fixed.AccountID); err != nil {
			return err
		}
		return st.CreateFixedIncome(ctx, fixed)
	})
	if err != nil {
		return ledger.FixedIncome{}, err
	}
	return fixed, nil
}

// ListFixed returns definitions still in force (end date unset or not yet
// passed).
func (s *Income) ListFixed(ctx context.Context, owner ledger.OwnerID) ([]ledger.FixedIncome, error) {
	all, err := s.store.ListFixedIncomes(ctx, owner)
	if err != nil {
		return nil, err
	}
	now := s.now()
	active := all[:0]
	for _, f := range all {
		if f.EndsAt == nil || !f.EndsAt.Before(now) {
			active = append(active, f)
		}
	}
	return active, nil
}

// UpdateFixed closes the existing definition at the end of the current month
// and opens a successor effective the first day of next month with the
// updated fields. Past months keep the old definition; nothing already
// posted changes.
func (s *Income) UpdateFixed(ctx context.Context, owner ledger.OwnerID, id ledger.FixedIncomeID, patch FixedIncomePatch) (ledger.FixedIncome, bool, error) {
	var successor ledger.FixedIncome
	found := false
	err := s.store.WithTx(ctx, func(st ledger.Store) error {
		existing, err := st.GetFixedIncome(ctx, owner, id)
		if err != nil {
			if ledger.IsNotFound(err) {
				return nil
			}
			return err
		}
		found = true

		now := s.now()
		closeAt := endOfMonth(now)
		existing.EndsAt = &closeAt
		if err := st.UpdateFixedIncome(ctx, existing); err != nil {
			return err
		}

		successor = ledger.FixedIncome{
			ID:         ledger.FixedIncomeID(uuid.NewString()),
			OwnerID:    owner,
			Name:       existing.Name,
			Amount:     existing.Amount,
			DayOfMonth: existing.DayOfMonth,
			AccountID:  existing.AccountID,
			CategoryID: existing.CategoryID,
			StartsAt:   firstOfNextMonth(now),
			CreatedAt:  now,
		}
		if patch.Name != nil {
			successor.Name = *patch.Name
		}
		if patch.Amount != nil {
			successor.Amount = *patch.Amount
		}
		if patch.DayOfMonth != nil {
			successor.DayOfMonth = *patch.DayOfMonth
		}
		if patch.AccountID != nil {
			successor.AccountID = *patch.AccountID
		}
		if patch.CategoryID != nil {
			successor.CategoryID = patch.CategoryID
		}
		if err := validateFixedIncome(successor); err != nil {
			return err
		}
		return st.CreateFixedIncome(ctx, successor)
	})
	if err != nil || !found {
		return ledger.FixedIncome{}, found, err
	}
	return successor, true, nil
}

// DeleteFixed closes the definition at the end of the current month. The
// record stays; past months are unaffected.
func (s *Income) DeleteFixed(ctx context.Context, owner ledger.OwnerID, id ledger.FixedIncomeID) (bool, error) {
	found := false
	err := s.store.WithTx(ctx, func(st ledger.Store) error {
		existing, err := st.GetFixedIncome(ctx, owner, id)
		if err != nil {
			if ledger.IsNotFound(err) {
				return nil
			}
			return err
		}
		found = true

		closeAt := endOfMonth(s.now())
		existing.EndsAt = &closeAt
		return st.UpdateFixedIncome(ctx, existing)
	})
	return found, err
}
