/*
debts.go - Debt reconciler

NORMALIZATION:
  A paid debt always has RemainingAmount zero. The rule runs on every create
  and update, before persistence, so no paid debt with a nonzero remainder
  can ever be stored.

BALANCE EFFECT:
  ledger.DebtPosted decides eligibility (paid + linked account + payment in
  a later cycle than competency). A posted debt draws the linked account
  down by TotalAmount; flipping status or moving the payment month reverts
  or applies accordingly, and toggling twice nets to zero.
*/
package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/centavo/finance-engine/ledger"
)

// Debts manages Debt records and their balance effects.
type Debts struct {
	store ledger.TxStore
}

func NewDebts(store ledger.TxStore) *Debts {
	return &Debts{store: store}
}

type DebtInput struct {
	Name            string
	TotalAmount     decimal.Decimal
	RemainingAmount decimal.Decimal
	Competency      ledger.YearMonth
	Payment         ledger.YearMonth
	AccountID       *ledger.AccountID
	InterestRate    *decimal.Decimal
	DueDate         *int
	MinPayment      *decimal.Decimal
	Status          ledger.DebtStatus
}

type DebtPatch struct {
	Name            *string
	TotalAmount     *decimal.Decimal
	RemainingAmount *decimal.Decimal
	Competency      *ledger.YearMonth
	Payment         *ledger.YearMonth
	AccountID       *ledger.AccountID
	InterestRate    *decimal.Decimal
	DueDate         *int
	MinPayment      *decimal.Decimal
	Status          *ledger.DebtStatus
}

// normalizeDebt forces RemainingAmount to zero on paid debts.
func normalizeDebt(d ledger.Debt) ledger.Debt {
	if d.Status == ledger.DebtPaid {
		d.RemainingAmount = decimal.Zero
	}
	return d
}

func validateDebt(d ledger.Debt) error {
	if d.Name == "" {
		return &ledger.ValidationError{Field: "name", Reason: "required"}
	}
	if !d.Status.Valid() {
		return &ledger.ValidationError{Field: "status", Reason: "must be active, paid or defaulted"}
	}
	if !d.TotalAmount.IsPositive() {
		return &ledger.ValidationError{Field: "totalAmount", Reason: "must be positive"}
	}
	if d.RemainingAmount.IsNegative() {
		return &ledger.ValidationError{Field: "remainingAmount", Reason: "must not be negative"}
	}
	if !d.Competency.Valid() {
		return &ledger.ValidationError{Field: "month", Reason: "must be 1-12"}
	}
	if !d.Payment.Valid() {
		return &ledger.ValidationError{Field: "paymentMonth", Reason: "must be 1-12"}
	}
	return nil
}

// Create normalizes, persists, and posts -TotalAmount against the linked
// account when the resulting state is eligible.
func (s *Debts) Create(ctx context.Context, owner ledger.OwnerID, in DebtInput) (ledger.Debt, error) {
	debt := normalizeDebt(ledger.Debt{
		ID:              ledger.DebtID(uuid.NewString()),
		OwnerID:         owner,
		Name:            in.Name,
		TotalAmount:     in.TotalAmount,
		RemainingAmount: in.RemainingAmount,
		Competency:      in.Competency,
		Payment:         in.Payment,
		AccountID:       in.AccountID,
		InterestRate:    in.InterestRate,
		DueDate:         in.DueDate,
		MinPayment:      in.MinPayment,
		Status:          in.Status,
		CreatedAt:       time.Now().UTC(),
	})
	if debt.Status == "" {
		debt.Status = ledger.DebtActive
	}
	if err := validateDebt(debt); err != nil {
		return ledger.Debt{}, err
	}

	err := s.store.WithTx(ctx, func(st ledger.Store) error {
		if debt.AccountID != nil {
			if _, err := st.GetAccount(ctx, owner, *debt.AccountID); err != nil {
				return err
			}
		}
		if err := st.CreateDebt(ctx, debt); err != nil {
			return err
		}
		return ledger.NewPoster(st).ApplyTransition(ctx, owner, ledger.NoEffect, ledger.DebtEffect(debt))
	})
	if err != nil {
		return ledger.Debt{}, err
	}
	return debt, nil
}

// Update reverts the old state's effect when it was posted, normalizes and
// persists the new state, and applies the new effect when eligible - against
// the possibly different linked account.
func (s *Debts) Update(ctx context.Context, owner ledger.OwnerID, id ledger.DebtID, patch DebtPatch) (ledger.Debt, error) {
	var updated ledger.Debt
	err := s.store.WithTx(ctx, func(st ledger.Store) error {
		existing, err := st.GetDebt(ctx, owner, id)
		if err != nil {
			return err
		}
		oldEffect := ledger.DebtEffect(existing)

		updated = existing
		if patch.Name != nil {
			updated.Name = *patch.Name
		}
		if patch.TotalAmount != nil {
			updated.TotalAmount = *patch.TotalAmount
		}
		if patch.RemainingAmount != nil {
			updated.RemainingAmount = *patch.RemainingAmount
		}
		if patch.Competency != nil {
			updated.Competency = *patch.Competency
		}
		if patch.Payment != nil {
			updated.Payment = *patch.Payment
		}
		if patch.AccountID != nil {
			updated.AccountID = patch.AccountID
		}
		if patch.InterestRate != nil {
			updated.InterestRate = patch.InterestRate
		}
		if patch.DueDate != nil {
			updated.DueDate = patch.DueDate
		}
		if patch.MinPayment != nil {
			updated.MinPayment = patch.MinPayment
		}
		if patch.Status != nil {
			updated.Status = *patch.Status
		}
		updated = normalizeDebt(updated)
		if err := validateDebt(updated); err != nil {
			return err
		}

		if err := st.UpdateDebt(ctx, updated); err != nil {
			return err
		}
		return ledger.NewPoster(st).ApplyTransition(ctx, owner, oldEffect, ledger.DebtEffect(updated))
	})
	if err != nil {
		return ledger.Debt{}, err
	}
	return updated, nil
}

// Delete reverts a posted debt's effect and removes the record. Returns
// false when no owned record exists so callers can tell "not found" from
// "deleted".
func (s *Debts) Delete(ctx context.Context, owner ledger.OwnerID, id ledger.DebtID) (bool, error) {
	found := false
	err := s.store.WithTx(ctx, func(st ledger.Store) error {
		existing, err := st.GetDebt(ctx, owner, id)
		if err != nil {
			if ledger.IsNotFound(err) {
				return nil
			}
			return err
		}
		found = true

		if err := ledger.NewPoster(st).ApplyTransition(ctx, owner, ledger.DebtEffect(existing), ledger.NoEffect); err != nil {
			return err
		}
		deleted, err := st.DeleteDebt(ctx, owner, id)
		if err != nil {
			return err
		}
		if !deleted {
			return &ledger.ConsistencyError{Op: "debt delete", Detail: "record vanished after revert"}
		}
		return nil
	})
	return found, err
}

func (s *Debts) Get(ctx context.Context, owner ledger.OwnerID, id ledger.DebtID) (ledger.Debt, error) {
	return s.store.GetDebt(ctx, owner, id)
}

func (s *Debts) List(ctx context.Context, owner ledger.OwnerID) ([]ledger.Debt, error) {
	return s.store.ListDebts(ctx, owner)
}
