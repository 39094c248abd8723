/*
Package finance contains the reconcilers: the services that manage financial
records and keep account balances consistent through the ledger package.

Every mutating operation follows the same shape:

 1. validate input (before anything is posted)
 2. inside one store transaction: load prior state, compute the old and new
    balance effects with the pure policies, persist the record, and let the
    Poster apply the net transition

If any step fails the whole store transaction rolls back; a balance is never
left half-updated.

transactions.go - Transaction reconciler

  Income adds to the account, expense subtracts, transfer never posts.
  Updates revert the old effect against the old account and apply the new
  effect against the (possibly different) new account.
*/
package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/centavo/finance-engine/ledger"
)

// Transactions manages Transaction records and their balance effects.
type Transactions struct {
	store ledger.TxStore
}

func NewTransactions(store ledger.TxStore) *Transactions {
	return &Transactions{store: store}
}

// TransactionInput is the caller-supplied state of a transaction.
type TransactionInput struct {
	AccountID   ledger.AccountID
	CategoryID  *ledger.CategoryID
	Amount      decimal.Decimal
	Date        time.Time
	Description string
	Type        ledger.TransactionType
}

// TransactionPatch carries partial updates; nil fields keep their value.
type TransactionPatch struct {
	AccountID   *ledger.AccountID
	CategoryID  *ledger.CategoryID
	Amount      *decimal.Decimal
	Date        *time.Time
	Description *string
	Type        *ledger.TransactionType
}

func validateTransaction(tx ledger.Transaction) error {
	if tx.AccountID == "" {
		return &ledger.ValidationError{Field: "accountId", Reason: "required"}
	}
	if !tx.Type.Valid() {
		return &ledger.ValidationError{Field: "type", Reason: "must be income, expense or transfer"}
	}
	if !tx.Amount.IsPositive() {
		return &ledger.ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if tx.Date.IsZero() {
		return &ledger.ValidationError{Field: "date", Reason: "required"}
	}
	return nil
}

// Create persists the transaction and, when posted, applies its delta.
func (s *Transactions) Create(ctx context.Context, owner ledger.OwnerID, in TransactionInput) (ledger.Transaction, error) {
	tx := ledger.Transaction{
		ID:          ledger.TransactionID(uuid.NewString()),
		OwnerID:     owner,
		AccountID:   in.AccountID,
		CategoryID:  in.CategoryID,
		Amount:      in.Amount,
		Date:        in.Date,
		Description: in.Description,
		Type:        in.Type,
		CreatedAt:   time.Now().UTC(),
	}
	if err := validateTransaction(tx); err != nil {
		return ledger.Transaction{}, err
	}

	err := s.store.WithTx(ctx, func(st ledger.Store) error {
		if _, err := st.GetAccount(ctx, owner, tx.AccountID); err != nil {
			return err
		}
		if tx.CategoryID != nil {
			if _, err := st.GetCategory(ctx, owner, *tx.CategoryID); err != nil {
				return err
			}
		}
		if err := st.CreateTransaction(ctx, tx); err != nil {
			return err
		}
		return ledger.NewPoster(st).ApplyTransition(ctx, owner, ledger.NoEffect, ledger.TransactionEffect(tx))
	})
	if err != nil {
		return ledger.Transaction{}, err
	}
	return tx, nil
}

// Update reverts the old effect, persists the changes, applies the new
// effect. The account may differ from the old one (a cross-account
// correction); the old account gets the revert, the new one the apply.
func (s *Transactions) Update(ctx context.Context, owner ledger.OwnerID, id ledger.TransactionID, patch TransactionPatch) (ledger.Transaction, error) {
	var updated ledger.Transaction
	err := s.store.WithTx(ctx, func(st ledger.Store) error {
		existing, err := st.GetTransaction(ctx, owner, id)
		if err != nil {
			return err
		}
		oldEffect := ledger.TransactionEffect(existing)

		updated = existing
		if patch.AccountID != nil {
			updated.AccountID = *patch.AccountID
		}
		if patch.CategoryID != nil {
			updated.CategoryID = patch.CategoryID
		}
		if patch.Amount != nil {
			updated.Amount = *patch.Amount
		}
		if patch.Date != nil {
			updated.Date = *patch.Date
		}
		if patch.Description != nil {
			updated.Description = *patch.Description
		}
		if patch.Type != nil {
			updated.Type = *patch.Type
		}
		if err := validateTransaction(updated); err != nil {
			return err
		}
		if patch.CategoryID != nil {
			if _, err := st.GetCategory(ctx, owner, *patch.CategoryID); err != nil {
				return err
			}
		}

		if err := st.UpdateTransaction(ctx, updated); err != nil {
			return err
		}
		return ledger.NewPoster(st).ApplyTransition(ctx, owner, oldEffect, ledger.TransactionEffect(updated))
	})
	if err != nil {
		return ledger.Transaction{}, err
	}
	return updated, nil
}

// Delete reverts the transaction's effect and removes it. Deletion is always
// symmetric with create; a bare delete without reverting would corrupt the
// balance. Returns false when no owned record exists.
func (s *Transactions) Delete(ctx context.Context, owner ledger.OwnerID, id ledger.TransactionID) (bool, error) {
	found := false
	err := s.store.WithTx(ctx, func(st ledger.Store) error {
		existing, err := st.GetTransaction(ctx, owner, id)
		if err != nil {
			if ledger.IsNotFound(err) {
				return nil
			}
			return err
		}
		found = true

		if err := ledger.NewPoster(st).ApplyTransition(ctx, owner, ledger.TransactionEffect(existing), ledger.NoEffect); err != nil {
			return err
		}
		deleted, err := st.DeleteTransaction(ctx, owner, id)
		if err != nil {
			return err
		}
		if !deleted {
			return &ledger.ConsistencyError{Op: "transaction delete", Detail: "record vanished after revert"}
		}
		return nil
	})
	return found, err
}

// Get returns the owner's transaction.
func (s *Transactions) Get(ctx context.Context, owner ledger.OwnerID, id ledger.TransactionID) (ledger.Transaction, error) {
	return s.store.GetTransaction(ctx, owner, id)
}

// List returns the owner's transactions, newest first.
func (s *Transactions) List(ctx context.Context, owner ledger.OwnerID, filter ledger.TransactionFilter) ([]ledger.Transaction, error) {
	return s.store.ListTransactions(ctx, owner, filter)
}
