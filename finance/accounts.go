/*
accounts.go - Account service

  Accounts are created and edited directly by their owner, but the stored
  balance is off-limits: a user correction is expressed as a delta and
  routed through the Poster like any other posting. Accounts are archived,
  never deleted, so historical records keep a valid reference.
*/
package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/centavo/finance-engine/ledger"
)

// Accounts manages Account records.
type Accounts struct {
	store ledger.TxStore
}

func NewAccounts(store ledger.TxStore) *Accounts {
	return &Accounts{store: store}
}

type AccountInput struct {
	Name    string
	Type    ledger.AccountType
	Balance decimal.Decimal // opening balance
	Limit   *decimal.Decimal
	Color   string
}

type AccountPatch struct {
	Name  *string
	Type  *ledger.AccountType
	Limit *decimal.Decimal
	Color *string
}

func validateAccount(a ledger.Account) error {
	if a.Name == "" {
		return &ledger.ValidationError{Field: "name", Reason: "required"}
	}
	if !a.Type.Valid() {
		return &ledger.ValidationError{Field: "type", Reason: "unknown account type"}
	}
	return nil
}

// Create opens an account with the given opening balance.
func (s *Accounts) Create(ctx context.Context, owner ledger.OwnerID, in AccountInput) (ledger.Account, error) {
	account := ledger.Account{
		ID:        ledger.AccountID(uuid.NewString()),
		OwnerID:   owner,
		Name:      in.Name,
		Type:      in.Type,
		Balance:   in.Balance,
		Limit:     in.Limit,
		Color:     in.Color,
		CreatedAt: time.Now().UTC(),
	}
	if err := validateAccount(account); err != nil {
		return ledger.Account{}, err
	}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		return ledger.Account{}, err
	}
	return account, nil
}

// Update edits identity fields. Balance is untouchable here.
func (s *Accounts) Update(ctx context.Context, owner ledger.OwnerID, id ledger.AccountID, patch AccountPatch) (ledger.Account, error) {
	var updated ledger.Account
	err := s.store.WithTx(ctx, func(st ledger.Store) error {
		existing, err := st.GetAccount(ctx, owner, id)
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
		if patch.Limit != nil {
			updated.Limit = patch.Limit
		}
		if patch.Color != nil {
			updated.Color = *patch.Color
		}
		if err := validateAccount(updated); err != nil {
			return err
		}
		return st.UpdateAccount(ctx, updated)
	})
	if err != nil {
		return ledger.Account{}, err
	}
	return updated, nil
}

// AdjustBalance applies a user-initiated balance correction as a posting.
func (s *Accounts) AdjustBalance(ctx context.Context, owner ledger.OwnerID, id ledger.AccountID, delta decimal.Decimal) (ledger.Account, error) {
	var updated ledger.Account
	err := s.store.WithTx(ctx, func(st ledger.Store) error {
		var err error
		updated, err = ledger.NewPoster(st).Post(ctx, owner, id, delta)
		return err
	})
	if err != nil {
		return ledger.Account{}, err
	}
	return updated, nil
}

// Archive soft-deletes the account; the row and its balance survive.
func (s *Accounts) Archive(ctx context.Context, owner ledger.OwnerID, id ledger.AccountID) error {
	return s.store.ArchiveAccount(ctx, owner, id)
}

func (s *Accounts) Get(ctx context.Context, owner ledger.OwnerID, id ledger.AccountID) (ledger.Account, error) {
	return s.store.GetAccount(ctx, owner, id)
}

func (s *Accounts) List(ctx context.Context, owner ledger.OwnerID) ([]ledger.Account, error) {
	return s.store.ListAccounts(ctx, owner)
}

// =============================================================================
// CATEGORIES - thin reference targets
// =============================================================================

// Categories exists so transactions and income entries can resolve their
// category references; category semantics live elsewhere.
type Categories struct {
	store ledger.TxStore
}

func NewCategories(store ledger.TxStore) *Categories {
	return &Categories{store: store}
}

type CategoryInput struct {
	Name  string
	Type  ledger.CategoryType
	Color string
}

func (s *Categories) Create(ctx context.Context, owner ledger.OwnerID, in CategoryInput) (ledger.Category, error) {
	if in.Name == "" {
		return ledger.Category{}, &ledger.ValidationError{Field: "name", Reason: "required"}
	}
	if in.Type != ledger.CategoryIncome && in.Type != ledger.CategoryExpense {
		return ledger.Category{}, &ledger.ValidationError{Field: "type", Reason: "must be income or expense"}
	}
	category := ledger.Category{
		ID:        ledger.CategoryID(uuid.NewString()),
		OwnerID:   owner,
		Name:      in.Name,
		Type:      in.Type,
		Color:     in.Color,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return ledger.Category{}, err
	}
	return category, nil
}

func (s *Categories) List(ctx context.Context, owner ledger.OwnerID) ([]ledger.Category, error) {
	return s.store.ListCategories(ctx, owner)
}
