/*
posting.go - The Poster, sole mutator of Account.Balance

PURPOSE:
  Applies signed deltas to account balances. The Poster has no knowledge of
  record kinds; reconcilers translate record state transitions into postings
  (policy.go) and the Poster executes them.

INVARIANTS:
  1. Only the Poster writes Account.Balance (apart from direct user
     corrections, which also route through Post as a delta).
  2. Ownership mismatch is NotFound - no information leak.
  3. A Poster is always constructed over the store view of the enclosing
     transaction, so its writes commit or roll back with everything else.

USAGE:
  err := store.WithTx(ctx, func(s ledger.Store) error {
      poster := ledger.NewPoster(s)
      return poster.ApplyTransition(ctx, owner, oldEffect, newEffect)
  })
*/
package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

// Poster applies balance deltas to accounts through an AccountStore.
type Poster struct {
	accounts AccountStore
}

func NewPoster(accounts AccountStore) *Poster {
	return &Poster{accounts: accounts}
}

// Post applies one signed delta to the account's stored balance and returns
// the updated account. Fails with NotFound if the account is absent or owned
// by someone else.
func (p *Poster) Post(ctx context.Context, owner OwnerID, accountID AccountID, delta decimal.Decimal) (Account, error) {
	account, err := p.accounts.GetAccount(ctx, owner, accountID)
	if err != nil {
		return Account{}, err
	}

	account.Balance = account.Balance.Add(delta)
	if err := p.accounts.SetBalance(ctx, owner, accountID, account.Balance); err != nil {
		return Account{}, err
	}
	return account, nil
}

// ApplyTransition posts the net deltas required to move a record from the
// old effect to the new one. Same-account revert+apply is composed into a
// single posting by Transition, so no transient intermediate value is ever
// stored.
func (p *Poster) ApplyTransition(ctx context.Context, owner OwnerID, old, new Effect) error {
	for _, posting := range Transition(old, new) {
		if _, err := p.Post(ctx, owner, posting.AccountID, posting.Delta); err != nil {
			return err
		}
	}
	return nil
}
