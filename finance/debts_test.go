package finance_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centavo/finance-engine/finance"
	"github.com/centavo/finance-engine/ledger"
	memstore "github.com/centavo/finance-engine/ledger/store"
)

func paidDebt(account ledger.AccountID, total string) finance.DebtInput {
	id := account
	return finance.DebtInput{
		Name:            "credit card",
		TotalAmount:     d(total),
		RemainingAmount: d(total),
		Competency:      ledger.YearMonth{Year: 2025, Month: 3},
		Payment:         ledger.YearMonth{Year: 2025, Month: 4},
		AccountID:       &id,
		Status:          ledger.DebtPaid,
	}
}

// =============================================================================
// CREATE
// =============================================================================

func TestDebts_Create_QualifyingPaidDebt_PostsNegativeTotal(t *testing.T) {
	// GIVEN: Account at 1000
	// WHEN: A paid debt of 300, payment month after competency, is created
	// THEN: Balance drops to 700

	store := memstore.NewTxMemory()
	svc := finance.NewDebts(store)
	ctx := context.Background()
	seedAccount(t, store, "acc-a", "1000")

	_, err := svc.Create(ctx, testOwner, paidDebt("acc-a", "300"))
	require.NoError(t, err)

	assert.True(t, accountBalance(t, store, "acc-a").Equal(d("700")))
}

func TestDebts_Create_ActiveDebt_NoPosting(t *testing.T) {
	store := memstore.NewTxMemory()
	svc := finance.NewDebts(store)
	ctx := context.Background()
	seedAccount(t, store, "acc-a", "1000")

	in := paidDebt("acc-a", "300")
	in.Status = ledger.DebtActive
	_, err := svc.Create(ctx, testOwner, in)
	require.NoError(t, err)

	assert.True(t, accountBalance(t, store, "acc-a").Equal(d("1000")))
}

func TestDebts_Create_DefaultsToActive(t *testing.T) {
	store := memstore.NewTxMemory()
	svc := finance.NewDebts(store)
	seedAccount(t, store, "acc-a", "1000")

	in := paidDebt("acc-a", "300")
	in.Status = ""
	debt, err := svc.Create(context.Background(), testOwner, in)
	require.NoError(t, err)
	assert.Equal(t, ledger.DebtActive, debt.Status)
}

func TestDebts_Create_PaidNormalizesRemainingToZero(t *testing.T) {
	store := memstore.NewTxMemory()
	svc := finance.NewDebts(store)
	seedAccount(t, store, "acc-a", "1000")

	debt, err := svc.Create(context.Background(), testOwner, paidDebt("acc-a", "300"))
	require.NoError(t, err)
	assert.True(t, debt.RemainingAmount.IsZero(), "a paid debt has nothing remaining")
}

func TestDebts_Create_PaymentInCompetencyMonth_NoPosting(t *testing.T) {
	store := memstore.NewTxMemory()
	svc := finance.NewDebts(store)
	ctx := context.Background()
	seedAccount(t, store, "acc-a", "1000")

	in := paidDebt("acc-a", "300")
	in.Payment = in.Competency
	_, err := svc.Create(ctx, testOwner, in)
	require.NoError(t, err)

	assert.True(t, accountBalance(t, store, "acc-a").Equal(d("1000")),
		"same-month payment does not qualify for posting")
}

// =============================================================================
// UPDATE
// =============================================================================

func TestDebts_Update_PaidToggle_RoundTripNetsZero(t *testing.T) {
	// GIVEN: A posted paid debt (balance 700)
	// WHEN: Status flips to active and back to paid
	// THEN: Balance ends where it started after the posting (700)

	store := memstore.NewTxMemory()
	svc := finance.NewDebts(store)
	ctx := context.Background()
	seedAccount(t, store, "acc-a", "1000")

	debt, err := svc.Create(ctx, testOwner, paidDebt("acc-a", "300"))
	require.NoError(t, err)

	active := ledger.DebtActive
	_, err = svc.Update(ctx, testOwner, debt.ID, finance.DebtPatch{Status: &active})
	require.NoError(t, err)
	assert.True(t, accountBalance(t, store, "acc-a").Equal(d("1000")), "unposting reverts the -300")

	paid := ledger.DebtPaid
	_, err = svc.Update(ctx, testOwner, debt.ID, finance.DebtPatch{Status: &paid})
	require.NoError(t, err)
	assert.True(t, accountBalance(t, store, "acc-a").Equal(d("700")))
}

func TestDebts_Update_TotalAmountChange_AdjustsPostedDelta(t *testing.T) {
	store := memstore.NewTxMemory()
	svc := finance.NewDebts(store)
	ctx := context.Background()
	seedAccount(t, store, "acc-a", "1000")

	debt, err := svc.Create(ctx, testOwner, paidDebt("acc-a", "300"))
	require.NoError(t, err)

	total := d("500")
	_, err = svc.Update(ctx, testOwner, debt.ID, finance.DebtPatch{TotalAmount: &total})
	require.NoError(t, err)

	assert.True(t, accountBalance(t, store, "acc-a").Equal(d("500")),
		"the posted delta follows the new total")
}

func TestDebts_Update_MarkPaid_NormalizesRemaining(t *testing.T) {
	store := memstore.NewTxMemory()
	svc := finance.NewDebts(store)
	ctx := context.Background()
	seedAccount(t, store, "acc-a", "1000")

	in := paidDebt("acc-a", "300")
	in.Status = ledger.DebtActive
	debt, err := svc.Create(ctx, testOwner, in)
	require.NoError(t, err)
	require.True(t, debt.RemainingAmount.Equal(d("300")))

	paid := ledger.DebtPaid
	updated, err := svc.Update(ctx, testOwner, debt.ID, finance.DebtPatch{Status: &paid})
	require.NoError(t, err)
	assert.True(t, updated.RemainingAmount.IsZero())
}

func TestDebts_Update_AccountMove_MovesPostedDelta(t *testing.T) {
	store := memstore.NewTxMemory()
	svc := finance.NewDebts(store)
	ctx := context.Background()
	seedAccount(t, store, "acc-a", "1000")
	seedAccount(t, store, "acc-b", "1000")

	debt, err := svc.Create(ctx, testOwner, paidDebt("acc-a", "300"))
	require.NoError(t, err)

	target := ledger.AccountID("acc-b")
	_, err = svc.Update(ctx, testOwner, debt.ID, finance.DebtPatch{AccountID: &target})
	require.NoError(t, err)

	assert.True(t, accountBalance(t, store, "acc-a").Equal(d("1000")))
	assert.True(t, accountBalance(t, store, "acc-b").Equal(d("700")))
}

// =============================================================================
// DELETE
// =============================================================================

func TestDebts_Delete_RevertsPosting(t *testing.T) {
	store := memstore.NewTxMemory()
	svc := finance.NewDebts(store)
	ctx := context.Background()
	seedAccount(t, store, "acc-a", "1000")

	debt, err := svc.Create(ctx, testOwner, paidDebt("acc-a", "300"))
	require.NoError(t, err)
	require.True(t, accountBalance(t, store, "acc-a").Equal(d("700")))

	found, err := svc.Delete(ctx, testOwner, debt.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, accountBalance(t, store, "acc-a").Equal(d("1000")))
}

func TestDebts_Delete_UnpostedDebt_BalanceUntouched(t *testing.T) {
	store := memstore.NewTxMemory()
	svc := finance.NewDebts(store)
	ctx := context.Background()
	seedAccount(t, store, "acc-a", "1000")

	in := paidDebt("acc-a", "300")
	in.Status = ledger.DebtActive
	debt, err := svc.Create(ctx, testOwner, in)
	require.NoError(t, err)

	found, err := svc.Delete(ctx, testOwner, debt.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, accountBalance(t, store, "acc-a").Equal(d("1000")))
}

func TestDebts_Delete_Missing_ReportsNotFound(t *testing.T) {
	store := memstore.NewTxMemory()
	svc := finance.NewDebts(store)

	found, err := svc.Delete(context.Background(), testOwner, "nope")
	require.NoError(t, err)
	assert.False(t, found)
}
