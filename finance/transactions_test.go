package finance_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centavo/finance-engine/finance"
	"github.com/centavo/finance-engine/ledger"
	memstore "github.com/centavo/finance-engine/ledger/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

const testOwner = ledger.OwnerID("owner-1")

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func seedAccount(t *testing.T, st ledger.Store, id ledger.AccountID, balance string) ledger.Account {
	t.Helper()
	account := ledger.Account{
		ID:        id,
		OwnerID:   testOwner,
		Name:      string(id),
		Type:      ledger.AccountChecking,
		Balance:   d(balance),
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, st.CreateAccount(context.Background(), account))
	return account
}

func accountBalance(t *testing.T, st ledger.Store, id ledger.AccountID) decimal.Decimal {
	t.Helper()
	account, err := st.GetAccount(context.Background(), testOwner, id)
	require.NoError(t, err)
	return account.Balance
}

func incomeTx(account ledger.AccountID, amount string) finance.TransactionInput {
	return finance.TransactionInput{
		AccountID: account,
		Amount:    d(amount),
		Date:      time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		Type:      ledger.TxIncome,
	}
}

func expenseTx(account ledger.AccountID, amount string) finance.TransactionInput {
	in := incomeTx(account, amount)
	in.Type = ledger.TxExpense
	return in
}

// =============================================================================
// CREATE
// =============================================================================

func TestTransactions_Create_IncomePostsPositiveDelta(t *testing.T) {
	// GIVEN: An account with balance 500
	// WHEN: An income transaction of 100 is created
	// THEN: Balance becomes 600

	store := memstore.NewTxMemory()
	svc := finance.NewTransactions(store)
	ctx := context.Background()
	seedAccount(t, store, "acc-a", "500")

	_, err := svc.Create(ctx, testOwner, incomeTx("acc-a", "100"))
	require.NoError(t, err)

	assert.True(t, accountBalance(t, store, "acc-a").Equal(d("600")))
}

func TestTransactions_Create_ExpensePostsNegativeDelta(t *testing.T) {
	store := memstore.NewTxMemory()
	svc := finance.NewTransactions(store)
	ctx := context.Background()
	seedAccount(t, store, "acc-a", "500")

	_, err := svc.Create(ctx, testOwner, expenseTx("acc-a", "120.50"))
	require.NoError(t, err)

	assert.True(t, accountBalance(t, store, "acc-a").Equal(d("379.50")))
}

func TestTransactions_Create_TransferLeavesBalanceAlone(t *testing.T) {
	store := memstore.NewTxMemory()
	svc := finance.NewTransactions(store)
	ctx := context.Background()
	seedAccount(t, store, "acc-a", "500")

	in := incomeTx("acc-a", "100")
	in.Type = ledger.TxTransfer
	_, err := svc.Create(ctx, testOwner, in)
	require.NoError(t, err)

	assert.True(t, accountBalance(t, store, "acc-a").Equal(d("500")),
		"transfers are recorded but never posted")
}

func TestTransactions_Create_UnknownAccount_FailsWithoutPersisting(t *testing.T) {
	store := memstore.NewTxMemory()
	svc := finance.NewTransactions(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, testOwner, incomeTx("missing", "100"))
	require.Error(t, err)
	assert.True(t, ledger.IsNotFound(err))

	list, err := svc.List(ctx, testOwner, ledger.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, list, "nothing may be stored when the account check fails")
}

func TestTransactions_Create_RejectsNonPositiveAmount(t *testing.T) {
	store := memstore.NewTxMemory()
	svc := finance.NewTransactions(store)
	seedAccount(t, store, "acc-a", "500")

	in := incomeTx("acc-a", "0")
	_, err := svc.Create(context.Background(), testOwner, in)
	require.Error(t, err)
	assert.True(t, ledger.IsValidation(err))
}

// =============================================================================
// UPDATE
// =============================================================================

func TestTransactions_Update_AmountChange_AdjustsByNetDelta(t *testing.T) {
	// GIVEN: Account at 500 with a posted income of 100 (balance 600)
	// WHEN: The amount is changed to 250
	// THEN: Balance becomes 750, reflecting the +150 net

	store := memstore.NewTxMemory()
	svc := finance.NewTransactions(store)
	ctx := context.Background()
	seedAccount(t, store, "acc-a", "500")

	tx, err := svc.Create(ctx, testOwner, incomeTx("acc-a", "100"))
	require.NoError(t, err)

	amount := d("250")
	_, err = svc.Update(ctx, testOwner, tx.ID, finance.TransactionPatch{Amount: &amount})
	require.NoError(t, err)

	assert.True(t, accountBalance(t, store, "acc-a").Equal(d("750")))
}

func TestTransactions_Update_AccountMove_ConservesTotal(t *testing.T) {
	// GIVEN: A=600 (500 + posted income 100), B=300
	// WHEN: The income is moved from A to B
	// THEN: A=500, B=400; the total across accounts is unchanged

	store := memstore.NewTxMemory()
	svc := finance.NewTransactions(store)
	ctx := context.Background()
	seedAccount(t, store, "acc-a", "500")
	seedAccount(t, store, "acc-b", "300")

	tx, err := svc.Create(ctx, testOwner, incomeTx("acc-a", "100"))
	require.NoError(t, err)

	target := ledger.AccountID("acc-b")
	_, err = svc.Update(ctx, testOwner, tx.ID, finance.TransactionPatch{AccountID: &target})
	require.NoError(t, err)

	a := accountBalance(t, store, "acc-a")
	b := accountBalance(t, store, "acc-b")
	assert.True(t, a.Equal(d("500")))
	assert.True(t, b.Equal(d("400")))
	assert.True(t, a.Add(b).Equal(d("900")), "moving a record conserves the total")
}

func TestTransactions_Update_TypeFlip_RevertsAndReapplies(t *testing.T) {
	// Income +100 flipped to expense nets -200 against the balance.
	store := memstore.NewTxMemory()
	svc := finance.NewTransactions(store)
	ctx := context.Background()
	seedAccount(t, store, "acc-a", "500")

	tx, err := svc.Create(ctx, testOwner, incomeTx("acc-a", "100"))
	require.NoError(t, err)

	expense := ledger.TxExpense
	_, err = svc.Update(ctx, testOwner, tx.ID, finance.TransactionPatch{Type: &expense})
	require.NoError(t, err)

	assert.True(t, accountBalance(t, store, "acc-a").Equal(d("400")))
}

func TestTransactions_Update_DescriptionOnly_NoBalanceChange(t *testing.T) {
	store := memstore.NewTxMemory()
	svc := finance.NewTransactions(store)
	ctx := context.Background()
	seedAccount(t, store, "acc-a", "500")

	tx, err := svc.Create(ctx, testOwner, incomeTx("acc-a", "100"))
	require.NoError(t, err)

	desc := "groceries"
	updated, err := svc.Update(ctx, testOwner, tx.ID, finance.TransactionPatch{Description: &desc})
	require.NoError(t, err)

	assert.Equal(t, "groceries", updated.Description)
	assert.True(t, accountBalance(t, store, "acc-a").Equal(d("600")),
		"a non-financial edit must not touch the balance")
}

func TestTransactions_Update_ForeignOwner_ReportsNotFound(t *testing.T) {
	store := memstore.NewTxMemory()
	svc := finance.NewTransactions(store)
	ctx := context.Background()
	seedAccount(t, store, "acc-a", "500")

	tx, err := svc.Create(ctx, testOwner, incomeTx("acc-a", "100"))
	require.NoError(t, err)

	amount := d("999")
	_, err = svc.Update(ctx, "intruder", tx.ID, finance.TransactionPatch{Amount: &amount})
	require.Error(t, err)
	assert.True(t, ledger.IsNotFound(err), "a foreign record looks exactly like a missing one")

	assert.True(t, accountBalance(t, store, "acc-a").Equal(d("600")))
}

// =============================================================================
// DELETE
// =============================================================================

func TestTransactions_Delete_RevertsPostedDelta(t *testing.T) {
	store := memstore.NewTxMemory()
	svc := finance.NewTransactions(store)
	ctx := context.Background()
	seedAccount(t, store, "acc-a", "500")

	tx, err := svc.Create(ctx, testOwner, expenseTx("acc-a", "80"))
	require.NoError(t, err)
	require.True(t, accountBalance(t, store, "acc-a").Equal(d("420")))

	found, err := svc.Delete(ctx, testOwner, tx.ID)
	require.NoError(t, err)
	assert.True(t, found)

	assert.True(t, accountBalance(t, store, "acc-a").Equal(d("500")))
}

func TestTransactions_Delete_Twice_SecondReportsNotFound(t *testing.T) {
	store := memstore.NewTxMemory()
	svc := finance.NewTransactions(store)
	ctx := context.Background()
	seedAccount(t, store, "acc-a", "500")

	tx, err := svc.Create(ctx, testOwner, incomeTx("acc-a", "100"))
	require.NoError(t, err)

	found, err := svc.Delete(ctx, testOwner, tx.ID)
	require.NoError(t, err)
	require.True(t, found)

	found, err = svc.Delete(ctx, testOwner, tx.ID)
	require.NoError(t, err)
	assert.False(t, found, "second delete must not revert again")

	assert.True(t, accountBalance(t, store, "acc-a").Equal(d("500")),
		"double delete would corrupt the balance if the revert ran twice")
}

// =============================================================================
// LIST FILTERS
// =============================================================================

func TestTransactions_List_FiltersByAccountAndType(t *testing.T) {
	store := memstore.NewTxMemory()
	svc := finance.NewTransactions(store)
	ctx := context.Background()
	seedAccount(t, store, "acc-a", "500")
	seedAccount(t, store, "acc-b", "500")

	_, err := svc.Create(ctx, testOwner, incomeTx("acc-a", "100"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, testOwner, expenseTx("acc-a", "50"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, testOwner, incomeTx("acc-b", "200"))
	require.NoError(t, err)

	account := ledger.AccountID("acc-a")
	byAccount, err := svc.List(ctx, testOwner, ledger.TransactionFilter{AccountID: &account})
	require.NoError(t, err)
	assert.Len(t, byAccount, 2)

	income := ledger.TxIncome
	byType, err := svc.List(ctx, testOwner, ledger.TransactionFilter{Type: &income})
	require.NoError(t, err)
	assert.Len(t, byType, 2)

	both, err := svc.List(ctx, testOwner, ledger.TransactionFilter{AccountID: &account, Type: &income})
	require.NoError(t, err)
	assert.Len(t, both, 1)
}
