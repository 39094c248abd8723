package finance_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centavo/finance-engine/finance"
	"github.com/centavo/finance-engine/ledger"
	memstore "github.com/centavo/finance-engine/ledger/store"
)

func newInvestment(t *testing.T, svc *finance.Investments, value string) ledger.Investment {
	t.Helper()
	inv, err := svc.Create(context.Background(), testOwner, finance.InvestmentInput{
		Name:  "index fund",
		Type:  ledger.InvestStock,
		Value: d(value),
	})
	require.NoError(t, err)
	return inv
}

// =============================================================================
// ENTRY UPSERT AND VALUATION
// =============================================================================

func TestInvestments_UpsertEntry_NewMonth_SetsCurrentValue(t *testing.T) {
	store := memstore.NewTxMemory()
	svc := finance.NewInvestments(store)
	ctx := context.Background()
	inv := newInvestment(t, svc, "0")

	_, err := svc.UpsertEntry(ctx, testOwner, inv.ID, ledger.YearMonth{Year: 2025, Month: 3}, d("1000"))
	require.NoError(t, err)

	got, err := svc.Get(ctx, testOwner, inv.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentValue.Equal(d("1000")))
}

func TestInvestments_UpsertEntry_SameMonth_Accumulates(t *testing.T) {
	// GIVEN: An entry of 1000 for 2025-03
	// WHEN: Another 250 is recorded for the same month
	// THEN: One entry of 1250 exists and CurrentValue follows it

	store := memstore.NewTxMemory()
	svc := finance.NewInvestments(store)
	ctx := context.Background()
	inv := newInvestment(t, svc, "0")
	march := ledger.YearMonth{Year: 2025, Month: 3}

	_, err := svc.UpsertEntry(ctx, testOwner, inv.ID, march, d("1000"))
	require.NoError(t, err)
	entry, err := svc.UpsertEntry(ctx, testOwner, inv.ID, march, d("250"))
	require.NoError(t, err)

	assert.True(t, entry.Value.Equal(d("1250")))

	entries, err := svc.ListEntries(ctx, testOwner, nil)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "same-month contributions merge into one entry")

	got, err := svc.Get(ctx, testOwner, inv.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentValue.Equal(d("1250")))
}

func TestInvestments_UpsertEntry_BackfillEarlierMonth_ValueStaysOnLatest(t *testing.T) {
	// GIVEN: Entries for 2025-05 (2000)
	// WHEN: An earlier month 2025-02 (800) is backfilled
	// THEN: CurrentValue stays 2000

	store := memstore.NewTxMemory()
	svc := finance.NewInvestments(store)
	ctx := context.Background()
	inv := newInvestment(t, svc, "0")

	_, err := svc.UpsertEntry(ctx, testOwner, inv.ID, ledger.YearMonth{Year: 2025, Month: 5}, d("2000"))
	require.NoError(t, err)
	_, err = svc.UpsertEntry(ctx, testOwner, inv.ID, ledger.YearMonth{Year: 2025, Month: 2}, d("800"))
	require.NoError(t, err)

	got, err := svc.Get(ctx, testOwner, inv.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentValue.Equal(d("2000")),
		"backfilling history must not move the current valuation")
}

func TestInvestments_UpdateEntry_NonLatest_ValueUnmoved(t *testing.T) {
	store := memstore.NewTxMemory()
	svc := finance.NewInvestments(store)
	ctx := context.Background()
	inv := newInvestment(t, svc, "0")

	early, err := svc.UpsertEntry(ctx, testOwner, inv.ID, ledger.YearMonth{Year: 2025, Month: 2}, d("800"))
	require.NoError(t, err)
	_, err = svc.UpsertEntry(ctx, testOwner, inv.ID, ledger.YearMonth{Year: 2025, Month: 5}, d("2000"))
	require.NoError(t, err)

	_, err = svc.UpdateEntry(ctx, testOwner, early.ID, d("900"))
	require.NoError(t, err)

	got, err := svc.Get(ctx, testOwner, inv.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentValue.Equal(d("2000")))
}

func TestInvestments_DeleteEntry_RefreshesToNewLatest(t *testing.T) {
	// Deleting the latest entry hands the valuation to the next-latest.
	store := memstore.NewTxMemory()
	svc := finance.NewInvestments(store)
	ctx := context.Background()
	inv := newInvestment(t, svc, "0")

	_, err := svc.UpsertEntry(ctx, testOwner, inv.ID, ledger.YearMonth{Year: 2025, Month: 2}, d("800"))
	require.NoError(t, err)
	latest, err := svc.UpsertEntry(ctx, testOwner, inv.ID, ledger.YearMonth{Year: 2025, Month: 5}, d("2000"))
	require.NoError(t, err)

	found, err := svc.DeleteEntry(ctx, testOwner, latest.ID)
	require.NoError(t, err)
	require.True(t, found)

	got, err := svc.Get(ctx, testOwner, inv.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentValue.Equal(d("800")))
}

func TestInvestments_DeleteEntry_LastOne_ValueLeftAlone(t *testing.T) {
	store := memstore.NewTxMemory()
	svc := finance.NewInvestments(store)
	ctx := context.Background()
	inv := newInvestment(t, svc, "0")

	entry, err := svc.UpsertEntry(ctx, testOwner, inv.ID, ledger.YearMonth{Year: 2025, Month: 3}, d("1000"))
	require.NoError(t, err)

	found, err := svc.DeleteEntry(ctx, testOwner, entry.ID)
	require.NoError(t, err)
	require.True(t, found)

	got, err := svc.Get(ctx, testOwner, inv.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentValue.Equal(d("1000")),
		"with no entries left there is nothing to re-derive from")
}

func TestInvestments_UpsertEntry_UnknownInvestment_NotFound(t *testing.T) {
	store := memstore.NewTxMemory()
	svc := finance.NewInvestments(store)

	_, err := svc.UpsertEntry(context.Background(), testOwner, "nope", ledger.YearMonth{Year: 2025, Month: 3}, d("100"))
	require.Error(t, err)
	assert.True(t, ledger.IsNotFound(err))
}

// =============================================================================
// APPLICATION
// =============================================================================

func applyInput(inv ledger.InvestmentID, account ledger.AccountID, amount string) finance.ApplyInput {
	return finance.ApplyInput{
		InvestmentID: inv,
		AccountID:    account,
		Amount:       d(amount),
		Date:         time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
	}
}

func TestInvestments_Apply_DebitsAccountCreditsValueRecordsAudit(t *testing.T) {
	// GIVEN: Account at 1000, investment at 500
	// WHEN: 200 is applied
	// THEN: Account 800, investment 700, one transfer transaction recorded

	store := memstore.NewTxMemory()
	svc := finance.NewInvestments(store)
	txSvc := finance.NewTransactions(store)
	ctx := context.Background()
	seedAccount(t, store, "acc-a", "1000")
	inv := newInvestment(t, svc, "500")

	updated, err := svc.Apply(ctx, testOwner, applyInput(inv.ID, "acc-a", "200"))
	require.NoError(t, err)

	assert.True(t, updated.CurrentValue.Equal(d("700")))
	assert.True(t, accountBalance(t, store, "acc-a").Equal(d("800")))

	transfer := ledger.TxTransfer
	audits, err := txSvc.List(ctx, testOwner, ledger.TransactionFilter{Type: &transfer})
	require.NoError(t, err)
	require.Len(t, audits, 1)
	assert.True(t, audits[0].Amount.Equal(d("200")))
	assert.Contains(t, audits[0].Description, "index fund")
}

func TestInvestments_Apply_ForeignAccount_NothingMoves(t *testing.T) {
	store := memstore.NewTxMemory()
	svc := finance.NewInvestments(store)
	ctx := context.Background()

	foreign := ledger.Account{
		ID: "acc-x", OwnerID: "someone-else", Name: "x",
		Type: ledger.AccountChecking, Balance: d("1000"), CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.CreateAccount(ctx, foreign))
	inv := newInvestment(t, svc, "500")

	_, err := svc.Apply(ctx, testOwner, applyInput(inv.ID, "acc-x", "200"))
	require.Error(t, err)
	assert.True(t, ledger.IsNotFound(err))

	got, err := svc.Get(ctx, testOwner, inv.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentValue.Equal(d("500")))
}

// failingAuditStore makes the audit-transaction insert fail inside Apply's
// transaction, so the whole application must roll back.
type failingAuditStore struct {
	ledger.Store
}

func (f failingAuditStore) CreateTransaction(context.Context, ledger.Transaction) error {
	return errors.New("disk full")
}

type failingAuditTxStore struct {
	*memstore.TxMemory
}

func (f failingAuditTxStore) WithTx(ctx context.Context, fn func(ledger.Store) error) error {
	return f.TxMemory.WithTx(ctx, func(st ledger.Store) error {
		return fn(failingAuditStore{Store: st})
	})
}

func TestInvestments_Apply_AuditInsertFails_EverythingRollsBack(t *testing.T) {
	// GIVEN: The debit and the value credit already ran inside the tx
	// WHEN: Recording the audit transaction fails
	// THEN: Account balance and investment value both revert

	mem := memstore.NewTxMemory()
	store := failingAuditTxStore{TxMemory: mem}
	svc := finance.NewInvestments(store)
	ctx := context.Background()
	seedAccount(t, mem, "acc-a", "1000")

	setup := finance.NewInvestments(mem)
	inv := newInvestment(t, setup, "500")

	_, err := svc.Apply(ctx, testOwner, applyInput(inv.ID, "acc-a", "200"))
	require.Error(t, err)

	assert.True(t, accountBalance(t, mem, "acc-a").Equal(d("1000")), "debit rolled back")

	got, err := setup.Get(ctx, testOwner, inv.ID)
	require.NoError(t, err)
	assert.True(t, got.CurrentValue.Equal(d("500")), "value credit rolled back")
}

// =============================================================================
// INVESTMENT CRUD
// =============================================================================

func TestInvestments_Update_ManualValueCorrection(t *testing.T) {
	store := memstore.NewTxMemory()
	svc := finance.NewInvestments(store)
	ctx := context.Background()
	inv := newInvestment(t, svc, "500")

	value := d("650")
	updated, err := svc.Update(ctx, testOwner, inv.ID, finance.InvestmentPatch{CurrentValue: &value})
	require.NoError(t, err)
	assert.True(t, updated.CurrentValue.Equal(d("650")))
}

func TestInvestments_Delete_CascadesEntries(t *testing.T) {
	store := memstore.NewTxMemory()
	svc := finance.NewInvestments(store)
	ctx := context.Background()
	inv := newInvestment(t, svc, "0")

	_, err := svc.UpsertEntry(ctx, testOwner, inv.ID, ledger.YearMonth{Year: 2025, Month: 3}, d("1000"))
	require.NoError(t, err)

	found, err := svc.Delete(ctx, testOwner, inv.ID)
	require.NoError(t, err)
	require.True(t, found)

	entries, err := svc.ListEntries(ctx, testOwner, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
