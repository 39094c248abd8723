package finance_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centavo/finance-engine/finance"
	"github.com/centavo/finance-engine/ledger"
	memstore "github.com/centavo/finance-engine/ledger/store"
)

var testCutover = ledger.IncomeCutover{From: ledger.YearMonth{Year: 2025, Month: 6}}

func incomeEntry(account ledger.AccountID, amount string, period ledger.YearMonth) finance.IncomeEntryInput {
	return finance.IncomeEntryInput{
		Name:      "salary",
		Amount:    d(amount),
		Period:    period,
		AccountID: account,
	}
}

// =============================================================================
// ENTRIES: CUTOVER
// =============================================================================

func TestIncome_CreateEntry_AtCutover_Posts(t *testing.T) {
	// GIVEN: Account at 0, cutover 2025-06
	// WHEN: An entry for 2025-06 of 3000 is created
	// THEN: Balance becomes 3000

	store := memstore.NewTxMemory()
	svc := finance.NewIncome(store, testCutover)
	ctx := context.Background()
	seedAccount(t, store, "acc-a", "0")

	_, err := svc.CreateEntry(ctx, testOwner, incomeEntry("acc-a", "3000", ledger.YearMonth{Year: 2025, Month: 6}))
	require.NoError(t, err)

	assert.True(t, accountBalance(t, store, "acc-a").Equal(d("3000")))
}

func TestIncome_CreateEntry_BeforeCutover_Historical(t *testing.T) {
	store := memstore.NewTxMemory()
	svc := finance.NewIncome(store, testCutover)
	ctx := context.Background()
	seedAccount(t, store, "acc-a", "0")

	entry, err := svc.CreateEntry(ctx, testOwner, incomeEntry("acc-a", "3000", ledger.YearMonth{Year: 2025, Month: 5}))
	require.NoError(t, err)

	assert.True(t, accountBalance(t, store, "acc-a").IsZero(),
		"pre-cutover entries are recorded but never posted")

	entries, err := svc.ListEntries(ctx, testOwner, &entry.Period)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "the record itself is still stored")
}

func TestIncome_UpdateEntry_MovedAcrossCutover_PostsAndReverts(t *testing.T) {
	// Moving an entry from before the cutover to after it posts the amount;
	// moving it back reverts.
	store := memstore.NewTxMemory()
	svc := finance.NewIncome(store, testCutover)
	ctx := context.Background()
	seedAccount(t, store, "acc-a", "0")

	entry, err := svc.CreateEntry(ctx, testOwner, incomeEntry("acc-a", "3000", ledger.YearMonth{Year: 2025, Month: 5}))
	require.NoError(t, err)

	after := ledger.YearMonth{Year: 2025, Month: 7}
	_, found, err := svc.UpdateEntry(ctx, testOwner, entry.ID, finance.IncomeEntryPatch{Period: &after})
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, accountBalance(t, store, "acc-a").Equal(d("3000")))

	before := ledger.YearMonth{Year: 2025, Month: 4}
	_, found, err = svc.UpdateEntry(ctx, testOwner, entry.ID, finance.IncomeEntryPatch{Period: &before})
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, accountBalance(t, store, "acc-a").IsZero())
}

func TestIncome_UpdateEntry_AmountChange_NetsAgainstBalance(t *testing.T) {
	store := memstore.NewTxMemory()
	svc := finance.NewIncome(store, testCutover)
	ctx := context.Background()
	seedAccount(t, store, "acc-a", "0")

	entry, err := svc.CreateEntry(ctx, testOwner, incomeEntry("acc-a", "3000", ledger.YearMonth{Year: 2025, Month: 8}))
	require.NoError(t, err)

	amount := d("3500")
	_, found, err := svc.UpdateEntry(ctx, testOwner, entry.ID, finance.IncomeEntryPatch{Amount: &amount})
	require.NoError(t, err)
	require.True(t, found)

	assert.True(t, accountBalance(t, store, "acc-a").Equal(d("3500")))
}

func TestIncome_UpdateEntry_Missing_ReportsNotFound(t *testing.T) {
	store := memstore.NewTxMemory()
	svc := finance.NewIncome(store, testCutover)

	name := "x"
	_, found, err := svc.UpdateEntry(context.Background(), testOwner, "nope", finance.IncomeEntryPatch{Name: &name})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestIncome_DeleteEntry_RevertsOnceOnly(t *testing.T) {
	// GIVEN: A posted entry of 3000
	// WHEN: It is deleted twice
	// THEN: The revert runs exactly once

	store := memstore.NewTxMemory()
	svc := finance.NewIncome(store, testCutover)
	ctx := context.Background()
	seedAccount(t, store, "acc-a", "0")

	entry, err := svc.CreateEntry(ctx, testOwner, incomeEntry("acc-a", "3000", ledger.YearMonth{Year: 2025, Month: 9}))
	require.NoError(t, err)
	require.True(t, accountBalance(t, store, "acc-a").Equal(d("3000")))

	found, err := svc.DeleteEntry(ctx, testOwner, entry.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, accountBalance(t, store, "acc-a").IsZero())

	found, err = svc.DeleteEntry(ctx, testOwner, entry.ID)
	require.NoError(t, err)
	assert.False(t, found)
	assert.True(t, accountBalance(t, store, "acc-a").IsZero())
}

// =============================================================================
// FIXED INCOMES: MONTH-SCOPED MUTABILITY
// =============================================================================

func fixedIncome(account ledger.AccountID) finance.FixedIncomeInput {
	return finance.FixedIncomeInput{
		Name:       "salary",
		Amount:     d("5000"),
		DayOfMonth: 5,
		AccountID:  account,
	}
}

func TestIncome_CreateFixed_NeverTouchesBalance(t *testing.T) {
	store := memstore.NewTxMemory()
	svc := finance.NewIncome(store, testCutover)
	ctx := context.Background()
	seedAccount(t, store, "acc-a", "100")

	_, err := svc.CreateFixed(ctx, testOwner, fixedIncome("acc-a"))
	require.NoError(t, err)

	assert.True(t, accountBalance(t, store, "acc-a").Equal(d("100")),
		"fixed incomes are definitions, not postings")
}

func TestIncome_UpdateFixed_ClosesCurrentAndOpensSuccessor(t *testing.T) {
	// GIVEN: An active fixed income
	// WHEN: Its amount is edited
	// THEN: The original ends this month; a successor with the new amount
	//       starts on the first of next month

	store := memstore.NewTxMemory()
	svc := finance.NewIncome(store, testCutover)
	ctx := context.Background()
	seedAccount(t, store, "acc-a", "0")

	original, err := svc.CreateFixed(ctx, testOwner, fixedIncome("acc-a"))
	require.NoError(t, err)

	amount := d("5500")
	successor, found, err := svc.UpdateFixed(ctx, testOwner, original.ID, finance.FixedIncomePatch{Amount: &amount})
	require.NoError(t, err)
	require.True(t, found)

	assert.NotEqual(t, original.ID, successor.ID)
	assert.True(t, successor.Amount.Equal(d("5500")))
	assert.Equal(t, 1, successor.StartsAt.Day(), "successor starts on the first of a month")
	assert.True(t, successor.StartsAt.After(time.Now().UTC()), "successor is not yet in force")

	closed, err := store.GetFixedIncome(ctx, testOwner, original.ID)
	require.NoError(t, err)
	require.NotNil(t, closed.EndsAt)
	assert.True(t, closed.EndsAt.Before(successor.StartsAt), "no overlap between the two definitions")
	assert.True(t, closed.Amount.Equal(d("5000")), "history keeps the old amount")
}

func TestIncome_DeleteFixed_ClosesAtMonthEnd(t *testing.T) {
	store := memstore.NewTxMemory()
	svc := finance.NewIncome(store, testCutover)
	ctx := context.Background()
	seedAccount(t, store, "acc-a", "0")

	fixed, err := svc.CreateFixed(ctx, testOwner, fixedIncome("acc-a"))
	require.NoError(t, err)

	found, err := svc.DeleteFixed(ctx, testOwner, fixed.ID)
	require.NoError(t, err)
	require.True(t, found)

	closed, err := store.GetFixedIncome(ctx, testOwner, fixed.ID)
	require.NoError(t, err)
	require.NotNil(t, closed.EndsAt, "deletion closes rather than removes")
	assert.True(t, closed.EndsAt.After(time.Now().UTC().Add(-time.Minute)),
		"the definition stays in force through this month")

	active, err := svc.ListFixed(ctx, testOwner)
	require.NoError(t, err)
	assert.Len(t, active, 1, "still listed until the month ends")
}

func TestIncome_UpdateFixed_Missing_ReportsNotFound(t *testing.T) {
	store := memstore.NewTxMemory()
	svc := finance.NewIncome(store, testCutover)

	name := "x"
	_, found, err := svc.UpdateFixed(context.Background(), testOwner, "nope", finance.FixedIncomePatch{Name: &name})
	require.NoError(t, err)
	assert.False(t, found)
}
