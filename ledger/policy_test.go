package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centavo/finance-engine/ledger"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// =============================================================================
// TRANSITION TESTS
// =============================================================================

func TestTransition_NotPostedToPosted_AppliesDelta(t *testing.T) {
	// GIVEN: No prior effect
	// WHEN: A posted effect of +100 on account A appears
	// THEN: One posting of +100 to A

	postings := ledger.Transition(ledger.NoEffect, ledger.Effect{
		Posted: true, AccountID: "acc-a", Delta: d("100"),
	})

	require.Len(t, postings, 1)
	assert.Equal(t, ledger.AccountID("acc-a"), postings[0].AccountID)
	assert.True(t, postings[0].Delta.Equal(d("100")))
}

func TestTransition_PostedToNotPosted_RevertsDelta(t *testing.T) {
	postings := ledger.Transition(ledger.Effect{
		Posted: true, AccountID: "acc-a", Delta: d("-40"),
	}, ledger.NoEffect)

	require.Len(t, postings, 1)
	assert.Equal(t, ledger.AccountID("acc-a"), postings[0].AccountID)
	assert.True(t, postings[0].Delta.Equal(d("40")), "revert negates the original delta")
}

func TestTransition_SameAccount_ComposesToOneNetPosting(t *testing.T) {
	// GIVEN: A posted +100 effect on account A
	// WHEN: The effect changes to +250 on the same account
	// THEN: A single net posting of +150, not a -100 then +250 pair

	postings := ledger.Transition(
		ledger.Effect{Posted: true, AccountID: "acc-a", Delta: d("100")},
		ledger.Effect{Posted: true, AccountID: "acc-a", Delta: d("250")},
	)

	require.Len(t, postings, 1)
	assert.True(t, postings[0].Delta.Equal(d("150")))
}

func TestTransition_SameAccountSameDelta_NoPostings(t *testing.T) {
	effect := ledger.Effect{Posted: true, AccountID: "acc-a", Delta: d("75.50")}
	postings := ledger.Transition(effect, effect)
	assert.Empty(t, postings, "identical effects must net to zero")
}

func TestTransition_AccountMove_RevertsOldAppliesNew(t *testing.T) {
	postings := ledger.Transition(
		ledger.Effect{Posted: true, AccountID: "acc-a", Delta: d("100")},
		ledger.Effect{Posted: true, AccountID: "acc-b", Delta: d("100")},
	)

	require.Len(t, postings, 2)
	byAccount := map[ledger.AccountID]decimal.Decimal{}
	for _, p := range postings {
		byAccount[p.AccountID] = p.Delta
	}
	assert.True(t, byAccount["acc-a"].Equal(d("-100")))
	assert.True(t, byAccount["acc-b"].Equal(d("100")))
}

func TestTransition_BothNotPosted_NoPostings(t *testing.T) {
	postings := ledger.Transition(ledger.NoEffect, ledger.NoEffect)
	assert.Empty(t, postings)
}

// =============================================================================
// TRANSACTION POLICY
// =============================================================================

func TestTransactionEffect_IncomeAddsExpenseSubtracts(t *testing.T) {
	income := ledger.Transaction{AccountID: "acc-a", Amount: d("100"), Type: ledger.TxIncome}
	expense := ledger.Transaction{AccountID: "acc-a", Amount: d("100"), Type: ledger.TxExpense}

	assert.True(t, ledger.TransactionEffect(income).Delta.Equal(d("100")))
	assert.True(t, ledger.TransactionEffect(expense).Delta.Equal(d("-100")))
}

func TestTransactionPosted_TransferNeverPosts(t *testing.T) {
	transfer := ledger.Transaction{AccountID: "acc-a", Amount: d("100"), Type: ledger.TxTransfer}
	assert.False(t, ledger.TransactionPosted(transfer))
	assert.False(t, ledger.TransactionEffect(transfer).Posted)
}

// =============================================================================
// DEBT POLICY
// =============================================================================

func TestDebtPosted_RequiresPaidLinkedAndLaterPaymentMonth(t *testing.T) {
	account := ledger.AccountID("acc-a")
	base := ledger.Debt{
		TotalAmount: d("500"),
		Competency:  ledger.YearMonth{Year: 2025, Month: 3},
		Payment:     ledger.YearMonth{Year: 2025, Month: 4},
		AccountID:   &account,
		Status:      ledger.DebtPaid,
	}

	assert.True(t, ledger.DebtPosted(base))

	unpaid := base
	unpaid.Status = ledger.DebtActive
	assert.False(t, ledger.DebtPosted(unpaid), "active debts never post")

	unlinked := base
	unlinked.AccountID = nil
	assert.False(t, ledger.DebtPosted(unlinked), "no account, nothing to post against")

	sameMonth := base
	sameMonth.Payment = sameMonth.Competency
	assert.False(t, ledger.DebtPosted(sameMonth), "payment in the competency month does not post")

	nextYear := base
	nextYear.Payment = ledger.YearMonth{Year: 2026, Month: 1}
	assert.True(t, ledger.DebtPosted(nextYear), "a later year counts even with a smaller month number")
}

func TestDebtEffect_SubtractsTotalAmount(t *testing.T) {
	account := ledger.AccountID("acc-a")
	debt := ledger.Debt{
		TotalAmount: d("500"),
		Competency:  ledger.YearMonth{Year: 2025, Month: 3},
		Payment:     ledger.YearMonth{Year: 2025, Month: 5},
		AccountID:   &account,
		Status:      ledger.DebtPaid,
	}

	effect := ledger.DebtEffect(debt)
	assert.True(t, effect.Posted)
	assert.True(t, effect.Delta.Equal(d("-500")))
}

// =============================================================================
// INCOME CUTOVER POLICY
// =============================================================================

func TestIncomeCutover_Posted(t *testing.T) {
	cutover := ledger.IncomeCutover{From: ledger.YearMonth{Year: 2025, Month: 6}}

	before := ledger.IncomeEntry{AccountID: "acc-a", Amount: d("1000"), Period: ledger.YearMonth{Year: 2025, Month: 5}}
	at := ledger.IncomeEntry{AccountID: "acc-a", Amount: d("1000"), Period: ledger.YearMonth{Year: 2025, Month: 6}}
	after := ledger.IncomeEntry{AccountID: "acc-a", Amount: d("1000"), Period: ledger.YearMonth{Year: 2026, Month: 1}}

	assert.False(t, cutover.Posted(before), "months before the cutover are historical")
	assert.True(t, cutover.Posted(at), "the cutover month itself posts")
	assert.True(t, cutover.Posted(after))

	assert.True(t, cutover.Effect(at).Delta.Equal(d("1000")))
	assert.False(t, cutover.Effect(before).Posted)
}

// =============================================================================
// YEARMONTH
// =============================================================================

func TestYearMonth_Ordering(t *testing.T) {
	jan := ledger.YearMonth{Year: 2025, Month: 1}
	dec := ledger.YearMonth{Year: 2024, Month: 12}

	assert.True(t, dec.Before(jan))
	assert.True(t, jan.After(dec))
	assert.False(t, jan.Before(jan))
	assert.Equal(t, "2025-01", jan.String())
}
