package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice-recon/internal/domain"
)

func TestSuggest_TransactionNotFound(t *testing.T) {
	state := newMemState()
	svc := newCandidateService(state, nil)

	_, err := svc.Suggest("TX-MISSING")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSuggest_ReconciledTransactionGetsEmptySet(t *testing.T) {
	state := newMemState()
	tx := unreconciledTx("TX-1", -1000.00)
	tx.IsReconciled = true
	state.addTransaction(tx)
	state.addInvoice(unpaidInvoice("INV1", 1000.00))
	svc := newCandidateService(state, nil)

	set, err := svc.Suggest("TX-1")
	require.NoError(t, err)
	assert.Equal(t, "TX-1", set.TransactionID)
	assert.Empty(t, set.InvoiceWindow)
	assert.Empty(t, set.InvoiceNameMatches)
	assert.Empty(t, set.InvoicePool)
	assert.Nil(t, set.Best())
}

func TestSuggest_ExpensePath(t *testing.T) {
	state := newMemState()
	state.addTransaction(unreconciledTx("TX-1", -1000.00))
	state.addInvoice(unpaidInvoice("INV1", 1000.00)) // due next day, exact
	far := unpaidInvoice("INV2", 4000.00)
	far.DueDate = day("2025-02-20")
	state.addInvoice(far)
	reconciled := unpaidInvoice("INV3", 1000.00)
	reconciled.Reconciled = true
	state.addInvoice(reconciled)
	svc := newCandidateService(state, nil)

	set, err := svc.Suggest("TX-1")
	require.NoError(t, err)

	require.Len(t, set.InvoiceWindow, 1)
	assert.Equal(t, "INV1", set.InvoiceWindow[0].InvoiceID)
	assert.Equal(t, 95, set.InvoiceWindow[0].Score)

	require.Len(t, set.InvoicePool, 1)
	assert.Equal(t, "INV2", set.InvoicePool[0].InvoiceID)

	assert.Empty(t, set.PaymentSources)
	assert.Empty(t, set.RevenueOrders)
	assert.Empty(t, set.Intercompany)

	best := set.Best()
	require.NotNil(t, best)
	assert.Equal(t, "INV1", best.InvoiceID)
}

func TestSuggest_RevenuePath(t *testing.T) {
	state := newMemState()
	tx := unreconciledTx("TX-1", 5000.00)
	tx.Description = "BRAINTREE PAYOUT"
	state.addTransaction(tx)

	disb := day("2025-03-09")
	state.addSettlement(domain.SettlementRow{
		ID: "S1", Source: "braintree", Amount: money(3000.00),
		Date: day("2025-03-08"), DisbursementDate: &disb,
	})
	state.addSettlement(domain.SettlementRow{
		ID: "S2", Source: "braintree", Amount: money(2000.00),
		Date: day("2025-03-08"), DisbursementDate: &disb,
	})

	state.addOrder(domain.RevenueOrder{
		ID: "O1", InvoiceNumber: "AR-100", CustomerName: "Acme Corp",
		Amount: money(5000.00), OrderDate: day("2025-03-08"),
		Source: domain.OrderSourceARInvoice,
	})

	mirror := unreconciledTx("TX-OTHER", -5000.00)
	mirror.SourceAccount = "ops-usd"
	state.addTransaction(mirror)

	svc := newCandidateService(state, nil)

	set, err := svc.Suggest("TX-1")
	require.NoError(t, err)

	require.Len(t, set.PaymentSources, 1)
	assert.Equal(t, 95, set.PaymentSources[0].Score)
	assert.Equal(t, 2, set.PaymentSources[0].TransactionCount)

	require.Len(t, set.RevenueOrders, 1)
	assert.Equal(t, "O1", set.RevenueOrders[0].OrderID)
	assert.Equal(t, 90, set.RevenueOrders[0].Score)

	require.Len(t, set.Intercompany, 1)
	assert.Equal(t, "TX-OTHER", set.Intercompany[0].OtherTransactionID)

	assert.Empty(t, set.InvoiceWindow)
	assert.Empty(t, set.InvoicePool)
}

// USD transactions only look at the USD gateway list.
func TestSuggest_SettlementSourcesFollowCurrency(t *testing.T) {
	state := newMemState()
	tx := unreconciledTx("TX-1", 1000.00)
	tx.Currency = "USD"
	state.addTransaction(tx)

	state.addSettlement(domain.SettlementRow{
		ID: "ADYEN", Source: "adyen", Amount: money(1000.00), Date: day("2025-03-10"),
	})
	state.addSettlement(domain.SettlementRow{
		ID: "STRIPE", Source: "stripe", Amount: money(1000.00), Date: day("2025-03-10"),
	})

	svc := newCandidateService(state, nil)

	set, err := svc.Suggest("TX-1")
	require.NoError(t, err)

	require.Len(t, set.PaymentSources, 1)
	assert.Equal(t, "stripe", set.PaymentSources[0].Source)
}

// Best ignores pool and intercompany entries; they are never committable.
func TestSuggestionSetBest_SkipsPoolAndIntercompany(t *testing.T) {
	set := &domain.SuggestionSet{
		InvoicePool: []domain.Candidate{
			{Kind: domain.CandidateExpenseInvoice, Score: 0, InvoiceID: "POOL"},
		},
		Intercompany: []domain.Candidate{
			{Kind: domain.CandidateIntercompany, Score: 95, OtherTransactionID: "TX-OTHER"},
		},
		InvoiceNameMatches: []domain.Candidate{
			{Kind: domain.CandidateExpenseInvoice, Score: 60, InvoiceID: "NAME"},
		},
	}

	best := set.Best()
	require.NotNil(t, best)
	assert.Equal(t, "NAME", best.InvoiceID)
}
