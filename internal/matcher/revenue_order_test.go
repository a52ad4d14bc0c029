package matcher_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice-recon/internal/domain"
	"backoffice-recon/internal/matcher"
)

func order(id string, date string, amount float64, customer string, source domain.OrderSource) domain.RevenueOrder {
	return domain.RevenueOrder{
		ID:            id,
		InvoiceNumber: "AR-" + id,
		CustomerName:  customer,
		Amount:        decimal.NewFromFloat(amount),
		OrderDate:     day(date),
		Source:        source,
	}
}

func TestMatchRevenueOrders_CloseAmountAndName(t *testing.T) {
	tx := revenueTx("2025-03-10", 2000.00)
	tx.Description = "WIRE FROM ACME CORP REF 9912"

	// diff of 100 is exactly 5% of 2000: the close boundary is inclusive.
	orders := []domain.RevenueOrder{
		order("O1", "2025-03-08", 1900.00, "Acme Corp", domain.OrderSourceARInvoice),
	}

	candidates := matcher.MatchRevenueOrders(tx, orders, matcher.DefaultTolerances())

	require.Len(t, candidates, 1)
	assert.Equal(t, 75, candidates[0].Score)
	assert.Contains(t, candidates[0].Reason, "acme")
}

func TestMatchRevenueOrders_ScoringTable(t *testing.T) {
	tx := revenueTx("2025-03-10", 2000.00)
	tx.Description = "INCOMING PAYMENT GLOBEX LTD"

	orders := []domain.RevenueOrder{
		order("EXACT_NAME", "2025-03-09", 2000.00, "Globex Ltd", domain.OrderSourceARInvoice),
		order("EXACT_AR", "2025-03-09", 2000.00, "Initech", domain.OrderSourceARInvoice),
		order("EXACT_FEED", "2025-03-09", 2000.00, "Initech", domain.OrderSourceFeed),
		order("CLOSE_NAME_FEED", "2025-03-09", 1950.00, "Globex Ltd", domain.OrderSourceFeed),
		order("NAME_ONLY", "2025-03-09", 5000.00, "Globex Ltd", domain.OrderSourceARInvoice),
		order("CLOSE_AR", "2025-03-09", 1950.00, "Initech", domain.OrderSourceARInvoice),
		order("CLOSE_FEED", "2025-03-09", 1950.00, "Initech", domain.OrderSourceFeed),
		order("NOTHING", "2025-03-09", 9000.00, "Initech", domain.OrderSourceFeed),
	}

	candidates := matcher.MatchRevenueOrders(tx, orders, matcher.DefaultTolerances())

	scores := map[string]int{}
	for _, cand := range candidates {
		scores[cand.OrderID] = cand.Score
	}

	assert.Equal(t, 100, scores["EXACT_NAME"])
	assert.Equal(t, 90, scores["EXACT_AR"])
	assert.Equal(t, 85, scores["EXACT_FEED"])
	assert.Equal(t, 70, scores["CLOSE_NAME_FEED"])
	assert.Equal(t, 50, scores["NAME_ONLY"])
	assert.Equal(t, 40, scores["CLOSE_AR"])
	assert.Equal(t, 35, scores["CLOSE_FEED"])

	// No-signal candidates are dropped, not returned at zero.
	_, returned := scores["NOTHING"]
	assert.False(t, returned)
	assert.Len(t, candidates, 7)

	// Sorted by score descending.
	for i := 1; i < len(candidates); i++ {
		assert.GreaterOrEqual(t, candidates[i-1].Score, candidates[i].Score)
	}
}

func TestMatchRevenueOrders_Window(t *testing.T) {
	tx := revenueTx("2025-03-10", 2000.00)
	orders := []domain.RevenueOrder{
		order("TOO_OLD", "2025-02-01", 2000.00, "Acme", domain.OrderSourceARInvoice),
		order("TOO_NEW", "2025-03-16", 2000.00, "Acme", domain.OrderSourceARInvoice),
		order("EDGE_OLD", "2025-02-08", 2000.00, "Acme", domain.OrderSourceARInvoice),
		order("EDGE_NEW", "2025-03-15", 2000.00, "Acme", domain.OrderSourceARInvoice),
	}

	candidates := matcher.MatchRevenueOrders(tx, orders, matcher.DefaultTolerances())

	ids := map[string]bool{}
	for _, cand := range candidates {
		ids[cand.OrderID] = true
	}
	assert.False(t, ids["TOO_OLD"])
	assert.False(t, ids["TOO_NEW"])
	assert.True(t, ids["EDGE_OLD"])
	assert.True(t, ids["EDGE_NEW"])
}

func TestMatchRevenueOrders_ExpenseTransactionIgnored(t *testing.T) {
	tx := revenueTx("2025-03-10", -2000.00)
	orders := []domain.RevenueOrder{
		order("O1", "2025-03-10", 2000.00, "Acme", domain.OrderSourceARInvoice),
	}

	assert.Empty(t, matcher.MatchRevenueOrders(tx, orders, matcher.DefaultTolerances()))
}
