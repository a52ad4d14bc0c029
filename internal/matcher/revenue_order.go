package matcher

import (
	"fmt"
	"sort"
	"strings"

	"backoffice-recon/internal/domain"
)

// MatchRevenueOrders finds accounts-receivable orders and invoices that
// plausibly correspond to an inflow transaction. Orders come merged from the
// structured AR-invoice table and the generic order feed; the source shades
// the score slightly because the structured table carries cleaner data.
//
// Candidates that match on neither amount nor customer name are dropped, not
// returned with a zero score. Applies only to revenue transactions.
func MatchRevenueOrders(tx domain.BankTransaction, orders []domain.RevenueOrder, tol Tolerances) []domain.Candidate {
	if !tx.IsRevenue() {
		return nil
	}

	target := tx.Amount
	closeBound := target.Mul(tol.OrderCloseTolerance)
	desc := strings.ToLower(tx.Description)

	var candidates []domain.Candidate
	for _, ord := range orders {
		d := daysBetween(tx.Date, ord.OrderDate)
		if d < -tol.OrderDaysBefore || d > tol.OrderDaysAfter {
			continue
		}

		diff := ord.Amount.Sub(target).Abs()
		isExact := diff.LessThan(tol.ExactEpsilon)
		isClose := diff.LessThanOrEqual(closeBound)
		nameHits := matchedTokens(desc, tokenize(ord.CustomerName))
		nameMatch := len(nameHits) > 0
		structured := ord.Source == domain.OrderSourceARInvoice

		var score int
		var reason string
		switch {
		case isExact && nameMatch:
			score = 100
			reason = fmt.Sprintf("exact amount and customer name %q in description", nameHits[0])
		case isExact:
			score = 90
			if !structured {
				score = 85
			}
			reason = "exact amount"
		case isClose && nameMatch:
			score = 75
			if !structured {
				score = 70
			}
			reason = fmt.Sprintf("amount within %s%% and customer name %q in description",
				percentOf(diff, target), nameHits[0])
		case nameMatch:
			score = 50
			reason = fmt.Sprintf("customer name %q in description", nameHits[0])
		case isClose:
			score = 40
			if !structured {
				score = 35
			}
			reason = fmt.Sprintf("amount within %s%%", percentOf(diff, target))
		default:
			continue
		}

		candidates = append(candidates, domain.Candidate{
			Kind:          domain.CandidateRevenueOrder,
			Score:         score,
			Reason:        reason,
			Amount:        ord.Amount,
			Date:          ord.OrderDate,
			OrderID:       ord.ID,
			InvoiceNumber: ord.InvoiceNumber,
			CustomerName:  ord.CustomerName,
			OrderSource:   ord.Source,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}
