package matcher

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"backoffice-recon/internal/domain"
)

// MatchPaymentSources finds gateway settlement rows, or whole disbursement
// batches, that correspond to an inflow transaction. Rows must already be
// filtered to unreconciled rows from the sources appropriate to the
// transaction's currency, within the settlement window.
//
// Rows carrying a disbursement date belong to a batched payout and are
// summed per (source, disbursement date) before comparison; the rest are
// compared individually. Applies only to revenue transactions (amount > 0).
func MatchPaymentSources(tx domain.BankTransaction, rows []domain.SettlementRow, tol Tolerances) []domain.Candidate {
	if !tx.IsRevenue() {
		return nil
	}

	target := tx.Amount
	threshold := decimal.Max(target.Mul(tol.SettlementTolerance), tol.SettlementAbsoluteFloor)

	type group struct {
		source string
		date   time.Time
		total  decimal.Decimal
		count  int
	}
	groups := make(map[string]*group)
	groupKeys := make([]string, 0)

	var candidates []domain.Candidate

	for _, row := range rows {
		if row.DisbursementDate != nil {
			key := row.Source + "|" + row.DisbursementDate.Format("2006-01-02")
			g, ok := groups[key]
			if !ok {
				g = &group{source: row.Source, date: *row.DisbursementDate}
				groups[key] = g
				groupKeys = append(groupKeys, key)
			}
			g.total = g.total.Add(row.Amount)
			g.count++
			continue
		}

		// Individual row.
		if absInt(daysBetween(tx.Date, row.Date)) > tol.SettlementWindowDays {
			continue
		}
		diff := row.Amount.Sub(target).Abs()
		if !diff.LessThan(threshold) {
			continue
		}

		score, reason := 75, fmt.Sprintf("settlement amount within %s%%", percentOf(diff, target))
		if diff.LessThan(tol.SettlementAbsoluteFloor) {
			score, reason = 95, "exact settlement amount"
		}
		candidates = append(candidates, domain.Candidate{
			Kind:             domain.CandidatePaymentSource,
			Score:            score,
			Reason:           reason,
			Amount:           row.Amount,
			Date:             row.Date,
			Source:           row.Source,
			TransactionCount: 1,
		})
	}

	sort.Strings(groupKeys)
	for _, key := range groupKeys {
		g := groups[key]
		if absInt(daysBetween(tx.Date, g.date)) > tol.SettlementWindowDays {
			continue
		}
		diff := g.total.Sub(target).Abs()
		if !diff.LessThan(threshold) {
			continue
		}

		score := 80
		reason := fmt.Sprintf("disbursement total within %s%% (%d rows)", percentOf(diff, target), g.count)
		if diff.LessThan(tol.SettlementAbsoluteFloor) {
			score = 95
			reason = fmt.Sprintf("exact disbursement total (%d rows)", g.count)
		}

		date := g.date
		candidates = append(candidates, domain.Candidate{
			Kind:             domain.CandidatePaymentSource,
			Score:            score,
			Reason:           reason,
			Amount:           g.total,
			Date:             date,
			Source:           g.source,
			DisbursementDate: &date,
			TransactionCount: g.count,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}
