package matcher

import (
	"backoffice-recon/internal/domain"
)

// MatchIntercompany finds unreconciled rows on the organization's other bank
// accounts that mirror an inflow here: opposite sign, close amount, nearby
// date. These suggestions are informational only; they are not wired to a
// commit action.
//
// others must exclude the transaction's own source account and be filtered
// to unreconciled rows.
func MatchIntercompany(tx domain.BankTransaction, others []domain.BankTransaction, tol Tolerances) []domain.Candidate {
	if !tx.IsRevenue() {
		return nil
	}

	target := tx.Amount
	bound := target.Mul(tol.IntercompanyTolerance)

	var candidates []domain.Candidate
	for _, other := range others {
		if absInt(daysBetween(tx.Date, other.Date)) > tol.IntercompanyWindowDays {
			continue
		}
		// An inflow here must correspond to an outflow elsewhere.
		if other.Amount.Sign() == tx.Amount.Sign() || other.Amount.IsZero() {
			continue
		}

		residual := other.Amount.Abs().Sub(target).Abs()
		if !residual.LessThan(bound) {
			continue
		}

		score, reason := 70, "mirrored amount on another account"
		if residual.LessThan(tol.ExactEpsilon) {
			score, reason = 95, "exact mirrored amount on another account"
		}

		candidates = append(candidates, domain.Candidate{
			Kind:               domain.CandidateIntercompany,
			Score:              score,
			Reason:             reason,
			Amount:             other.Amount,
			Date:               other.Date,
			OtherAccount:       other.SourceAccount,
			OtherTransactionID: other.ID,
		})
	}

	return candidates
}
