package matcher

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"backoffice-recon/internal/domain"
)

// ExpenseInvoiceMatches is the three-tier output of the expense-invoice
// generator: tightly windowed matches, broader name-based matches, and the
// unscored browse pool.
type ExpenseInvoiceMatches struct {
	Window      []domain.Candidate
	NameMatches []domain.Candidate
	Pool        []domain.Candidate
}

// MatchExpenseInvoices finds accounts-payable invoices that plausibly
// correspond to an outflow transaction. Invoices must already be filtered to
// unreconciled, expense-type rows. providerNames is a read-only lookup of
// provider code to display name used by the token-matching step; it may be
// nil.
//
// Applies only to expense transactions (amount < 0); for anything else the
// result is empty.
func MatchExpenseInvoices(tx domain.BankTransaction, invoices []domain.Invoice, providerNames map[string]string, tol Tolerances) ExpenseInvoiceMatches {
	var out ExpenseInvoiceMatches
	if !tx.IsExpense() {
		return out
	}

	target := tx.Amount.Abs()
	tolerance := target.Mul(tol.InvoiceAmountTolerance)
	tokens := tokenize(tx.Description)
	taken := make(map[string]bool)

	// Step A: exact window, amount tolerance.
	for _, inv := range invoices {
		d := daysBetween(tx.Date, inv.DueDate)
		if absInt(d) > tol.InvoiceWindowDays {
			continue
		}

		diff := inv.EffectiveAmount().Sub(target).Abs()
		if !diff.LessThan(tolerance) {
			continue
		}

		score := 80
		reason := fmt.Sprintf("amount within %s%% of transaction, due date within ±%d days",
			percentOf(diff, target), tol.InvoiceWindowDays)
		if diff.LessThan(tol.ExactEpsilon) {
			score = 95
			reason = fmt.Sprintf("exact amount, due date within ±%d days", tol.InvoiceWindowDays)
		}

		taken[inv.ID] = true
		out.Window = append(out.Window, invoiceCandidate(inv, score, reason))
	}

	// Step B: broader window, provider-name token overlap plus the same
	// amount tolerance.
	for _, inv := range invoices {
		if taken[inv.ID] {
			continue
		}

		d := daysBetween(tx.Date, inv.DueDate)
		if d < -tol.InvoiceNameDaysBefore || d > tol.InvoiceNameDaysAfter {
			continue
		}

		diff := inv.EffectiveAmount().Sub(target).Abs()
		if !diff.LessThan(tolerance) {
			continue
		}

		haystack := strings.ToLower(inv.ProviderCode + " " + providerNames[inv.ProviderCode] + " " + inv.Description)
		matched := matchedTokens(haystack, tokens)
		if len(matched) == 0 {
			continue
		}

		score := 60
		if len(matched) > 1 {
			score = 75
		}
		reason := fmt.Sprintf("provider matched on %q", strings.Join(matched, ", "))

		taken[inv.ID] = true
		out.NameMatches = append(out.NameMatches, invoiceCandidate(inv, score, reason))
	}

	// Step C: everything else within the lookback, unscored, for manual
	// browsing. Never auto-suggested.
	for _, inv := range invoices {
		if taken[inv.ID] {
			continue
		}
		if daysBetween(tx.Date, inv.DueDate) < -tol.InvoicePoolLookbackDays {
			continue
		}
		out.Pool = append(out.Pool, invoiceCandidate(inv, 0, ""))
	}

	return out
}

func invoiceCandidate(inv domain.Invoice, score int, reason string) domain.Candidate {
	return domain.Candidate{
		Kind:          domain.CandidateExpenseInvoice,
		Score:         score,
		Reason:        reason,
		Amount:        inv.EffectiveAmount(),
		Date:          inv.DueDate,
		InvoiceID:     inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		ProviderCode:  inv.ProviderCode,
	}
}

// percentOf renders diff as a percentage of base with one decimal.
func percentOf(diff, base decimal.Decimal) string {
	if base.IsZero() {
		return "0"
	}
	return diff.Div(base).Mul(decimal.NewFromInt(100)).Round(1).String()
}
