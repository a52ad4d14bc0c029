package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CandidateKind identifies which generator produced a candidate.
type CandidateKind string

const (
	CandidateExpenseInvoice CandidateKind = "EXPENSE_INVOICE"
	CandidatePaymentSource  CandidateKind = "PAYMENT_SOURCE"
	CandidateRevenueOrder   CandidateKind = "REVENUE_ORDER"
	CandidateIntercompany   CandidateKind = "INTERCOMPANY"
)

// Candidate is a scored match suggestion. Candidates are transient: computed
// per transaction and discarded once a commit happens or the caller moves on.
// Only the fields relevant to the kind are populated.
type Candidate struct {
	Kind   CandidateKind   `json:"kind"`
	Score  int             `json:"score"`
	Reason string          `json:"reason"`
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`

	// EXPENSE_INVOICE
	InvoiceID    string `json:"invoice_id,omitempty"`
	ProviderCode string `json:"provider_code,omitempty"`

	// EXPENSE_INVOICE and REVENUE_ORDER
	InvoiceNumber string `json:"invoice_number,omitempty"`

	// PAYMENT_SOURCE
	Source           string     `json:"source,omitempty"`
	DisbursementDate *time.Time `json:"disbursement_date,omitempty"`
	TransactionCount int        `json:"transaction_count,omitempty"`

	// REVENUE_ORDER
	OrderID      string      `json:"order_id,omitempty"`
	CustomerName string      `json:"customer_name,omitempty"`
	OrderSource  OrderSource `json:"order_source,omitempty"`

	// INTERCOMPANY
	OtherAccount       string `json:"other_account,omitempty"`
	OtherTransactionID string `json:"other_transaction_id,omitempty"`
}

// SuggestionSet is the full candidate output for one transaction. Empty
// slices are a normal outcome, not an error.
type SuggestionSet struct {
	TransactionID string `json:"transaction_id"`

	// Expense side.
	InvoiceWindow      []Candidate `json:"invoice_window,omitempty"`
	InvoiceNameMatches []Candidate `json:"invoice_name_matches,omitempty"`
	// InvoicePool holds unscored invoices for manual browsing only; pool
	// entries are never auto-suggested.
	InvoicePool []Candidate `json:"invoice_pool,omitempty"`

	// Revenue side.
	PaymentSources []Candidate `json:"payment_sources,omitempty"`
	RevenueOrders  []Candidate `json:"revenue_orders,omitempty"`
	// Intercompany suggestions are informational and carry no commit action.
	Intercompany []Candidate `json:"intercompany,omitempty"`
}

// Best returns the highest-scoring committable candidate, or nil when no
// generator produced a scored suggestion. Pool and intercompany entries are
// ignored.
func (s *SuggestionSet) Best() *Candidate {
	var best *Candidate
	consider := func(cands []Candidate) {
		for i := range cands {
			if cands[i].Score == 0 {
				continue
			}
			if best == nil || cands[i].Score > best.Score {
				best = &cands[i]
			}
		}
	}
	consider(s.InvoiceWindow)
	consider(s.InvoiceNameMatches)
	consider(s.PaymentSources)
	consider(s.RevenueOrders)
	return best
}

// AutoReconcileReport summarizes one automatic-reconciliation run.
type AutoReconcileReport struct {
	RunID     string                        `json:"run_id"`
	DryRun    bool                          `json:"dry_run"`
	StartDate time.Time                     `json:"start_date"`
	EndDate   time.Time                     `json:"end_date"`
	PerSource map[string]*AutoSourceSummary `json:"per_source"`
}

// AutoSourceSummary holds per-source counts for an automatic run.
type AutoSourceSummary struct {
	Total     int `json:"total"`
	Matched   int `json:"matched"`
	Unmatched int `json:"unmatched"`
}
