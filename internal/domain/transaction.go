package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconciliationType tags how a transaction was reconciled.
type ReconciliationType string

const (
	ReconciliationAutomatic ReconciliationType = "AUTOMATIC"
	ReconciliationManual    ReconciliationType = "MANUAL"
	ReconciliationNone      ReconciliationType = ""
)

// MatchedEntityType identifies which ledger the matched entity lives in.
type MatchedEntityType string

const (
	MatchedInvoice       MatchedEntityType = "INVOICE"
	MatchedPaymentSource MatchedEntityType = "PAYMENT_SOURCE"
	MatchedOrder         MatchedEntityType = "ORDER"
	MatchedNone          MatchedEntityType = ""
)

// BankTransaction is a single bank-line record. Amount is signed:
// negative = outflow/expense, positive = inflow/revenue.
type BankTransaction struct {
	ID            string          `json:"id" db:"id"`
	SourceAccount string          `json:"source_account" db:"source_account"`
	Currency      string          `json:"currency" db:"currency"`
	Date          time.Time       `json:"date" db:"date"`
	Description   string          `json:"description" db:"description"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`

	IsReconciled       bool               `json:"is_reconciled" db:"is_reconciled"`
	ReconciliationType ReconciliationType `json:"reconciliation_type,omitempty" db:"reconciliation_type"`
	MatchedEntityType  MatchedEntityType  `json:"matched_entity_type,omitempty" db:"matched_entity_type"`
	MatchedEntityID    *string            `json:"matched_entity_id,omitempty" db:"matched_entity_id"`
	MatchedAmount      *decimal.Decimal   `json:"matched_amount,omitempty" db:"matched_amount"`
	MatchedDetail      *string            `json:"matched_detail,omitempty" db:"matched_detail"`
	GatewayLabel       *string            `json:"gateway_label,omitempty" db:"gateway_label"`
	Note               *string            `json:"note,omitempty" db:"note"`
	ReconciledAt       *time.Time         `json:"reconciled_at,omitempty" db:"reconciled_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsExpense reports whether the transaction is an outflow.
func (t *BankTransaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

// IsRevenue reports whether the transaction is an inflow.
func (t *BankTransaction) IsRevenue() bool {
	return t.Amount.IsPositive()
}

// ReconciliationUpdate carries the fields written to a transaction when a
// match is committed. A zero MatchedEntityType means a manual-only
// reconciliation with no ledger-side entity.
type ReconciliationUpdate struct {
	Type              ReconciliationType
	MatchedEntityType MatchedEntityType
	MatchedEntityID   *string
	MatchedAmount     *decimal.Decimal
	MatchedDetail     *string
	GatewayLabel      *string
	Note              *string
}
