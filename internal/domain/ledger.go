package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is an accounts-payable invoice. DueDate is the reference date
// used for matching.
type Invoice struct {
	ID            string           `json:"id" db:"id"`
	InvoiceNumber string           `json:"invoice_number" db:"invoice_number"`
	ProviderCode  string           `json:"provider_code" db:"provider_code"`
	Description   string           `json:"description" db:"description"`
	Amount        decimal.Decimal  `json:"amount" db:"amount"`
	PaidAmount    *decimal.Decimal `json:"paid_amount,omitempty" db:"paid_amount"`
	DueDate       time.Time        `json:"due_date" db:"due_date"`

	Reconciled        bool             `json:"reconciled" db:"reconciled"`
	BankTransactionID *string          `json:"bank_transaction_id,omitempty" db:"bank_transaction_id"`
	ReconciledAmount  *decimal.Decimal `json:"reconciled_amount,omitempty" db:"reconciled_amount"`
}

// EffectiveAmount is the amount used for matching: the paid-amount override
// when present, the face amount otherwise.
func (i *Invoice) EffectiveAmount() decimal.Decimal {
	if i.PaidAmount != nil {
		return *i.PaidAmount
	}
	return i.Amount
}

// OrderSource distinguishes the two accounts-receivable feeds.
type OrderSource string

const (
	OrderSourceARInvoice OrderSource = "AR_INVOICE"
	OrderSourceFeed      OrderSource = "ORDER_FEED"
)

// RevenueOrder is an accounts-receivable order or invoice. OrderDate is the
// reference date used for matching.
type RevenueOrder struct {
	ID            string          `json:"id" db:"id"`
	InvoiceNumber string          `json:"invoice_number" db:"invoice_number"`
	CustomerName  string          `json:"customer_name" db:"customer_name"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	OrderDate     time.Time       `json:"order_date" db:"order_date"`
	Source        OrderSource     `json:"source" db:"source"`

	Reconciled        bool    `json:"reconciled" db:"reconciled"`
	BankTransactionID *string `json:"bank_transaction_id,omitempty" db:"bank_transaction_id"`
}

// SettlementRow is one gateway settlement line. Rows from batched gateways
// carry a disbursement date shared by every row of the same payout.
type SettlementRow struct {
	ID               string          `json:"id" db:"id"`
	Source           string          `json:"source" db:"source"`
	Amount           decimal.Decimal `json:"amount" db:"amount"`
	Date             time.Time       `json:"date" db:"date"`
	DisbursementDate *time.Time      `json:"disbursement_date,omitempty" db:"disbursement_date"`
	Reconciled       bool            `json:"reconciled" db:"reconciled"`
}
