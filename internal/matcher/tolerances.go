package matcher

import "github.com/shopspring/decimal"

// Tolerances holds every heuristic constant used by the candidate
// generators. The defaults mirror the back-office rules in production; all
// of them are overridable through configuration because none is derived
// from a documented business rule.
type Tolerances struct {
	// ExactEpsilon is the residual below which two amounts are treated as
	// identical.
	ExactEpsilon decimal.Decimal

	// Expense-invoice matching.
	InvoiceWindowDays       int             // exact window, ± days
	InvoiceAmountTolerance  decimal.Decimal // fraction of the transaction amount, strict upper bound
	InvoiceNameDaysBefore   int             // name window, days before the transaction date
	InvoiceNameDaysAfter    int             // name window, days after
	InvoicePoolLookbackDays int             // browse pool lookback

	// Payment-source matching.
	SettlementWindowDays    int
	SettlementTolerance     decimal.Decimal // fraction of the transaction amount
	SettlementAbsoluteFloor decimal.Decimal // minimum absolute tolerance, also the exactness bound

	// Revenue-order matching.
	OrderDaysBefore     int
	OrderDaysAfter      int
	OrderCloseTolerance decimal.Decimal // inclusive upper bound

	// Intercompany matching.
	IntercompanyWindowDays int
	IntercompanyTolerance  decimal.Decimal

	// AutoCommitThreshold is the minimum score the automatic pass accepts.
	AutoCommitThreshold int
}

// DefaultTolerances returns the production constants.
func DefaultTolerances() Tolerances {
	return Tolerances{
		ExactEpsilon:            decimal.NewFromFloat(0.01),
		InvoiceWindowDays:       3,
		InvoiceAmountTolerance:  decimal.NewFromFloat(0.15),
		InvoiceNameDaysBefore:   30,
		InvoiceNameDaysAfter:    15,
		InvoicePoolLookbackDays: 30,
		SettlementWindowDays:    5,
		SettlementTolerance:     decimal.NewFromFloat(0.03),
		SettlementAbsoluteFloor: decimal.NewFromFloat(1.00),
		OrderDaysBefore:         30,
		OrderDaysAfter:          5,
		OrderCloseTolerance:     decimal.NewFromFloat(0.05),
		IntercompanyWindowDays:  5,
		IntercompanyTolerance:   decimal.NewFromFloat(0.02),
		AutoCommitThreshold:     90,
	}
}
