package matcher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"backoffice-recon/internal/matcher"
)

func TestDetectGateway(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        matcher.GatewayLabel
		found       bool
	}{
		{"braintree", "BRAINTREE PAYOUT 2025-03-09", matcher.GatewayBraintree, true},
		{"stripe", "Stripe Transfer ST-12345", matcher.GatewayStripe, true},
		{"gocardless one word", "GOCARDLESS LTD COLLECTION", matcher.GatewayGoCardless, true},
		{"gocardless two words", "GO CARDLESS payment", matcher.GatewayGoCardless, true},
		{"paypal", "PAYPAL SETTLEMENT 998", matcher.GatewayPayPal, true},
		{"amex full name", "AMERICAN EXPRESS PAYMENT", matcher.GatewayAmex, true},
		{"amex short", "AMEX EPAYMENT ACH PMT", matcher.GatewayAmex, true},
		{"adyen", "ADYEN NV BATCH 42", matcher.GatewayAdyen, true},
		{"no match", "WIRE TRANSFER FROM CUSTOMER", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := matcher.DetectGateway(tt.description)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

// A description mentioning both Braintree and PayPal must resolve to
// Braintree: PayPal-processed Braintree payouts carry both names.
func TestDetectGateway_BraintreeBeforePayPal(t *testing.T) {
	label, found := matcher.DetectGateway("PAYPAL BRAINTREE DISBURSEMENT")
	assert.True(t, found)
	assert.Equal(t, matcher.GatewayBraintree, label)
}
