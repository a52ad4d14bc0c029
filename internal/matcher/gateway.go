package matcher

import "strings"

// GatewayLabel is a normalized payment-gateway or counterparty label.
type GatewayLabel string

const (
	GatewayBraintree  GatewayLabel = "braintree"
	GatewayStripe     GatewayLabel = "stripe"
	GatewayGoCardless GatewayLabel = "gocardless"
	GatewayPayPal     GatewayLabel = "paypal"
	GatewayAmex       GatewayLabel = "amex"
	GatewayAdyen      GatewayLabel = "adyen"
	GatewayShopify    GatewayLabel = "shopify"
)

// gatewayRule maps a description substring to a label. An "unless" substring
// suppresses the rule so more specific vocabulary wins; order matters.
type gatewayRule struct {
	contains string
	unless   string
	label    GatewayLabel
}

var gatewayRules = []gatewayRule{
	{contains: "braintree", label: GatewayBraintree},
	{contains: "stripe", label: GatewayStripe},
	{contains: "gocardless", label: GatewayGoCardless},
	{contains: "go cardless", label: GatewayGoCardless},
	{contains: "paypal", unless: "braintree", label: GatewayPayPal},
	{contains: "american express", label: GatewayAmex},
	{contains: "amex", label: GatewayAmex},
	{contains: "adyen", label: GatewayAdyen},
	{contains: "shopify", label: GatewayShopify},
}

// DetectGateway maps a free-text transaction description to a normalized
// gateway label. Returns false when no rule matches. Pure and total.
func DetectGateway(description string) (GatewayLabel, bool) {
	desc := strings.ToLower(description)
	for _, rule := range gatewayRules {
		if !strings.Contains(desc, rule.contains) {
			continue
		}
		if rule.unless != "" && strings.Contains(desc, rule.unless) {
			continue
		}
		return rule.label, true
	}
	return "", false
}
