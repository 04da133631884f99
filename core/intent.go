package core

import "strings"

// Intent is the closed classification tag describing a user request category.
// Every value outside the closed set coerces to IntentGeneral at parse time;
// IntentError is internal and emitted only when a turn fails outright.
type Intent string

const (
	IntentProductInfo Intent = "product_info"
	IntentOrderStatus Intent = "order_status"
	IntentComplaint   Intent = "complaint"
	IntentRefund      Intent = "refund"
	IntentDelivery    Intent = "delivery"
	IntentComparison  Intent = "comparison"
	IntentGeneral     Intent = "general"

	// IntentError is reported when processing fails; it is never produced by
	// classification.
	IntentError Intent = "error"
)

// Intents lists the closed set in classification priority order. The order is
// a deliberate tie-break policy for keyword fallback, not arbitrary.
var Intents = []Intent{
	IntentOrderStatus,
	IntentComplaint,
	IntentRefund,
	IntentDelivery,
	IntentComparison,
	IntentProductInfo,
	IntentGeneral,
}

// ParseIntent normalizes raw model output (trim, lowercase) and validates it
// against the closed set. Unrecognized values report ok=false; callers are
// expected to coerce those to IntentGeneral.
func ParseIntent(s string) (Intent, bool) {
	candidate := Intent(strings.ToLower(strings.TrimSpace(s)))
	for _, it := range Intents {
		if candidate == it {
			return it, true
		}
	}
	return IntentGeneral, false
}
