package risk

// OrderItem is a single line item on an incoming order. Quantity defaults to
// 1 when the submitting client omits it.
type OrderItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// OrderSubmission is the immutable input to one evaluation. UserID is empty
// for anonymous submitters.
type OrderSubmission struct {
	CustomerName    string      `json:"customer_name"`
	Email           string      `json:"email"`
	Phone           string      `json:"phone"`
	DeliveryAddress string      `json:"delivery_address"`
	OrderTotal      float64     `json:"order_total"`
	Items           []OrderItem `json:"items"`
	UserID          string      `json:"user_id,omitempty"`
}

// Assessment is the verdict produced by one evaluation. It is never
// persisted; the caller decides what to do with it.
type Assessment struct {
	IsValid              bool     `json:"is_valid"`
	RequiresConfirmation bool     `json:"requires_confirmation"`
	Issues               []string `json:"issues"`
	RiskScore            int      `json:"risk_score"`
	SuggestedAddress     string   `json:"suggested_address,omitempty"`
	Recommendations      []string `json:"recommendations,omitempty"`
}

// checkResult is the outcome of one top-level check. Sub-conditions inside a
// check short-circuit, so a single check contributes at most one issue and
// one penalty.
type checkResult struct {
	failed  bool
	issue   string
	penalty int
}

func pass() checkResult {
	return checkResult{}
}

func fail(issue string, penalty int) checkResult {
	return checkResult{failed: true, issue: issue, penalty: penalty}
}
