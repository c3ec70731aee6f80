package risk

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goldendragon/restaurant/pkg/logger"
)

// OrderHistory is the single external collaborator: a trailing-window order
// count for a submitting identity. Implemented by the orders repository in
// production and by fakes in tests.
type OrderHistory interface {
	CountOrdersForUser(ctx context.Context, userID string, since time.Time) (int, error)
}

var (
	nonDigits       = regexp.MustCompile(`\D`)
	emailShape      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	hasDigit        = regexp.MustCompile(`\d`)
	streetTypeToken = regexp.MustCompile(`(?i)\b(street|st|avenue|ave|road|rd|drive|dr|lane|ln|way|blvd|boulevard)\b`)
	zipCode         = regexp.MustCompile(`\b\d{5}\b`)
)

// Evaluator scores incoming orders against a fixed sequence of checks. It
// holds no mutable state; concurrent Evaluate calls need no coordination.
type Evaluator struct {
	cfg     Config
	history OrderHistory
}

// NewEvaluator creates an evaluator. history may be nil, in which case the
// order-frequency check never fires.
func NewEvaluator(cfg Config, history OrderHistory) *Evaluator {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Evaluator{cfg: cfg, history: history}
}

// Evaluate resolves the frequency signal for the submitting identity and
// scores the order. A history lookup failure is absorbed — this is a fraud
// heuristic, not a correctness-critical path — so Evaluate never fails.
func (e *Evaluator) Evaluate(ctx context.Context, order OrderSubmission, now time.Time) Assessment {
	var recentOrders *int
	if order.UserID != "" && e.history != nil {
		count, err := e.history.CountOrdersForUser(ctx, order.UserID, now.Add(-time.Hour))
		if err != nil {
			logger.WithContext(ctx).Warn("risk: order frequency lookup failed, skipping check",
				zap.String("user_id", order.UserID),
				zap.Error(err))
		} else {
			recentOrders = &count
		}
	}

	return e.EvaluateWithCount(order, now, recentOrders)
}

// EvaluateWithCount scores the order given an already-resolved recent-order
// count (nil means no frequency signal). Pure: identical inputs always yield
// an identical assessment.
func (e *Evaluator) EvaluateWithCount(order OrderSubmission, now time.Time, recentOrders *int) Assessment {
	var issues []string
	var recommendations []string
	score := 0

	apply := func(result checkResult) {
		if result.failed {
			issues = append(issues, result.issue)
			score += result.penalty
		}
	}

	// 1. Phone number format and fake patterns
	apply(e.checkPhone(order.Phone))

	// 2. Email format and disposable domains
	apply(e.checkEmail(order.Email))

	// 3. Address shape
	apply(e.checkAddressFormat(order.DeliveryAddress))

	// 4. Maximum order amount
	if order.OrderTotal > e.cfg.MaxOrderAmount {
		issues = append(issues, fmt.Sprintf("Order amount ($%s) exceeds maximum ($%s)",
			formatAmount(order.OrderTotal), formatAmount(e.cfg.MaxOrderAmount)))
		score += penaltyMaxAmount
		recommendations = append(recommendations, "Consider calling customer to confirm large order")
	}

	// 5. Minimum order amount
	if order.OrderTotal < e.cfg.MinOrderAmount {
		issues = append(issues, fmt.Sprintf("Order amount ($%s) below minimum ($%s)",
			formatAmount(order.OrderTotal), formatAmount(e.cfg.MinOrderAmount)))
		score += penaltyMinAmount
	}

	// 6. Order frequency (only with an identity and a resolved count)
	if order.UserID != "" && recentOrders != nil && *recentOrders >= e.cfg.MaxOrdersPerHour {
		issues = append(issues, fmt.Sprintf("Too many orders (%d) in the last hour", *recentOrders))
		score += penaltyFrequency
		recommendations = append(recommendations, "Possible bot or fraudulent activity detected")
	}

	// 7. Blacklisted contact info
	if e.isBlacklisted(order.Phone, order.Email, order.DeliveryAddress) {
		issues = append(issues, "Contact information matches blacklist patterns")
		score += penaltyBlacklist
	}

	// 8. Suspicious customer name
	if e.containsSuspiciousKeyword(order.CustomerName) {
		issues = append(issues, "Customer name contains suspicious patterns")
		score += penaltyName
	}

	// 9. Item validity
	apply(e.checkItems(order.Items))

	// 10. Delivery distance (ZIP allow-list stand-in)
	if !e.withinDeliveryRange(order.DeliveryAddress) {
		issues = append(issues, fmt.Sprintf("Delivery address outside %d mile radius", e.cfg.DeliveryRadiusMiles))
		score += penaltyDistance
	}

	// 11. Unusual ordering hour
	if hour := now.In(e.cfg.Location).Hour(); hour >= 3 && hour < 6 {
		issues = append(issues, "Order placed during unusual hours (3-6 AM)")
		score += penaltyUnusualHour
	}

	// Tier recommendations on the final score, highest tier only.
	switch {
	case score >= highRiskThreshold:
		recommendations = append(recommendations,
			"HIGH RISK: Manual review strongly recommended",
			"Consider calling customer before preparation")
	case score >= invalidThreshold:
		recommendations = append(recommendations,
			"MEDIUM RISK: Send confirmation SMS/email",
			"Request payment upfront")
	case score >= confirmationThreshold:
		recommendations = append(recommendations,
			"LOW RISK: Standard confirmation recommended")
	}

	assessment := Assessment{
		IsValid:              score < invalidThreshold,
		RequiresConfirmation: score >= confirmationThreshold && score < invalidThreshold,
		Issues:               issues,
		RiskScore:            score,
		Recommendations:      recommendations,
	}

	if suggested := NormalizeAddress(order.DeliveryAddress); suggested != order.DeliveryAddress {
		assessment.SuggestedAddress = suggested
	}

	return assessment
}

func (e *Evaluator) checkPhone(phone string) checkResult {
	cleaned := nonDigits.ReplaceAllString(phone, "")

	if len(cleaned) != 10 {
		return fail("Invalid phone number format", penaltyPhone)
	}

	for _, fake := range e.cfg.FakePhoneNumbers {
		if cleaned == fake {
			return fail("Phone number appears to be fake", penaltyPhone)
		}
	}

	if allSameDigits(cleaned) {
		return fail("Phone number has repeating digits", penaltyPhone)
	}

	return pass()
}

func (e *Evaluator) checkEmail(email string) checkResult {
	if !emailShape.MatchString(email) {
		return fail("Invalid email format", penaltyEmail)
	}

	domain := email[strings.Index(email, "@")+1:]
	for _, disposable := range e.cfg.DisposableDomains {
		if strings.EqualFold(domain, disposable) {
			return fail("Disposable email address detected", penaltyEmail)
		}
	}

	return pass()
}

func (e *Evaluator) checkAddressFormat(address string) checkResult {
	if len(address) < 10 {
		return fail("Address too short", penaltyAddress)
	}

	if !hasDigit.MatchString(address) {
		return fail("Address missing street number", penaltyAddress)
	}

	if !streetTypeToken.MatchString(address) {
		return fail("Address missing street name", penaltyAddress)
	}

	return pass()
}

func (e *Evaluator) checkItems(items []OrderItem) checkResult {
	if len(items) == 0 {
		return fail("Order has no items", penaltyItems)
	}

	totalQuantity := 0
	for _, item := range items {
		qty := item.Quantity
		if qty == 0 {
			qty = 1
		}
		totalQuantity += qty
	}
	if totalQuantity > maxTotalQuantity {
		return fail(fmt.Sprintf("Excessive quantity ordered (%d items)", totalQuantity), penaltyItems)
	}

	for _, item := range items {
		if item.Name == "" || item.Price <= 0 {
			return fail("Invalid item data in order", penaltyItems)
		}
	}

	return pass()
}

func (e *Evaluator) isBlacklisted(phone, email, address string) bool {
	cleanPhone := nonDigits.ReplaceAllString(phone, "")
	lowerEmail := strings.ToLower(email)
	lowerAddress := strings.ToLower(address)

	for _, p := range e.cfg.BlacklistedPhones {
		if digits := nonDigits.ReplaceAllString(p, ""); digits != "" && strings.Contains(cleanPhone, digits) {
			return true
		}
	}

	for _, pattern := range e.cfg.BlacklistedEmails {
		if strings.Contains(lowerEmail, pattern) {
			return true
		}
	}

	for _, pattern := range e.cfg.BlacklistedAddresses {
		if strings.Contains(lowerAddress, pattern) {
			return true
		}
	}

	return false
}

func (e *Evaluator) containsSuspiciousKeyword(name string) bool {
	lower := strings.ToLower(name)
	for _, keyword := range e.cfg.SuspiciousKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func (e *Evaluator) withinDeliveryRange(address string) bool {
	zip := zipCode.FindString(address)
	if zip == "" {
		return false
	}

	for _, allowed := range e.cfg.AllowedZipCodes {
		if zip == allowed {
			return true
		}
	}
	return false
}

func allSameDigits(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return len(s) > 0
}

// formatAmount renders a dollar amount without trailing zeros, matching the
// message format customers and staff see elsewhere in the product.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
