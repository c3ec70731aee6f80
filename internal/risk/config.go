package risk

import (
	"time"

	"github.com/goldendragon/restaurant/pkg/config"
)

// Penalty weights per check. A failed check adds exactly its weight; the
// final score is the plain sum.
const (
	penaltyPhone       = 30
	penaltyEmail       = 20
	penaltyAddress     = 25
	penaltyMaxAmount   = 40
	penaltyMinAmount   = 50
	penaltyFrequency   = 35
	penaltyBlacklist   = 60
	penaltyName        = 15
	penaltyItems       = 20
	penaltyDistance    = 30
	penaltyUnusualHour = 10
)

// Verdict thresholds on the summed score.
const (
	invalidThreshold      = 50
	confirmationThreshold = 30
	highRiskThreshold     = 70
)

const maxTotalQuantity = 50

// Config carries the evaluator's thresholds and static lookup tables. Tables
// are injected rather than referenced as package globals so tests can
// override them without touching evaluator logic.
type Config struct {
	MaxOrderAmount      float64
	MinOrderAmount      float64
	MaxOrdersPerHour    int
	DeliveryRadiusMiles int
	AllowedZipCodes     []string

	BlacklistedPhones    []string
	BlacklistedEmails    []string
	BlacklistedAddresses []string
	SuspiciousKeywords   []string
	DisposableDomains    []string
	FakePhoneNumbers     []string

	// Location resolves the wall-clock hour for the unusual-hour check.
	Location *time.Location
}

// DefaultConfig returns the documented defaults with the built-in pattern tables.
func DefaultConfig() Config {
	return Config{
		MaxOrderAmount:      500,
		MinOrderAmount:      15,
		MaxOrdersPerHour:    5,
		DeliveryRadiusMiles: 5,
		AllowedZipCodes: []string{
			"10001", "10002", "10003", "10004", "10005",
			"10006", "10007", "10008", "10009", "10010",
		},
		BlacklistedPhones:    []string{"555-555-5555", "123-456-7890", "000-000-0000"},
		BlacklistedEmails:    []string{"test@test.com", "fake@fake.com"},
		BlacklistedAddresses: []string{"test address", "fake street", "123 test"},
		SuspiciousKeywords:   []string{"urgent", "asap", "test", "fake", "xxx"},
		DisposableDomains:    []string{"tempmail.com", "throwaway.email", "10minutemail.com"},
		FakePhoneNumbers:     []string{"0000000000", "1234567890", "5555555555"},
		Location:             time.Local,
	}
}

// ConfigFromApp overlays the environment-provided thresholds onto the
// defaults. An unloadable timezone silently keeps the host-local zone, in
// line with the rest of the config layer's silent-fallback behavior.
func ConfigFromApp(appCfg *config.RiskConfig) Config {
	cfg := DefaultConfig()
	cfg.MaxOrderAmount = appCfg.MaxOrderAmount
	cfg.MinOrderAmount = appCfg.MinOrderAmount
	cfg.MaxOrdersPerHour = appCfg.MaxOrdersPerHour
	cfg.DeliveryRadiusMiles = appCfg.DeliveryRadiusMiles
	if len(appCfg.AllowedZipCodes) > 0 {
		cfg.AllowedZipCodes = appCfg.AllowedZipCodes
	}
	if loc, err := time.LoadLocation(appCfg.Timezone); err == nil {
		cfg.Location = loc
	}
	return cfg
}
