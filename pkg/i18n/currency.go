package i18n

import "fmt"

// currencySymbols maps ISO 4217 currency codes to their display symbol.
// Currencies where the symbol precedes the amount use format "$%.2f".
// Others use "%.2f CURRENCY" format.
var currencySymbols = map[string]struct {
	symbol string
	prefix bool // true = "$12.50", false = "12.50 CHF"
}{
	"USD": {"$", true},
	"EUR": {"€", true},
	"GBP": {"£", true},
	"JPY": {"¥", true},
	"CNY": {"¥", true},
	"KRW": {"₩", true},
	"CAD": {"$", true},
	"MXN": {"$", true},
	"CHF": {"CHF", false},
}

// FormatAmount returns a human-readable amount string with the currency symbol.
// Examples:
//
//	FormatAmount(15.5, "USD")  → "$15.50"
//	FormatAmount(15.5, "EUR")  → "€15.50"
//	FormatAmount(150.0, "CHF") → "150.00 CHF"
//	FormatAmount(150.0, "XYZ") → "150.00 XYZ"
func FormatAmount(amount float64, currencyCode string) string {
	info, ok := currencySymbols[currencyCode]
	if !ok {
		// Unknown currency — fall back to "amount CODE"
		return fmt.Sprintf("%.2f %s", amount, currencyCode)
	}
	if info.prefix {
		return fmt.Sprintf("%s%.2f", info.symbol, amount)
	}
	return fmt.Sprintf("%.2f %s", amount, info.symbol)
}
