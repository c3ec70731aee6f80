package risk

import (
	"regexp"
	"strings"
	"unicode"
)

// Abbreviation substitutions applied during normalization, in order.
var addressAbbreviations = []struct {
	pattern *regexp.Regexp
	repl    string
}{
	{regexp.MustCompile(`(?i)\bStreet\b`), "St"},
	{regexp.MustCompile(`(?i)\bAvenue\b`), "Ave"},
	{regexp.MustCompile(`(?i)\bRoad\b`), "Rd"},
	{regexp.MustCompile(`(?i)\bDrive\b`), "Dr"},
	{regexp.MustCompile(`(?i)\bLane\b`), "Ln"},
	{regexp.MustCompile(`(?i)\bBoulevard\b`), "Blvd"},
}

var repeatedWhitespace = regexp.MustCompile(`\s+`)

// NormalizeAddress standardizes a free-form delivery address: trims, upper
// cases the first letter of each word, applies the fixed abbreviation
// substitutions, and collapses repeated whitespace. Idempotent.
func NormalizeAddress(address string) string {
	cleaned := strings.TrimSpace(address)
	cleaned = capitalizeWords(cleaned)

	for _, abbr := range addressAbbreviations {
		cleaned = abbr.pattern.ReplaceAllString(cleaned, abbr.repl)
	}

	return repeatedWhitespace.ReplaceAllString(cleaned, " ")
}

// capitalizeWords uppercases any letter that starts a word; the remaining
// characters are left untouched.
func capitalizeWords(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevIsWord := false
	for _, r := range s {
		if !prevIsWord && unicode.IsLetter(r) {
			r = unicode.ToUpper(r)
		}
		b.WriteRune(r)
		prevIsWord = unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
	}

	return b.String()
}
