// Package i18n localizes customer-facing notification strings. The
// translation tables are compiled into the binary; an unsupported language
// falls back to English.
package i18n

import "fmt"

// DefaultLang is used when a language or key is not found.
const DefaultLang = "en"

// Translate returns the localized string for key in lang. Extra args feed
// fmt.Sprintf when the translation carries format verbs. An unknown key
// comes back as the key itself so nothing is silently swallowed.
func Translate(key, lang string, args ...interface{}) string {
	if lang == "" {
		lang = DefaultLang
	}

	langMap, ok := translations[key]
	if !ok {
		return key
	}

	tmpl, ok := langMap[lang]
	if !ok {
		tmpl, ok = langMap[DefaultLang]
		if !ok {
			return key
		}
	}

	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}
