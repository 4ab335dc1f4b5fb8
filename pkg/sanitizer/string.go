package sanitizer

import (
	"strings"
	"unicode"
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

// NormalizeName is used for experience titles, locations and guest names.
func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizeEmail trims an email address. Inner characters are kept so
// validation sees what the customer typed.
func NormalizeEmail(value string) string {
	return strings.TrimSpace(value)
}

func NormalizePromoCode(code string) string {
	return strings.TrimSpace(code)
}

// NameOrDefault returns the normalized name, or fallback when it is blank.
func NameOrDefault(name, fallback string) string {
	if n := NormalizeName(name); n != "" {
		return n
	}
	return fallback
}
