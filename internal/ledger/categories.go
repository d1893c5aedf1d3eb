package ledger

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizeCategory trims name and upper-cases its first letter.
func NormalizeCategory(name string) string {
	name = strings.TrimSpace(name)
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// lookupCategory finds name in list ignoring case and returns the listed
// spelling.
func lookupCategory(list []string, name string) (string, bool) {
	for _, c := range list {
		if strings.EqualFold(c, strings.TrimSpace(name)) {
			return c, true
		}
	}
	return "", false
}
