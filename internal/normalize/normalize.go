package normalize

import (
	"strings"

	"golang.org/x/text/cases"
)

// Email trims and casefolds an address, so lookups and the unique
// constraint do not depend on how it was typed.
func Email(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Name trims and collapses inner whitespace in a display name.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
