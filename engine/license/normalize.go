package license

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// foldKey returns the comparison key for names and aliases: trimmed,
// NFC-normalized and Unicode case-folded.
// A new Caser is built per call because Casers are not safe for concurrent use.
func foldKey(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}

// EqualFold reports whether two license strings compare equal the way the
// resolver compares names and aliases.
func EqualFold(a, b string) bool {
	return foldKey(a) == foldKey(b)
}
