// Package slug derives identifier-safe names from human-readable labels.
//
// A slug keeps only ASCII letters and digits: the input is decomposed (NFD),
// combining marks are dropped so that "é" becomes "e", then punctuation,
// whitespace and any remaining non-ASCII rune are removed. Case is preserved
// unless the caller asks for lowercasing.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// keep reports whether r survives into a slug.
func keep(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}

// Slug returns the slug of s. With lowercase=false the case of the surviving
// letters is preserved, which is how parameter IDs are derived from column
// headers. The result is a pure function of s.
func Slug(s string, lowercase bool) string {
	if s == "" {
		return ""
	}
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool { return !keep(r) })),
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		// transform.String only fails on malformed chains; fall back to a
		// plain filter so the result is still a slug.
		out = strings.Map(func(r rune) rune {
			if keep(r) {
				return r
			}
			return -1
		}, s)
	}
	if lowercase {
		out = strings.ToLower(out)
	}
	return out
}
