// Package matching implements ingredient name canonicalization, duplicate
// detection against the catalog, and scored fuzzy search. All scoring here is
// pure computation; the catalog is read through the outbound repository port.
package matching

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes an ingredient name for equality comparison:
// lowercase, accents stripped, each token singularized. It is a pure function
// and idempotent, so stored normalized names never drift on re-normalization.
func Normalize(text string) string {
	lowered := strings.ToLower(strings.TrimSpace(text))
	stripped, _, err := transform.String(stripAccents, lowered)
	if err != nil {
		stripped = lowered
	}

	tokens := strings.Fields(stripped)
	for i, token := range tokens {
		tokens[i] = singularize(token)
	}
	return strings.Join(tokens, " ")
}

// singularize applies the rule-based Spanish/English plural stripping:
// a trailing "es" is dropped, then a trailing lone "s" is dropped unless
// the word ends in a doubled "ss". The rules run until the word is stable,
// so stems that still end in "s" after an "es" strip ("meses" -> "mes")
// reduce the same way a direct lookup of the singular would.
func singularize(word string) string {
	for {
		next := word
		switch {
		case len(next) > 3 && strings.HasSuffix(next, "es"):
			next = next[:len(next)-2]
		case len(next) > 2 && strings.HasSuffix(next, "s") && !strings.HasSuffix(next, "ss"):
			next = next[:len(next)-1]
		}
		if next == word {
			return word
		}
		word = next
	}
}
