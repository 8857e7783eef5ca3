package domain

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// enumerationRE matches a trailing enumeration parenthetical such as
// "(3,4)" or "(7)" at the end of a clue surface.
var enumerationRE = regexp.MustCompile(`\s*\([\d, ]+\)\s*$`)

// NormalizeSurface trims a raw surface string and strips one trailing
// enumeration parenthetical, if present. It does not alter case or
// internal punctuation.
func NormalizeSurface(raw string) Surface {
	s := enumerationRE.ReplaceAllString(strings.TrimSpace(raw), "")
	return Surface(strings.TrimSpace(s))
}

// NormalizeAnswer folds a raw answer into canonical Word form: diacritics
// stripped via NFD decomposition, non-letters dropped, uppercased.
func NormalizeAnswer(raw string) Word {
	decomposed := norm.NFD.String(raw)

	var b strings.Builder
	b.Grow(len(decomposed))

	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}

	return Word(b.String())
}
