package importing

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var foldCaser = cases.Fold()

// CleanSpace trims the string and collapses internal whitespace runs to
// a single space. Total over strings; empty input stays empty.
func CleanSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Fold lowercases for comparison without touching the original casing.
// Unicode case folding, so comparisons survive non-ASCII product names.
func Fold(s string) string {
	return foldCaser.String(CleanSpace(s))
}

// Slug builds a URL-safe slug from a name: NFKD-decomposed, marks and
// punctuation stripped, whitespace runs replaced by single hyphens.
func Slug(s string) string {
	decomposed := norm.NFKD.String(Fold(s))
	var b strings.Builder
	b.Grow(len(decomposed))
	lastHyphen := true // suppress a leading hyphen
	for _, r := range decomposed {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if r < 128 {
				b.WriteRune(r)
				lastHyphen = false
			}
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// ProductKey builds the deterministic grouping key from a category name
// and a base product name. Two rows with equivalently-normalized inputs
// always produce the same key regardless of original formatting.
func ProductKey(categoryName, baseName string) string {
	return Fold(categoryName) + "::" + Fold(baseName)
}

// Tokenize splits a folded name into its unique word tokens
func Tokenize(s string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, tok := range strings.Fields(Fold(s)) {
		tok = strings.Trim(tok, ".,;:()[]\"'")
		if tok != "" {
			tokens[tok] = struct{}{}
		}
	}
	return tokens
}

// NormalizeNumericToken turns a free-text numeric attribute ("12,5 mm",
// "M10", " 40") into a bare comparable token. Non-numeric input is
// cleaned and returned as-is.
func NormalizeNumericToken(s string) string {
	s = CleanSpace(s)
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, ",", ".")
	trimmed := strings.TrimFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.'
	})
	if trimmed == "" {
		return s
	}
	// Must be a single well-formed number to qualify as numeric.
	dots := strings.Count(trimmed, ".")
	if dots > 1 {
		return s
	}
	for _, r := range trimmed {
		if !unicode.IsDigit(r) && r != '.' {
			return s
		}
	}
	trimmed = strings.TrimSuffix(trimmed, ".")
	trimmed = strings.TrimPrefix(trimmed, ".")
	if trimmed == "" {
		return s
	}
	return trimmed
}
