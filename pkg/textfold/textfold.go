// Package textfold normalises free text for search and for renderers limited to Latin-1.
package textfold

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var (
	stroked  = strings.NewReplacer("đ", "d", "Đ", "D")
	nonSpace = func(r rune) bool { return unicode.Is(unicode.Mn, r) }
)

// StripMarks removes combining diacritics (ệ → e, Đ → D) while keeping letter case.
func StripMarks(s string) string {
	s = stroked.Replace(s)
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if nonSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return norm.NFC.String(b.String())
}

// Fold returns the search key for s: diacritics stripped, case folded, surrounding space trimmed.
// A Caser is stateful, so one is built per call.
func Fold(s string) string {
	return cases.Fold().String(StripMarks(strings.TrimSpace(s)))
}

// Contains reports whether needle occurs in haystack ignoring case and diacritics.
// An empty needle matches everything.
func Contains(haystack, needle string) bool {
	n := Fold(needle)
	if n == "" {
		return true
	}
	return strings.Contains(Fold(haystack), n)
}

// ContainsAny reports whether needle occurs in any of the fields.
func ContainsAny(needle string, fields ...string) bool {
	n := Fold(needle)
	if n == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(Fold(f), n) {
			return true
		}
	}
	return false
}
