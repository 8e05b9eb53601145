// Package textnorm normalizes anchor labels and identifiers so that matching
// is insensitive to case, surrounding whitespace and Portuguese diacritics
// ("Notícias" and "noticias" compare equal either way).
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold returns the canonical comparison form of s: lowercased,
// accent-stripped, with runs of whitespace collapsed to single spaces.
func Fold(s string) string {
	s = strings.ToLower(s)
	s = Transliterate(s)
	return strings.Join(strings.Fields(s), " ")
}

// Transliterate converts unicode characters to ASCII equivalents by
// decomposing them and dropping the combining marks.
func Transliterate(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// isMn checks if a rune is a nonspacing mark (accents, diacritics)
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}

var (
	nonSlugChars = regexp.MustCompile("[^a-z0-9-]+")
	multiHyphen  = regexp.MustCompile("-+")
)

// Slug creates a filesystem/URL-friendly identifier from a string. Used for
// naming run artifacts after agencies.
func Slug(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ToLower(s)
	s = Transliterate(s)

	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")
	s = nonSlugChars.ReplaceAllString(s, "")
	s = multiHyphen.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	// Limit length to 100 characters
	if len(s) > 100 {
		s = s[:100]
		s = strings.TrimRight(s, "-")
	}

	return s
}
