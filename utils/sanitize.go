package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	angleBrackets = regexp.MustCompile(`[<>]`)
	unsafeRunes   = regexp.MustCompile(`[^\p{L}\p{M}\p{N}\p{P}\p{S}\p{Zs}\n\t]`)
)

// SanitizeText strips angle brackets and any rune outside the letter, number,
// punctuation, symbol and space classes, then trims surrounding whitespace.
// Applying it twice yields the same result as applying it once.
func SanitizeText(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	s = angleBrackets.ReplaceAllString(s, "")
	s = unsafeRunes.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// SanitizeTextPtr sanitizes an optional string, mapping blank results to nil
func SanitizeTextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	clean := SanitizeText(*s)
	if clean == "" {
		return nil
	}
	return &clean
}

// RuneLen returns the number of characters in s
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}
