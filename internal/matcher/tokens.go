package matcher

import (
	"strings"
	"time"
	"unicode"
)

// minTokenLength filters out noise like "de", "ltd" abbreviations shorter
// than three characters, account digits groups of 1-2, etc.
const minTokenLength = 3

// tokenize lower-cases s and splits it on whitespace and punctuation,
// keeping tokens of at least minTokenLength characters.
func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) >= minTokenLength {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// matchedTokens returns the tokens that appear as substrings of haystack.
// haystack must already be lower-cased.
func matchedTokens(haystack string, tokens []string) []string {
	var matched []string
	for _, tok := range tokens {
		if strings.Contains(haystack, tok) {
			matched = append(matched, tok)
		}
	}
	return matched
}

// daysBetween returns the signed number of calendar days from a to b,
// ignoring the time of day.
func daysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
