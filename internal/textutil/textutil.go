// Package textutil provides text helpers for feature extraction and the CLI
// tokenizer.
package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

var tokenizeRe = regexp.MustCompile(`[\p{L}\p{N}_]+|[^\s\p{L}\p{N}_]`)

// Tokenize splits text into word tokens and single punctuation tokens.
func Tokenize(text string) []string {
	return tokenizeRe.FindAllString(text, -1)
}

// Prefix returns the first n runes of s, or all of s if it is shorter.
func Prefix(s string, n int) string {
	runes := []rune(s)
	if n > len(runes) {
		n = len(runes)
	}
	return string(runes[:n])
}

// Suffix returns the last n runes of s, or all of s if it is shorter.
func Suffix(s string, n int) string {
	runes := []rune(s)
	if n > len(runes) {
		n = len(runes)
	}
	return string(runes[len(runes)-n:])
}

// IsCapitalized reports whether the first rune of s is an upper-case letter.
func IsCapitalized(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

// WordShape maps upper-case letters to X, lower-case to x, digits to 0, and
// everything else to ?.
func WordShape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			b.WriteByte('X')
		case unicode.IsLower(r):
			b.WriteByte('x')
		case unicode.IsDigit(r):
			b.WriteByte('0')
		default:
			b.WriteByte('?')
		}
	}
	return b.String()
}
