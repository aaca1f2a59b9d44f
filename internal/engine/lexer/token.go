// Package lexer splits C-family source into lossless tokens, merges literal
// regions into single tokens, drops non-semantic tokens and serializes token
// streams back to compact text.
package lexer

import (
	"strings"
	"unicode"

	"cminify/internal/engine/dialect"
)

// Token is one span of source text. The zero value is the empty token.
type Token string

// IsName reports whether the token starts like an identifier or keyword.
func (t Token) IsName() bool {
	return dialect.IsName(string(t))
}

// IsNumeric reports whether the token starts with a digit. Suffixed literals
// such as 1ULL are numeric.
func (t Token) IsNumeric() bool {
	for _, r := range string(t) {
		return unicode.IsDigit(r)
	}
	return false
}

// IsSpace reports whether the token is non-empty and whitespace only.
func (t Token) IsSpace() bool {
	return t != "" && strings.TrimSpace(string(t)) == ""
}

// IsGrouped reports whether the token is a merged literal, comment,
// attribute or directive.
func (t Token) IsGrouped() bool {
	if len(t) < 2 {
		return false
	}
	switch t[0] {
	case '"', '\'', '#':
		return true
	case '/':
		return t[1] == '/' || t[1] == '*'
	case '[':
		return t[1] == '['
	}
	return false
}

// IsSymbol reports whether the token is punctuation or an operator character.
func (t Token) IsSymbol() bool {
	return t != "" && !t.IsName() && !t.IsNumeric() && !t.IsSpace() && !t.IsGrouped()
}

// MergeSensitive reports whether the token could fuse with a neighbour of the
// same class if no separator were emitted.
func (t Token) MergeSensitive() bool {
	return t.IsName() || t.IsNumeric()
}

func (t Token) String() string { return string(t) }

// Join concatenates tokens without separators.
func Join(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(string(t))
	}
	return b.String()
}

// FromStrings converts plain strings to tokens.
func FromStrings(ss ...string) []Token {
	out := make([]Token, len(ss))
	for i, s := range ss {
		out[i] = Token(s)
	}
	return out
}
