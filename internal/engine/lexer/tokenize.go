package lexer

import (
	"unicode"
	"unicode/utf8"
)

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// Tokenize splits src into word runs and single non-word runes. Every byte,
// whitespace and invalid UTF-8 included, ends up in exactly one token, so
// Join(Tokenize(s)) == s.
func Tokenize(src string) []Token {
	tokens := make([]Token, 0, len(src)/2)
	start := -1
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRuneInString(src[i:])
		if r != utf8.RuneError && isWordRune(r) {
			if start < 0 {
				start = i
			}
			i += size
			continue
		}
		if start >= 0 {
			tokens = append(tokens, Token(src[start:i]))
			start = -1
		}
		tokens = append(tokens, Token(src[i:i+size]))
		i += size
	}
	if start >= 0 {
		tokens = append(tokens, Token(src[start:]))
	}
	return tokens
}
