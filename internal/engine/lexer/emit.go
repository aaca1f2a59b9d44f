package lexer

import "strings"

// NeedsSeparator reports whether a and b would fuse into a different token
// when written back to back.
func NeedsSeparator(a, b Token) bool {
	return a.MergeSensitive() && b.MergeSensitive()
}

// Emit serializes tokens with a single space only between merge-sensitive
// neighbours.
func Emit(tokens []Token) string {
	var b strings.Builder
	var prev Token
	for _, t := range tokens {
		if t == "" {
			continue
		}
		if prev != "" && NeedsSeparator(prev, t) {
			b.WriteByte(' ')
		}
		b.WriteString(string(t))
		prev = t
	}
	return b.String()
}
