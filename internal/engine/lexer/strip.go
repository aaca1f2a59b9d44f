package lexer

import "strings"

// QualifierKeyword is dropped from the token stream; it never changes the
// behavior of a program that already compiles.
const QualifierKeyword = "const"

// Strip removes comments, attributes, deletion regions, whitespace and the
// qualifier keyword. Group must have run first.
func Strip(tokens []Token, guard string) []Token {
	deletion := Join(DeletionRegionStart(guard))
	out := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		s := string(t)
		switch {
		case strings.HasPrefix(s, "//"), strings.HasPrefix(s, "/*"), strings.HasPrefix(s, "[["):
			continue
		case strings.HasPrefix(s, deletion):
			continue
		case t.IsSpace(), s == QualifierKeyword:
			continue
		}
		out = append(out, t)
	}
	return out
}
