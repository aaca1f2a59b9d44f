package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", []string{}},
		{"function", "int main() { return 0; }", []string{"int", " ", "main", "(", ")", " ", "{", " ", "return", " ", "0", ";", " ", "}"}},
		{"assignment", "hehe = 1;", []string{"hehe", " ", "=", " ", "1", ";"}},
		{"long identifier", "a_very_long_variable_name", []string{"a_very_long_variable_name"}},
		{"whitespace runs split", "test\t\ntest", []string{"test", "\t", "\n", "test"}},
		{"double space", "a  b", []string{"a", " ", " ", "b"}},
		{"numeric suffix", "1ULL+x", []string{"1ULL", "+", "x"}},
		{"unicode word", "größe=1", []string{"größe", "=", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			assert.Equal(t, FromStrings(tt.want...), got)
		})
	}
}

func TestTokenizeRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"struct S { int x; };\n",
		"#include <stdio.h>\nint main(){printf(\"%d\\n\", 1ULL<<3);}",
		"\t\r\n    weird \xff\xfe bytes",
		"/* c */ // line\n'a' \"s\" [[nodiscard]]",
	}
	for _, in := range inputs {
		assert.Equal(t, in, Join(Tokenize(in)))
	}
}

func TestTokenPredicates(t *testing.T) {
	assert.True(t, Token("a").IsName())
	assert.True(t, Token("__AA").IsName())
	assert.True(t, Token("my_favorite_number_100000").IsName())
	assert.True(t, Token("int").IsName())
	assert.False(t, Token("123").IsName())
	assert.False(t, Token("1a2b3c").IsName())
	assert.False(t, Token("").IsName())
	assert.False(t, Token("\n").IsName())

	assert.True(t, Token("1ULL").IsNumeric())
	assert.False(t, Token("x1").IsNumeric())

	assert.True(t, Token(" \t").IsSpace())
	assert.False(t, Token("").IsSpace())

	assert.True(t, Token(`"hi"`).IsGrouped())
	assert.True(t, Token("// c").IsGrouped())
	assert.True(t, Token("[[x]]").IsGrouped())
	assert.False(t, Token("/").IsGrouped())

	assert.True(t, Token("+").IsSymbol())
	assert.False(t, Token("x").IsSymbol())
}

func TestGroupTokens(t *testing.T) {
	abcd := FromStrings("a", "b", "c", "d")
	tests := []struct {
		name       string
		start, end []string
		opts       GroupOptions
		want       []string
	}{
		{"first pair", []string{"a"}, []string{"b"}, GroupOptions{}, []string{"ab", "c", "d"}},
		{"middle pair", []string{"b"}, []string{"c"}, GroupOptions{}, []string{"a", "bc", "d"}},
		{"last pair", []string{"c"}, []string{"d"}, GroupOptions{}, []string{"a", "b", "cd"}},
		{"whole input", []string{"a"}, []string{"d"}, GroupOptions{}, []string{"abcd"}},
		{"end before start", []string{"c"}, []string{"b"}, GroupOptions{}, []string{"a", "b", "c", "d"}},
		{"missing end", []string{"b"}, []string{"e"}, GroupOptions{}, []string{"a", "b", "c", "d"}},
		{"start is not its own end", []string{"b"}, []string{"b"}, GroupOptions{}, []string{"a", "b", "c", "d"}},
		{"multi token start", []string{"a", "b"}, []string{"c"}, GroupOptions{}, []string{"abc", "d"}},
		{"multi token end", []string{"a"}, []string{"b", "c"}, GroupOptions{}, []string{"abc", "d"}},
		{"three token start", []string{"a", "b", "c"}, []string{"d"}, GroupOptions{}, []string{"abcd"}},
		{"exclude end", []string{"a"}, []string{"c"}, GroupOptions{ExcludeEnd: true}, []string{"ab", "c", "d"}},
		{"missing start", []string{"e"}, []string{"c"}, GroupOptions{}, []string{"a", "b", "c", "d"}},
		{"end at eof", []string{"b"}, []string{"e"}, GroupOptions{EndAtEOF: true}, []string{"a", "bcd"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GroupTokens(abcd, FromStrings(tt.start...), FromStrings(tt.end...), tt.opts)
			assert.Equal(t, FromStrings(tt.want...), got)
		})
	}
}

func TestGroupTokensEscape(t *testing.T) {
	tokens := Tokenize(`x = "a\"b";`)
	got := GroupTokens(tokens, quoteMarker, quoteMarker, GroupOptions{Escape: backslash})
	assert.Equal(t, FromStrings("x", " ", "=", " ", `"a\"b"`, ";"), got)

	tokens = Tokenize(`"\\" y`)
	got = GroupTokens(tokens, quoteMarker, quoteMarker, GroupOptions{Escape: backslash})
	assert.Equal(t, FromStrings(`"\\"`, " ", "y"), got)
}

func TestGroupTokensCollapseSpaceKeepsMarkers(t *testing.T) {
	tokens := Tokenize("#include <vector>\nint")
	got := GroupTokens(tokens, includeStart, newlineMarker, GroupOptions{CollapseSpace: true})
	assert.Equal(t, FromStrings("#include<vector>\n", "int"), got)
}

func TestGroupQuotedLiteral(t *testing.T) {
	got := Group(Tokenize(`s = "a b // c";`), "MINIFIED")
	assert.Contains(t, got, Token(`"a b // c"`))

	unterminated := Group(Tokenize(`s = "abc`), "MINIFIED")
	assert.Equal(t, FromStrings("s", " ", "=", " ", `"`, "abc"), unterminated)
}

func TestGroupOrder(t *testing.T) {
	src := "#include <cstdio>\n" +
		"/* block \"not a string\" */\n" +
		"[[nodiscard]] int f(); // trailing 'x'\n" +
		"#ifndef MINIFIED\nint debug = 1;\n#endif\n" +
		"char c = '\"';\n" +
		"// eof comment"
	got := Group(Tokenize(src), "MINIFIED")

	assert.Contains(t, got, Token("#include<cstdio>\n"))
	assert.Contains(t, got, Token("/* block \"not a string\" */"))
	assert.Contains(t, got, Token("[[nodiscard]]"))
	assert.Contains(t, got, Token("// trailing 'x'"))
	assert.Contains(t, got, Token("#ifndef MINIFIED\nint debug = 1;\n#endif"))
	assert.Contains(t, got, Token("// eof comment"))
	assert.Equal(t, src, Join(got))
}

func TestStrip(t *testing.T) {
	src := "// header\nconst int x = 1; /* gone */\n[[maybe_unused]] int y;\n#ifndef DEBUGONLY\nint z;\n#endif\n"
	got := Strip(Group(Tokenize(src), "DEBUGONLY"), "DEBUGONLY")
	assert.Equal(t, FromStrings("int", "x", "=", "1", ";", "int", "y", ";"), got)
}

func TestStripKeepsIncludeAndStrings(t *testing.T) {
	src := "#include <map>\nint main() { puts(\"a  b\"); }\n"
	got := Strip(Group(Tokenize(src), "MINIFIED"), "MINIFIED")
	require.NotEmpty(t, got)
	assert.Equal(t, Token("#include<map>\n"), got[0])
	assert.Contains(t, got, Token(`"a  b"`))
}

func TestNeedsSeparator(t *testing.T) {
	assert.False(t, NeedsSeparator("1", "+"))
	assert.False(t, NeedsSeparator("{", "}"))
	assert.False(t, NeedsSeparator("(", ")"))
	assert.False(t, NeedsSeparator("{", "printf"))
	assert.False(t, NeedsSeparator("coolboy99", "+"))
	assert.True(t, NeedsSeparator("int", "main"))
	assert.True(t, NeedsSeparator("1", "2"))
	assert.True(t, NeedsSeparator("return", "0"))
	assert.True(t, NeedsSeparator("x", "1ULL"))
}

func TestEmit(t *testing.T) {
	tokens := FromStrings("int", "main", "(", ")", "{", "return", "0", ";", "}")
	assert.Equal(t, "int main(){return 0;}", Emit(tokens))

	tokens = FromStrings("#include<cstdio>\n", "int", "a", "=", `"x y"`, ";")
	assert.Equal(t, "#include<cstdio>\nint a=\"x y\";", Emit(tokens))
}
