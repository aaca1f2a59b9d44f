package rename

import (
	"sort"

	"cminify/internal/engine/dialect"
	"cminify/internal/engine/lexer"
)

// Frequency is the number of occurrences of one renamable name.
type Frequency struct {
	Name  string
	Count int
}

// Frequencies counts renamable names in tokens, most frequent first. Ties
// keep first-occurrence order.
func Frequencies(tokens []lexer.Token, d *dialect.Dialect) []Frequency {
	index := make(map[string]int)
	var out []Frequency
	for _, t := range tokens {
		name := string(t)
		if !d.Renamable(name) {
			continue
		}
		if i, ok := index[name]; ok {
			out[i].Count++
			continue
		}
		index[name] = len(out)
		out = append(out, Frequency{Name: name, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// FinalNames assigns codes to names in frequency order and adds the fixed
// mappings for reserved names and boolean literals.
func FinalNames(freqs []Frequency, d *dialect.Dialect) map[string]string {
	names := make(map[string]string, len(freqs)+2)
	names[dialect.TrueLiteral] = "1"
	names[dialect.FalseLiteral] = "0"

	alloc := NewAllocator(d.IsReserved)
	for _, f := range freqs {
		if _, ok := names[f.Name]; ok {
			continue
		}
		names[f.Name] = alloc.Next()
	}
	return names
}

// ApplyFinal replaces every renamable name and boolean literal. Reserved
// names pass through unchanged.
func ApplyFinal(tokens []lexer.Token, names map[string]string, d *dialect.Dialect) []lexer.Token {
	out := make([]lexer.Token, len(tokens))
	for i, t := range tokens {
		name := string(t)
		if d.IsBoolLiteral(name) || d.Renamable(name) {
			if code, ok := names[name]; ok {
				out[i] = lexer.Token(code)
				continue
			}
		}
		out[i] = t
	}
	return out
}
