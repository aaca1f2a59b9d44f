package minify

import (
	"fmt"
	"strings"

	"cminify/internal/engine/symbols"
)

// Count is one name with its occurrence count.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type FunctionReport struct {
	Name   string  `json:"name"`
	Args   []Count `json:"args"`
	Locals []Count `json:"locals"`
}

type StructReport struct {
	// Name is empty for the top level.
	Name         string           `json:"name"`
	Fields       []Count          `json:"fields"`
	Functions    []FunctionReport `json:"functions"`
	TopLevelUsed []string         `json:"top_level_used"`
}

// Report is the symbol statistics gathered by the analyzer.
type Report struct {
	Structs []StructReport `json:"structs"`
}

func counts(tbl *symbols.Table, c *symbols.Counter) []Count {
	out := make([]Count, 0, c.Len())
	for _, id := range c.Ranked() {
		out = append(out, Count{Name: tbl.Names.String(id), Count: c.Count(id)})
	}
	return out
}

// BuildReport snapshots tbl into plain values.
func BuildReport(tbl *symbols.Table) *Report {
	r := &Report{Structs: make([]StructReport, 0, len(tbl.Structs))}
	for i := range tbl.Structs {
		s := &tbl.Structs[i]
		sr := StructReport{
			Name:   tbl.Names.String(s.Name),
			Fields: counts(tbl, &s.Fields),
		}
		for _, fid := range s.Funcs {
			fn := tbl.Func(fid)
			sr.Functions = append(sr.Functions, FunctionReport{
				Name:   tbl.Names.String(fn.Name),
				Args:   counts(tbl, &fn.Args),
				Locals: counts(tbl, &fn.Locals),
			})
		}
		for _, id := range s.TopLevelUsed {
			sr.TopLevelUsed = append(sr.TopLevelUsed, tbl.Names.String(id))
		}
		r.Structs = append(r.Structs, sr)
	}
	return r
}

func writeCounts(b *strings.Builder, indent, label string, cs []Count) {
	if len(cs) == 0 {
		return
	}
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = fmt.Sprintf("%s=%d", c.Name, c.Count)
	}
	fmt.Fprintf(b, "%s%s: %s\n", indent, label, strings.Join(parts, ", "))
}

// String renders the report as indented plain text.
func (r *Report) String() string {
	var b strings.Builder
	for _, s := range r.Structs {
		name := s.Name
		if name == "" {
			name = "Top Level"
		}
		fmt.Fprintf(&b, "struct %s\n", name)
		writeCounts(&b, "  ", "fields", s.Fields)
		for _, fn := range s.Functions {
			fmt.Fprintf(&b, "  func %s\n", fn.Name)
			writeCounts(&b, "    ", "args", fn.Args)
			writeCounts(&b, "    ", "locals", fn.Locals)
		}
		if len(s.TopLevelUsed) > 0 {
			fmt.Fprintf(&b, "  uses: %s\n", strings.Join(s.TopLevelUsed, ", "))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
