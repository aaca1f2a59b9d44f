// Package rename turns analyzed symbols into canonical intermediate names and
// then into the shortest codes ranked by usage.
package rename

import (
	"fmt"

	"cminify/internal/engine/dialect"
	"cminify/internal/engine/lexer"
	"cminify/internal/engine/symbols"
)

type scopeKey struct {
	Struct   string
	Function string
}

type scopedNames struct {
	Args   map[string]string
	Locals map[string]string
}

// Plan maps original names to canonical intermediate names.
type Plan struct {
	Structs   map[string]string
	Fields    map[string]string
	Functions map[string]string
	scoped    map[scopeKey]*scopedNames
}

// Scoped returns the argument and local maps of one function. Free
// functions use the empty struct name.
func (p *Plan) Scoped(structName, function string) (args, locals map[string]string) {
	s, ok := p.scoped[scopeKey{structName, function}]
	if !ok {
		return nil, nil
	}
	return s.Args, s.Locals
}

// Size is the number of distinct rename entries in the plan.
func (p *Plan) Size() int {
	n := len(p.Structs) + len(p.Fields) + len(p.Functions)
	for _, s := range p.scoped {
		n += len(s.Args) + len(s.Locals)
	}
	return n
}

// namer hands out canonical names that never shadow a spelling already
// present in the source.
type namer struct {
	taken map[string]bool
}

func (n namer) name(prefix string, i int) string {
	s := fmt.Sprintf("%s%d", prefix, i)
	for n.taken[s] {
		s += "_"
	}
	return s
}

// PlanIR derives canonical names from the symbol table. source lists the
// tokens the plan will be applied to; their spellings are avoided.
func PlanIR(tbl *symbols.Table, source []lexer.Token, d *dialect.Dialect) *Plan {
	taken := make(map[string]bool)
	for _, t := range source {
		if t.IsName() {
			taken[string(t)] = true
		}
	}
	nm := namer{taken: taken}

	p := &Plan{
		Structs:   make(map[string]string),
		Fields:    make(map[string]string),
		Functions: make(map[string]string),
		scoped:    make(map[scopeKey]*scopedNames),
	}

	// TopLevel holds index 0, so the first real struct is struct1.
	for i := 1; i < len(tbl.Structs); i++ {
		p.Structs[tbl.Names.String(tbl.Structs[i].Name)] = nm.name("struct", i)
	}

	planFields(p, tbl, nm)
	planFunctions(p, tbl, nm, d)

	for i := range tbl.Funcs {
		fn := &tbl.Funcs[i]
		key := scopeKey{
			Struct:   tbl.Names.String(tbl.Struct(fn.Owner).Name),
			Function: tbl.Names.String(fn.Name),
		}
		sc := &scopedNames{
			Args:   make(map[string]string, fn.Args.Len()),
			Locals: make(map[string]string, fn.Locals.Len()),
		}
		for j, id := range fn.Args.Ranked() {
			sc.Args[tbl.Names.String(id)] = nm.name("arg", j)
		}
		for j, id := range fn.Locals.Ranked() {
			sc.Locals[tbl.Names.String(id)] = nm.name("var", j)
		}
		p.scoped[key] = sc
	}
	return p
}

// planFields pools fields of every struct by name and numbers them by total
// count.
func planFields(p *Plan, tbl *symbols.Table, nm namer) {
	pool := struct {
		order  []symbols.NameID
		counts map[symbols.NameID]int
	}{counts: make(map[symbols.NameID]int)}

	for i := range tbl.Structs {
		s := &tbl.Structs[i]
		for _, id := range s.Fields.Order() {
			if _, ok := pool.counts[id]; !ok {
				pool.order = append(pool.order, id)
			}
			pool.counts[id] += s.Fields.Count(id)
		}
	}

	ranked := rankByCount(pool.order, pool.counts)
	for j, id := range ranked {
		p.Fields[tbl.Names.String(id)] = nm.name("field", j)
	}
}

// planFunctions names every function. The entry point keeps its name, free
// functions used inside structs get topfunc codes, methods are numbered per
// struct and the remaining free functions share a separate func sequence.
func planFunctions(p *Plan, tbl *symbols.Table, nm namer, d *dialect.Dialect) {
	entry := d.EntryPoint()
	for i := range tbl.Funcs {
		if tbl.Names.String(tbl.Funcs[i].Name) == entry {
			p.Functions[entry] = entry
		}
	}

	i := 0
	for _, id := range tbl.CrossRefs {
		name := tbl.Names.String(id)
		if _, done := p.Functions[name]; done {
			continue
		}
		p.Functions[name] = nm.name("topfunc", i)
		i++
	}

	// Methods: a name shared by several structs gets one index that is free
	// in every struct that owns it.
	methodIndex := make(map[string]int)
	owners := make(map[string][]symbols.StructID)
	for i := 1; i < len(tbl.Structs); i++ {
		s := &tbl.Structs[i]
		for _, fid := range s.Funcs {
			name := tbl.Names.String(tbl.Func(fid).Name)
			owners[name] = append(owners[name], s.ID)
		}
	}
	used := make(map[symbols.StructID]map[int]bool)
	for i := 1; i < len(tbl.Structs); i++ {
		s := &tbl.Structs[i]
		for _, fid := range s.Funcs {
			name := tbl.Names.String(tbl.Func(fid).Name)
			if _, done := p.Functions[name]; done {
				continue
			}
			k := 0
			for taken := true; taken; {
				taken = false
				for _, owner := range owners[name] {
					if used[owner][k] {
						taken = true
						k++
						break
					}
				}
			}
			for _, owner := range owners[name] {
				if used[owner] == nil {
					used[owner] = make(map[int]bool)
				}
				used[owner][k] = true
			}
			methodIndex[name] = k
			p.Functions[name] = nm.name("func", k)
		}
	}

	// Free functions skip every method index. Functions maps a spelling
	// wherever it appears, so a global named like a method already carries
	// that method's func name.
	freeUsed := make(map[int]bool, len(methodIndex))
	for _, k := range methodIndex {
		freeUsed[k] = true
	}
	top := tbl.Struct(symbols.TopLevel)
	j := 0
	for _, fid := range top.Funcs {
		name := tbl.Names.String(tbl.Func(fid).Name)
		if _, done := p.Functions[name]; done {
			continue
		}
		for freeUsed[j] {
			j++
		}
		p.Functions[name] = nm.name("func", j)
		freeUsed[j] = true
	}
}

func rankByCount(order []symbols.NameID, counts map[symbols.NameID]int) []symbols.NameID {
	out := append([]symbols.NameID(nil), order...)
	// insertion sort keeps ties in first-seen order
	for i := 1; i < len(out); i++ {
		for k := i; k > 0 && counts[out[k]] > counts[out[k-1]]; k-- {
			out[k], out[k-1] = out[k-1], out[k]
		}
	}
	return out
}

// ApplyIR rewrites tokens with the plan. Scope is re-derived with the same
// tracker the analyzer used, so argument and local lookups hit the function
// the analyzer attributed them to.
func ApplyIR(tokens []lexer.Token, p *Plan, d *dialect.Dialect) []lexer.Token {
	out := make([]lexer.Token, 0, len(tokens))
	tr := symbols.NewTracker(tokens, d)
	for !tr.Done() {
		ctx := tr.Next()
		out = append(out, lexer.Token(p.lookup(ctx, d)))
	}
	return out
}

func (p *Plan) lookup(ctx symbols.Context, d *dialect.Dialect) string {
	name := string(ctx.Token)
	if !d.Renamable(name) && name != d.EntryPoint() {
		return name
	}
	if ctx.InFunction && !ctx.MemberAccess() {
		args, locals := p.Scoped(ctx.Owner, ctx.Function)
		if v, ok := args[name]; ok {
			return v
		}
		if v, ok := locals[name]; ok {
			return v
		}
	}
	if v, ok := p.Fields[name]; ok {
		return v
	}
	if v, ok := p.Functions[name]; ok {
		return v
	}
	if v, ok := p.Structs[name]; ok {
		return v
	}
	return name
}
