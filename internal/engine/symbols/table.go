// Package symbols runs the scope-aware scan over a stripped token stream and
// records structs, functions, fields, arguments and locals with their
// occurrence counts.
package symbols

import "sort"

// NameID identifies an interned identifier.
type NameID int32

// Names interns identifier spellings so records can refer to them by index.
type Names struct {
	ids   map[string]NameID
	names []string
}

func NewNames() *Names {
	return &Names{ids: make(map[string]NameID)}
}

// Intern returns the id of s, allocating one on first use.
func (n *Names) Intern(s string) NameID {
	if id, ok := n.ids[s]; ok {
		return id
	}
	id := NameID(len(n.names))
	n.ids[s] = id
	n.names = append(n.names, s)
	return id
}

// Lookup returns the id of s without allocating.
func (n *Names) Lookup(s string) (NameID, bool) {
	id, ok := n.ids[s]
	return id, ok
}

// String returns the spelling of id.
func (n *Names) String(id NameID) string {
	return n.names[id]
}

// Counter is an occurrence count per name that remembers first-seen order.
type Counter struct {
	order  []NameID
	counts map[NameID]int
}

func newCounter() Counter {
	return Counter{counts: make(map[NameID]int)}
}

// Declare registers id with count 1. A name that is already present is
// counted as one more occurrence instead.
func (c *Counter) Declare(id NameID) {
	if _, ok := c.counts[id]; ok {
		c.counts[id]++
		return
	}
	c.order = append(c.order, id)
	c.counts[id] = 1
}

// Touch increments id if it is registered and reports whether it was.
func (c *Counter) Touch(id NameID) bool {
	if _, ok := c.counts[id]; !ok {
		return false
	}
	c.counts[id]++
	return true
}

func (c *Counter) Has(id NameID) bool {
	_, ok := c.counts[id]
	return ok
}

func (c *Counter) Count(id NameID) int {
	return c.counts[id]
}

func (c *Counter) Len() int {
	return len(c.order)
}

// Order returns ids in first-seen order.
func (c *Counter) Order() []NameID {
	return append([]NameID(nil), c.order...)
}

// Ranked returns ids by descending count; ties keep first-seen order.
func (c *Counter) Ranked() []NameID {
	out := c.Order()
	sort.SliceStable(out, func(i, j int) bool {
		return c.counts[out[i]] > c.counts[out[j]]
	})
	return out
}

// StructID indexes Table.Structs. TopLevel is the pseudo-struct that owns
// free functions.
type StructID int

const TopLevel StructID = 0

// FuncID indexes Table.Funcs.
type FuncID int

type StructRecord struct {
	ID     StructID
	Name   NameID
	Fields Counter
	// Funcs lists owned functions in first-seen order.
	Funcs      []FuncID
	funcByName map[NameID]FuncID
	// TopLevelUsed lists free functions referenced while this struct was active.
	TopLevelUsed []NameID
	usedSet      map[NameID]bool
}

type FuncRecord struct {
	ID     FuncID
	Owner  StructID
	Name   NameID
	Args   Counter
	Locals Counter
}

// Table owns every record of one scan.
type Table struct {
	Names   *Names
	Structs []StructRecord
	Funcs   []FuncRecord
	// CrossRefs lists free functions referenced from any struct, in order of
	// first reference.
	CrossRefs []NameID

	structByName map[NameID]StructID
	crossRefSet  map[NameID]bool
}

func NewTable() *Table {
	t := &Table{
		Names:        NewNames(),
		structByName: make(map[NameID]StructID),
		crossRefSet:  make(map[NameID]bool),
	}
	t.Structs = append(t.Structs, newStructRecord(TopLevel, t.Names.Intern("")))
	return t
}

func newStructRecord(id StructID, name NameID) StructRecord {
	return StructRecord{
		ID:         id,
		Name:       name,
		Fields:     newCounter(),
		funcByName: make(map[NameID]FuncID),
		usedSet:    make(map[NameID]bool),
	}
}

// EnsureStruct returns the record for name, creating it on first sight.
func (t *Table) EnsureStruct(name string) StructID {
	nid := t.Names.Intern(name)
	if id, ok := t.structByName[nid]; ok {
		return id
	}
	id := StructID(len(t.Structs))
	t.Structs = append(t.Structs, newStructRecord(id, nid))
	t.structByName[nid] = id
	return id
}

// StructByName resolves a struct name; the empty name is TopLevel.
func (t *Table) StructByName(name string) (StructID, bool) {
	if name == "" {
		return TopLevel, true
	}
	nid, ok := t.Names.Lookup(name)
	if !ok {
		return 0, false
	}
	id, ok := t.structByName[nid]
	return id, ok
}

// EnsureFunc returns the function record for name owned by owner.
func (t *Table) EnsureFunc(owner StructID, name string) FuncID {
	nid := t.Names.Intern(name)
	s := &t.Structs[owner]
	if id, ok := s.funcByName[nid]; ok {
		return id
	}
	id := FuncID(len(t.Funcs))
	t.Funcs = append(t.Funcs, FuncRecord{
		ID:     id,
		Owner:  owner,
		Name:   nid,
		Args:   newCounter(),
		Locals: newCounter(),
	})
	s.Funcs = append(s.Funcs, id)
	s.funcByName[nid] = id
	return id
}

// FuncByName resolves a function owned by owner.
func (t *Table) FuncByName(owner StructID, name string) (FuncID, bool) {
	nid, ok := t.Names.Lookup(name)
	if !ok {
		return 0, false
	}
	id, ok := t.Structs[owner].funcByName[nid]
	return id, ok
}

// IsFreeFunc reports whether name is a known top-level function.
func (t *Table) IsFreeFunc(name string) bool {
	_, ok := t.FuncByName(TopLevel, name)
	return ok
}

// Struct returns the record for id.
func (t *Table) Struct(id StructID) *StructRecord {
	return &t.Structs[id]
}

// Func returns the record for id.
func (t *Table) Func(id FuncID) *FuncRecord {
	return &t.Funcs[id]
}

// NoteCrossRef records that struct s referenced the free function name.
func (t *Table) NoteCrossRef(s StructID, name string) {
	nid := t.Names.Intern(name)
	rec := &t.Structs[s]
	if !rec.usedSet[nid] {
		rec.usedSet[nid] = true
		rec.TopLevelUsed = append(rec.TopLevelUsed, nid)
	}
	if !t.crossRefSet[nid] {
		t.crossRefSet[nid] = true
		t.CrossRefs = append(t.CrossRefs, nid)
	}
}
