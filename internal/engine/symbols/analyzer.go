package symbols

import (
	"cminify/internal/engine/dialect"
	"cminify/internal/engine/lexer"
)

// pendingArg is a parameter seen before its function is known to have a body.
type pendingArg struct {
	name  NameID
	typed bool
}

// Analyzer builds a Table in one forward pass.
type Analyzer struct {
	dialect *dialect.Dialect
	table   *Table
	tracker *Tracker

	fn      FuncID
	hasFn   bool
	pending []pendingArg
}

// Analyze scans a stripped token stream and returns its symbol table.
func Analyze(tokens []lexer.Token, d *dialect.Dialect) *Table {
	a := &Analyzer{
		dialect: d,
		table:   NewTable(),
		tracker: NewTracker(tokens, d),
	}
	for !a.tracker.Done() {
		a.step(a.tracker.Next())
	}
	return a.table
}

func (a *Analyzer) step(ctx Context) {
	if ctx.Events.Has(EventFunctionExit) {
		a.hasFn = false
	}
	if ctx.Events.Has(EventFunctionBody) {
		a.commitArgs(false)
	}
	if ctx.Events.Has(EventFunctionDropped) {
		a.commitArgs(true)
		a.hasFn = false
	}
	if ctx.Events.Has(EventStructEntry) || ctx.Events.Has(EventStructDecl) {
		a.table.EnsureStruct(string(ctx.Token))
	}

	name := string(ctx.Token)
	if !ctx.Token.IsName() {
		return
	}

	switch {
	case ctx.Events.Has(EventFunctionEntry):
		owner := TopLevel
		if ctx.Owner != "" {
			owner = a.table.EnsureStruct(ctx.Owner)
		}
		a.fn = a.table.EnsureFunc(owner, name)
		a.hasFn = true
		a.pending = a.pending[:0]
	case a.declaresArg(ctx):
		id := a.table.Names.Intern(name)
		if a.table.Func(a.fn).Args.Touch(id) {
			break
		}
		a.pending = append(a.pending, pendingArg{
			name:  id,
			typed: a.tracker.PrecededByType(ctx.Prev, ctx.PrevPrev),
		})
	case a.declaresLocal(ctx):
		id := a.table.Names.Intern(name)
		fn := a.table.Func(a.fn)
		if !fn.Args.Touch(id) {
			fn.Locals.Declare(id)
		}
	case a.declaresField(ctx):
		s, _ := a.table.StructByName(ctx.Struct)
		a.table.Struct(s).Fields.Declare(a.table.Names.Intern(name))
	default:
		a.touch(ctx)
	}

	if ctx.InStruct && a.table.IsFreeFunc(name) {
		s, _ := a.table.StructByName(ctx.Struct)
		a.table.NoteCrossRef(s, name)
	}
}

// commitArgs moves collected parameters into the current function. A
// function without a body keeps only parameters written after a type, so
// constructor-style initializers such as v(n) do not claim n.
func (a *Analyzer) commitArgs(prototype bool) {
	if !a.hasFn {
		a.pending = a.pending[:0]
		return
	}
	fn := a.table.Func(a.fn)
	for _, p := range a.pending {
		if prototype && !p.typed {
			continue
		}
		fn.Args.Declare(p.name)
	}
	a.pending = a.pending[:0]
}

func (a *Analyzer) declarable(ctx Context) bool {
	return a.dialect.Renamable(string(ctx.Token)) && !a.tracker.IsType(ctx.Token) && !ctx.MemberAccess()
}

func (a *Analyzer) declaresArg(ctx Context) bool {
	if !a.hasFn || !ctx.InArgs || ctx.ParenDepth <= 0 || !a.declarable(ctx) {
		return false
	}
	if ctx.Next == "," || ctx.Next == ")" {
		return true
	}
	return a.tracker.PrecededByType(ctx.Prev, ctx.PrevPrev)
}

func (a *Analyzer) declaresLocal(ctx Context) bool {
	return a.hasFn && ctx.FunctionBody && !ctx.InArgs && a.declarable(ctx) &&
		a.tracker.PrecededByType(ctx.Prev, ctx.PrevPrev)
}

func (a *Analyzer) declaresField(ctx Context) bool {
	return ctx.InStruct && !ctx.InFunction && ctx.StructDepth == 1 && a.declarable(ctx) &&
		a.tracker.PrecededByType(ctx.Prev, ctx.PrevPrev)
}

// touch counts a later occurrence of a registered argument, local or field.
func (a *Analyzer) touch(ctx Context) {
	id, ok := a.table.Names.Lookup(string(ctx.Token))
	if !ok {
		return
	}
	if a.hasFn && ctx.InFunction && !ctx.MemberAccess() {
		fn := a.table.Func(a.fn)
		if fn.Args.Touch(id) || fn.Locals.Touch(id) {
			return
		}
		if ctx.InArgs && a.isPending(id) {
			return
		}
	}
	if ctx.InStruct {
		s, _ := a.table.StructByName(ctx.Struct)
		a.table.Struct(s).Fields.Touch(id)
	}
}

func (a *Analyzer) isPending(id NameID) bool {
	for _, p := range a.pending {
		if p.name == id {
			return true
		}
	}
	return false
}
