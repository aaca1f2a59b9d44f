package symbols

import (
	"cminify/internal/engine/dialect"
	"cminify/internal/engine/lexer"
)

// ScopeKind tags one frame of the scope stack.
type ScopeKind int

const (
	ScopeTopLevel ScopeKind = iota
	ScopeStruct
	ScopeFunction
	ScopeArgumentList
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeTopLevel:
		return "toplevel"
	case ScopeStruct:
		return "struct"
	case ScopeFunction:
		return "function"
	case ScopeArgumentList:
		return "arguments"
	}
	return "unknown"
}

// Frame is one entry of the scope stack. Struct and function frames are
// pending (level 0) from their name until the brace that opens the body.
type Frame struct {
	Kind  ScopeKind
	Name  string
	Owner string
	// level is the brace depth inside the body; 0 while pending.
	level  int
	parens int
}

func (f *Frame) open() bool { return f.level > 0 }

// Event marks scope transitions that happened on the current token.
type Event uint8

const (
	EventStructEntry Event = 1 << iota
	// EventStructDecl names a struct that does not become active, e.g. one
	// nested inside another struct.
	EventStructDecl
	EventFunctionEntry
	EventFunctionBody
	// EventFunctionDropped closes a function that never opened a body, such
	// as a prototype.
	EventFunctionDropped
	EventFunctionExit
	EventStructExit
)

func (e Event) Has(flag Event) bool { return e&flag != 0 }

// Context is the scope view of one token after the tracker has consumed it.
type Context struct {
	Index          int
	Token          lexer.Token
	Prev, PrevPrev lexer.Token
	Next           lexer.Token
	Events         Event

	Struct string
	// InStruct is true only while a struct body is open.
	InStruct bool
	// StructDepth is 1 directly inside the struct braces.
	StructDepth int

	Function string
	Owner    string
	// InFunction covers the argument list, the gap before the body and the body.
	InFunction   bool
	FunctionBody bool
	InArgs       bool
	ParenDepth   int
}

// MemberAccess reports whether the token follows ".", "->" or "::", where it
// can only name a member.
func (c Context) MemberAccess() bool {
	switch c.Prev {
	case ".":
		return true
	case ">":
		return c.PrevPrev == "-"
	case ":":
		return c.PrevPrev == ":"
	}
	return false
}

// Tracker derives scope context token by token. The analyzer and the IR pass
// both drive a Tracker over the same stream so they agree on every scope.
type Tracker struct {
	tokens  []lexer.Token
	dialect *dialect.Dialect
	structs map[string]bool
	stack   []Frame
	braces  int
	pos     int
}

func NewTracker(tokens []lexer.Token, d *dialect.Dialect) *Tracker {
	return &Tracker{
		tokens:  tokens,
		dialect: d,
		structs: make(map[string]bool),
		stack:   []Frame{{Kind: ScopeTopLevel}},
	}
}

// IsType reports whether name is a built-in type or a struct seen so far.
func (t *Tracker) IsType(name lexer.Token) bool {
	return t.dialect.IsBuiltinType(string(name)) || t.structs[string(name)]
}

// PrecededByType reports whether a type sits directly before the current
// token, or a reference, pointer or template marker that itself follows a type.
func (t *Tracker) PrecededByType(prev, prevPrev lexer.Token) bool {
	if t.IsType(prev) {
		return true
	}
	switch prev {
	case "&", "*", ">":
		return t.IsType(prevPrev)
	}
	return false
}

func (t *Tracker) at(i int) lexer.Token {
	if i < 0 || i >= len(t.tokens) {
		return ""
	}
	return t.tokens[i]
}

func (t *Tracker) find(kind ScopeKind) *Frame {
	for i := len(t.stack) - 1; i >= 0; i-- {
		if t.stack[i].Kind == kind {
			return &t.stack[i]
		}
	}
	return nil
}

func (t *Tracker) remove(kind ScopeKind) {
	for i := len(t.stack) - 1; i > 0; i-- {
		if t.stack[i].Kind == kind {
			t.stack = append(t.stack[:i], t.stack[i+1:]...)
			return
		}
	}
}

func (t *Tracker) openStruct() *Frame {
	if f := t.find(ScopeStruct); f != nil && f.open() {
		return f
	}
	return nil
}

// Done reports whether every token has been consumed.
func (t *Tracker) Done() bool {
	return t.pos >= len(t.tokens)
}

// Next consumes one token and returns its context.
func (t *Tracker) Next() Context {
	i := t.pos
	t.pos++
	tok := t.at(i)
	ctx := Context{
		Index:    i,
		Token:    tok,
		Prev:     t.at(i - 1),
		PrevPrev: t.at(i - 2),
		Next:     t.at(i + 1),
	}

	if args := t.find(ScopeArgumentList); args != nil {
		switch tok {
		case "(":
			args.parens++
		case ")":
			args.parens--
			if args.parens <= 0 {
				t.remove(ScopeArgumentList)
			}
		}
	} else {
		ctx.Events |= t.trackBraces(tok)
	}

	if ctx.Prev == "struct" && tok.IsName() && !t.dialect.IsReserved(string(tok)) {
		t.structs[string(tok)] = true
		if t.find(ScopeStruct) == nil && t.find(ScopeFunction) == nil {
			t.stack = append(t.stack, Frame{Kind: ScopeStruct, Name: string(tok)})
			ctx.Events |= EventStructEntry
		} else {
			ctx.Events |= EventStructDecl
		}
	}

	if t.isFunctionEntry(ctx) {
		owner := ""
		if s := t.openStruct(); s != nil {
			owner = s.Name
		}
		t.stack = append(t.stack,
			Frame{Kind: ScopeFunction, Name: string(tok), Owner: owner},
			Frame{Kind: ScopeArgumentList},
		)
		ctx.Events |= EventFunctionEntry
	}

	t.fill(&ctx)
	return ctx
}

// trackBraces opens pending bodies, closes scopes whose braces balance and
// drops pending frames that turned out to be declarations.
func (t *Tracker) trackBraces(tok lexer.Token) Event {
	var ev Event
	fn := t.find(ScopeFunction)
	st := t.find(ScopeStruct)

	switch tok {
	case "{":
		t.braces++
		switch {
		case fn != nil && !fn.open():
			fn.level = t.braces
			ev |= EventFunctionBody
		case fn == nil && st != nil && !st.open():
			st.level = t.braces
		}
	case "}":
		switch {
		case fn != nil && !fn.open():
			t.remove(ScopeFunction)
			ev |= EventFunctionDropped
		case fn != nil && t.braces == fn.level:
			t.remove(ScopeFunction)
			ev |= EventFunctionExit
		case fn == nil && st != nil && st.open() && t.braces == st.level:
			t.remove(ScopeStruct)
			ev |= EventStructExit
		}
		if t.braces > 0 {
			t.braces--
		}
	case ";", ",":
		if fn != nil && !fn.open() {
			t.remove(ScopeFunction)
			ev |= EventFunctionDropped
		}
		if st != nil && !st.open() {
			t.remove(ScopeStruct)
		}
	case "=", "(", ")":
		if st != nil && !st.open() {
			t.remove(ScopeStruct)
		}
	}
	return ev
}

func (t *Tracker) isFunctionEntry(ctx Context) bool {
	if ctx.Next != "(" || !ctx.Token.IsName() {
		return false
	}
	if t.find(ScopeFunction) != nil || t.find(ScopeArgumentList) != nil {
		return false
	}
	name := string(ctx.Token)
	if !t.dialect.Renamable(name) && name != t.dialect.EntryPoint() {
		return false
	}
	if t.IsType(ctx.Token) {
		return false
	}
	return t.PrecededByType(ctx.Prev, ctx.PrevPrev)
}

func (t *Tracker) fill(ctx *Context) {
	if s := t.openStruct(); s != nil {
		ctx.InStruct = true
		ctx.Struct = s.Name
		ctx.StructDepth = t.braces - s.level + 1
	}
	if fn := t.find(ScopeFunction); fn != nil {
		ctx.InFunction = true
		ctx.FunctionBody = fn.open()
		ctx.Function = fn.Name
		ctx.Owner = fn.Owner
	}
	if args := t.find(ScopeArgumentList); args != nil {
		ctx.InArgs = true
		ctx.ParenDepth = args.parens
	}
}
