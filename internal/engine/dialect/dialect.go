// Package dialect holds the fixed vocabulary of the C-family source being
// minified: built-in types, reserved names that must never be renamed, the
// program entry point and the guard macro of deletion regions.
package dialect

import "unicode"

// BuiltinTypes are names the analyzer treats as types when deciding whether a
// following name is a declaration.
var BuiltinTypes = []string{
	"int", "void", "uint16_t", "uint32_t", "uint64_t", "bool", "auto",
	"int32_t", "string", "vector", "istringstream",
	"char", "short", "long", "float", "double", "unsigned", "signed",
	"size_t", "int8_t", "uint8_t", "int16_t", "int64_t",
}

// ReservedWords are library and language names kept verbatim in the output.
var ReservedWords = []string{
	"return", "printf", "struct", "std", "push_back", "back",
	"pop_back", "reserve", "cout", "__builtin_bswap64", "__builtin_ctzll", "const", "assert",
	"endl", "for", "while", "swap", "if", "else", "abs", "getline",
	"break", "length", "switch", "case", "cin", "empty", "continue", "size",
	"default", "using", "namespace", "__builtin_popcountll", "stoi", "chrono", "second",
	"high_resolution_clock", "duration_cast", "milliseconds", "now", "max", "pair",
	"stable_sort", "greater", "min", "memset", "sizeof",

	"do", "enum", "extern", "goto", "inline", "register", "restrict", "static",
	"typedef", "union", "volatile", "class", "public", "private", "protected",
	"template", "typename", "this", "new", "delete", "nullptr", "operator",
	"virtual", "friend", "static_cast", "reinterpret_cast", "const_cast",
	"dynamic_cast", "constexpr", "noexcept", "override", "final", "explicit",
	"mutable", "first", "include", "define", "ifdef", "ifndef", "endif",
	"pragma", "NULL", "puts", "scanf", "malloc", "free", "exit",
}

const (
	DefaultEntryPoint = "main"
	DefaultGuardMacro = "MINIFIED"

	// TrueLiteral and FalseLiteral are rewritten to numeric literals.
	TrueLiteral  = "true"
	FalseLiteral = "false"
)

// Dialect is an immutable lookup view over the vocabulary of one run.
type Dialect struct {
	types      map[string]bool
	reserved   map[string]bool
	entryPoint string
	guardMacro string
}

// Options extends the built-in tables. Empty fields fall back to defaults.
type Options struct {
	EntryPoint    string
	GuardMacro    string
	ExtraTypes    []string
	ExtraReserved []string
}

// New builds a dialect from the built-in tables plus opts.
func New(opts Options) *Dialect {
	d := &Dialect{
		types:      make(map[string]bool, len(BuiltinTypes)+len(opts.ExtraTypes)),
		reserved:   make(map[string]bool, len(ReservedWords)+len(BuiltinTypes)+len(opts.ExtraReserved)+1),
		entryPoint: opts.EntryPoint,
		guardMacro: opts.GuardMacro,
	}
	if d.entryPoint == "" {
		d.entryPoint = DefaultEntryPoint
	}
	if d.guardMacro == "" {
		d.guardMacro = DefaultGuardMacro
	}

	for _, t := range BuiltinTypes {
		d.types[t] = true
		d.reserved[t] = true
	}
	for _, t := range opts.ExtraTypes {
		d.types[t] = true
		d.reserved[t] = true
	}
	for _, w := range ReservedWords {
		d.reserved[w] = true
	}
	for _, w := range opts.ExtraReserved {
		d.reserved[w] = true
	}
	d.reserved[d.entryPoint] = true
	return d
}

// Default returns the dialect with no extensions.
func Default() *Dialect {
	return New(Options{})
}

func (d *Dialect) EntryPoint() string { return d.entryPoint }
func (d *Dialect) GuardMacro() string { return d.guardMacro }

// IsBuiltinType reports whether name is a built-in type.
func (d *Dialect) IsBuiltinType(name string) bool {
	return d.types[name]
}

// IsReserved reports whether name must be emitted verbatim.
func (d *Dialect) IsReserved(name string) bool {
	return d.reserved[name]
}

// IsBoolLiteral reports whether name is one of the two boolean spellings.
func (d *Dialect) IsBoolLiteral(name string) bool {
	return name == TrueLiteral || name == FalseLiteral
}

// Renamable reports whether name is an identifier the minifier may rename.
func (d *Dialect) Renamable(name string) bool {
	return IsName(name) && !d.reserved[name] && !d.IsBoolLiteral(name)
}

// IsName reports whether s starts like an identifier.
func IsName(s string) bool {
	for _, r := range s {
		return unicode.IsLetter(r) || r == '_'
	}
	return false
}
