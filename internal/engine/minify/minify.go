// Package minify wires the lexer, symbol analysis and both renaming stages
// into the single Minify entry point.
package minify

import (
	"context"
	"log/slog"

	"cminify/internal/engine/dialect"
	"cminify/internal/engine/lexer"
	"cminify/internal/engine/rename"
	"cminify/internal/engine/symbols"
)

// Formatter pretty-prints the intermediate representation. It is advisory:
// its output is only used for the debug artifact and a failure is ignored.
type Formatter interface {
	Format(ctx context.Context, source string) (string, error)
}

type Options struct {
	// Dialect defaults to dialect.Default().
	Dialect *dialect.Dialect
	// Verbose fills Result.Report.
	Verbose   bool
	Formatter Formatter
}

// Stats summarizes one run.
type Stats struct {
	SourceBytes    int
	Tokens         int
	StrippedTokens int
	IRBytes        int
	MinifiedBytes  int
	RenamedSymbols int
	Structs        int
	Functions      int
}

// Ratio is the minified size as a fraction of the source size.
func (s Stats) Ratio() float64 {
	if s.SourceBytes == 0 {
		return 0
	}
	return float64(s.MinifiedBytes) / float64(s.SourceBytes)
}

type Result struct {
	// IR is the intermediate representation before formatting.
	IR string
	// FormattedIR is the formatter output, or IR when formatting was skipped
	// or failed.
	FormattedIR string
	// Formatted reports whether the formatter ran successfully.
	Formatted bool
	Minified  string
	Report    *Report
	Stats     Stats
}

// Minify runs the whole pipeline over source. It never fails: malformed
// input degrades to pass-through tokens.
func Minify(ctx context.Context, source string, opts Options) *Result {
	d := opts.Dialect
	if d == nil {
		d = dialect.Default()
	}
	guard := d.GuardMacro()

	raw := lexer.Tokenize(source)
	tokens := lexer.Strip(lexer.Group(raw, guard), guard)

	table := symbols.Analyze(tokens, d)
	plan := rename.PlanIR(table, tokens, d)
	irTokens := rename.ApplyIR(tokens, plan, d)
	ir := lexer.Emit(irTokens)

	res := &Result{IR: ir, FormattedIR: ir}
	if opts.Verbose {
		res.Report = BuildReport(table)
	}
	if opts.Formatter != nil {
		formatted, err := opts.Formatter.Format(ctx, ir)
		if err != nil {
			slog.Debug("ir formatting skipped", "error", err)
		} else {
			res.FormattedIR = formatted
			res.Formatted = true
		}
	}

	names := rename.FinalNames(rename.Frequencies(irTokens, d), d)
	res.Minified = lexer.Emit(rename.ApplyFinal(irTokens, names, d))

	res.Stats = Stats{
		SourceBytes:    len(source),
		Tokens:         len(raw),
		StrippedTokens: len(tokens),
		IRBytes:        len(ir),
		MinifiedBytes:  len(res.Minified),
		RenamedSymbols: len(names) - 2,
		Structs:        len(table.Structs) - 1,
		Functions:      len(table.Funcs),
	}
	slog.Debug("minified source",
		"sourceBytes", res.Stats.SourceBytes,
		"minifiedBytes", res.Stats.MinifiedBytes,
		"irRenames", plan.Size(),
		"renamed", res.Stats.RenamedSymbols,
	)
	return res
}
