package history

import "time"

// SchemaVersion is the latest migration this package knows how to apply.
const SchemaVersion = 1

// Run is one persisted minify run.
type Run struct {
	ID             string
	SourcePath     string
	Timestamp      time.Time
	SourceBytes    int
	IRBytes        int
	MinifiedBytes  int
	RenamedSymbols int
	Duration       time.Duration
	Cached         bool
}

// Ratio is the minified size as a fraction of the source size.
func (r Run) Ratio() float64 {
	if r.SourceBytes == 0 {
		return 0
	}
	return float64(r.MinifiedBytes) / float64(r.SourceBytes)
}
