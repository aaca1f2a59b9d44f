package ports

import (
	"context"

	"cminify/internal/data/history"
)

// RunStore abstracts run persistence for the history workflow.
type RunStore interface {
	SaveRun(ctx context.Context, run history.Run) (history.Run, error)
	RecentRuns(ctx context.Context, sourcePath string, limit int) ([]history.Run, error)
	Close() error
}
