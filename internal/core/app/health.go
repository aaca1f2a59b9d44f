package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"cminify/internal/shared/util"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
	Runtime    util.RuntimeStats `json:"runtime"`
}

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
		Runtime:    util.ReadRuntimeStats(),
	}

	// Input
	if _, err := os.Stat(s.app.Config.Input.Path); err != nil {
		status.Status = "degraded"
		status.Components["input"] = fmt.Sprintf("unreadable (%v)", err)
	} else {
		status.Components["input"] = "ok"
	}

	// Run history
	if s.app.history != nil {
		status.Components["history"] = "ok"
	} else if s.app.Config.History.Enabled {
		status.Status = "degraded"
		status.Components["history"] = "missing but enabled in config"
	} else {
		status.Components["history"] = "disabled"
	}

	status.Components["cache"] = fmt.Sprintf("ok (%d/%d entries)", s.app.cache.Len(), s.app.Config.Cache.Entries)

	if last := s.app.LastRun(); last != nil {
		status.Components["last_run"] = fmt.Sprintf("%s (%d -> %d bytes)",
			last.Timestamp.Format(time.RFC3339), last.Result.Stats.SourceBytes, last.Result.Stats.MinifiedBytes)
	} else {
		status.Components["last_run"] = "none"
	}

	return status
}
