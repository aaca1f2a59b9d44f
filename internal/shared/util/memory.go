package util

import (
	"runtime"
)

// RuntimeStats is a small snapshot of process resource use.
type RuntimeStats struct {
	HeapAllocMB uint64 `json:"heap_alloc_mb"`
	Goroutines  int    `json:"goroutines"`
}

// ReadRuntimeStats samples the Go runtime.
func ReadRuntimeStats() RuntimeStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return RuntimeStats{
		HeapAllocMB: m.Alloc / 1024 / 1024,
		Goroutines:  runtime.NumGoroutine(),
	}
}
