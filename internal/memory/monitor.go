package memory

import (
	"log/slog"
	"runtime"
	"time"
)

const bytesPerMegabyte = 1024 * 1024

// Monitor reports the current memory usage of the process.
type Monitor interface {
	CurrentUsageInMb() int
}

// RuntimeMonitor reads heap usage from the Go runtime.
type RuntimeMonitor struct {
	logger *slog.Logger
}

// NewRuntimeMonitor creates a RuntimeMonitor. A nil logger means slog.Default().
func NewRuntimeMonitor(logger *slog.Logger) *RuntimeMonitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &RuntimeMonitor{logger: logger}
}

// CurrentUsageInMb returns allocated heap memory in MiB, rounded down.
func (m *RuntimeMonitor) CurrentUsageInMb() int {
	start := time.Now()
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	usage := int(stats.HeapAlloc / bytesPerMegabyte)
	m.logger.Debug("read memory usage", "usage_mb", usage, "elapsed", time.Since(start))
	return usage
}
