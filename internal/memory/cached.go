package memory

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultCacheInterval is used when the requested interval is shorter
// than MinCacheInterval.
const (
	DefaultCacheInterval = 5 * time.Second
	MinCacheInterval     = time.Second
)

// CachedMonitor decorates a Monitor with a value refreshed in the
// background. Reads never block on the underlying monitor.
type CachedMonitor struct {
	monitor  Monitor
	interval time.Duration
	logger   *slog.Logger

	usage atomic.Int64

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// CachedOption configures a CachedMonitor.
type CachedOption func(*CachedMonitor)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) CachedOption {
	return func(c *CachedMonitor) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCachedMonitor reads m once synchronously, then refreshes the value
// every interval until Close is called. Intervals below MinCacheInterval
// are replaced by DefaultCacheInterval.
func NewCachedMonitor(m Monitor, interval time.Duration, opts ...CachedOption) (*CachedMonitor, error) {
	if m == nil {
		return nil, ErrNilMonitor
	}
	if interval < MinCacheInterval {
		interval = DefaultCacheInterval
	}

	c := &CachedMonitor{
		monitor:  m,
		interval: interval,
		logger:   slog.Default(),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.refresh()
	go c.run()
	return c, nil
}

func (c *CachedMonitor) run() {
	defer close(c.done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.refresh()
		}
	}
}

func (c *CachedMonitor) refresh() {
	old := c.usage.Load()
	current := int64(c.monitor.CurrentUsageInMb())
	c.usage.Store(current)
	c.logger.Debug("refreshed cached memory usage", "old_mb", old, "new_mb", current)
}

// CurrentUsageInMb returns the most recently cached value.
func (c *CachedMonitor) CurrentUsageInMb() int {
	return int(c.usage.Load())
}

// Interval returns the effective refresh interval.
func (c *CachedMonitor) Interval() time.Duration {
	return c.interval
}

// Close stops the background refresh and waits for it to exit.
// It is safe to call more than once.
func (c *CachedMonitor) Close() error {
	c.closeOnce.Do(func() {
		close(c.stop)
	})
	<-c.done
	return nil
}
