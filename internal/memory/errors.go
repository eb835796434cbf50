package memory

import "errors"

// ErrNilMonitor is returned by NewCachedMonitor when no monitor is given.
var ErrNilMonitor = errors.New("memory: monitor must not be nil")
