// Package memory reports process memory usage in megabytes.
//
// RuntimeMonitor reads the Go runtime statistics on every call. Because
// runtime.ReadMemStats stops the world, hot paths should go through a
// CachedMonitor, which refreshes a stored value on a background ticker
// and answers from that value without blocking.
package memory
