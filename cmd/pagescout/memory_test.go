package main

import (
	"strings"
	"testing"
)

func TestMemoryCommand(t *testing.T) {
	t.Parallel()

	t.Run("prints samples", func(t *testing.T) {
		t.Parallel()

		cfgPath := writeConfig(t, "max_memory_usage_cache_time: 2s\n")
		stdout, _, err := executeRoot(t, "memory", "--config", cfgPath, "-s", "2", "-e", "10ms")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "refresh interval: 2s") {
			t.Errorf("expected configured interval, got:\n%s", stdout)
		}
		if got := strings.Count(stdout, " MiB\n"); got != 2 {
			t.Errorf("expected 2 samples, got %d:\n%s", got, stdout)
		}
	})

	t.Run("rejects invalid flags", func(t *testing.T) {
		t.Parallel()

		cfgPath := writeConfig(t, "")
		if _, _, err := executeRoot(t, "memory", "--config", cfgPath, "-s", "0"); err == nil {
			t.Error("expected error for zero samples")
		}
		if _, _, err := executeRoot(t, "memory", "--config", cfgPath, "-e", "0s"); err == nil {
			t.Error("expected error for zero interval")
		}
	})
}
