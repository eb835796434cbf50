package main

import (
	"fmt"
	"time"

	"github.com/nao1215/pagescout/internal/memory"
	"github.com/spf13/cobra"
)

// NewMemoryCmd creates the memory command.
func NewMemoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memory",
		Short: "Print the process memory usage as seen by the crawler",
		Long: `Memory prints the heap usage reported by the memory monitor.

With --samples greater than one, the cached monitor is sampled once per
--every interval. The cached value is refreshed every
max_memory_usage_cache_time, so consecutive samples may repeat.`,
		Args: cobra.NoArgs,
		RunE: runMemoryCmd,
	}
	cmd.Flags().IntP("samples", "s", 1, "Number of samples to print")
	cmd.Flags().DurationP("every", "e", time.Second, "Interval between samples")
	return cmd
}

// runMemoryCmd executes the memory command.
func runMemoryCmd(cmd *cobra.Command, _ []string) error {
	samples, err := cmd.Flags().GetInt("samples")
	if err != nil {
		return err
	}
	every, err := cmd.Flags().GetDuration("every")
	if err != nil {
		return err
	}
	if samples < 1 {
		return fmt.Errorf("--samples must be at least 1, got %d", samples)
	}
	if every <= 0 {
		return fmt.Errorf("--every must be positive, got %s", every)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := setupLogger(cmd)

	monitor, err := memory.NewCachedMonitor(
		memory.NewRuntimeMonitor(logger),
		cfg.MaxMemoryUsageCacheTime,
		memory.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer monitor.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "refresh interval: %s\n", monitor.Interval())
	for i := range samples {
		if i > 0 {
			select {
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			case <-time.After(every):
			}
		}
		fmt.Fprintf(out, "%s  %d MiB\n", time.Now().Format(time.RFC3339), monitor.CurrentUsageInMb())
	}
	return nil
}
