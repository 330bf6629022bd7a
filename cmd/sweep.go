package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func sweepCmd() *cobra.Command {
	var nowFlag string

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run one reminder sweep and print the result as JSON",
		Long: `Run one reminder sweep against the configured stores.

Examples:
  task-scheduling sweep
  task-scheduling sweep --now 2024-05-20T09:00:00+10:00`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now()
			if nowFlag != "" {
				parsed, err := time.Parse(time.RFC3339, nowFlag)
				if err != nil {
					return fmt.Errorf("invalid --now, expected RFC3339: %w", err)
				}
				now = parsed
			}

			return runSweep(cmd.Context(), now)
		},
	}

	cmd.Flags().StringVar(&nowFlag, "now", "", "virtual sweep time (RFC3339)")

	return cmd
}

func runSweep(ctx context.Context, now time.Time) error {
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx)
	defer a.Close()
	if err != nil {
		return err
	}

	result, err := a.reminderService.RunSweep(ctx, now)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
