package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KasumiMercury/primind-task-scheduling/internal/domain"
)

type checkOutput struct {
	Conflicts []domain.Conflict         `json:"conflicts"`
	Options   []domain.AdjustmentOption `json:"options"`
}

func checkCmd() *cobra.Command {
	var (
		draft       domain.Draft
		duration    int
		flexibility string
		taskID      string
		timezone    string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a draft window for conflicts and print adjustment options",
		Long: `Check a draft task window against preferences and stored tasks.

Examples:
  task-scheduling check --start 2024-05-20T23:00:00 --duration 30
  task-scheduling check --due 2024-05-20T23:30:00 --flexibility ±15m`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("duration") {
				if duration < 0 {
					return fmt.Errorf("--duration must be non-negative")
				}
				draft.DurationMin = domain.IntPtr(duration)
			}
			if flexibility != "" {
				flex, err := domain.ParseFlexibility(flexibility)
				if err != nil {
					return err
				}
				draft.Flexibility = flex
			}

			return runCheck(cmd.Context(), draft, taskID, timezone)
		},
	}

	cmd.Flags().StringVar(&draft.Title, "title", "", "draft title")
	cmd.Flags().StringVar(&draft.Start, "start", "", "draft start (ISO-8601)")
	cmd.Flags().StringVar(&draft.Due, "due", "", "draft due (ISO-8601)")
	cmd.Flags().IntVar(&duration, "duration", 0, "draft duration in minutes")
	cmd.Flags().StringVar(&flexibility, "flexibility", "", "strict, ±15m, ±30m or ±2h")
	cmd.Flags().StringVar(&taskID, "task-id", "", "id of the task being edited, excluded from overlap checks")
	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA zone overriding the preferences")

	return cmd
}

func runCheck(ctx context.Context, draft domain.Draft, taskID, timezone string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx)
	defer a.Close()
	if err != nil {
		return err
	}

	prefs, err := a.prefsRepo.GetPreferences(ctx)
	if err != nil {
		return err
	}

	tasks, err := a.taskRepo.ListTasks(ctx)
	if err != nil {
		return err
	}

	existing := make([]domain.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.ID != taskID {
			existing = append(existing, task)
		}
	}

	out := checkOutput{
		Conflicts: a.detector.Detect(draft, prefs, existing, timezone),
		Options:   a.searcher.Search(draft, prefs, existing, timezone),
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
