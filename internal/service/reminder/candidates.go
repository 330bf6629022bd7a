package reminder

import (
	"time"

	"github.com/KasumiMercury/primind-task-scheduling/internal/domain"
	"github.com/KasumiMercury/primind-task-scheduling/internal/service/window"
)

// DefaultStaleAfter drops candidates whose firing time is this far in the past.
const DefaultStaleAfter = 48 * time.Hour

type GeneratorOption func(*Generator)

func WithStaleAfter(d time.Duration) GeneratorOption {
	return func(g *Generator) {
		if d > 0 {
			g.staleAfter = d
		}
	}
}

// WithSkipDone excludes completed tasks. Off by default: a reopened task keeps its reminders.
func WithSkipDone(skip bool) GeneratorOption {
	return func(g *Generator) {
		g.skipDone = skip
	}
}

// Generator expands remind policies into absolute firing instants.
type Generator struct {
	staleAfter time.Duration
	skipDone   bool
}

func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		staleAfter: DefaultStaleAfter,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns one candidate per (task, policy entry) whose firing time is not stale.
// Tasks without a parseable start or due are skipped.
func (g *Generator) Generate(tasks []domain.Task, now time.Time, loc *time.Location) []domain.ReminderCandidate {
	staleBefore := now.Add(-g.staleAfter)
	candidates := make([]domain.ReminderCandidate, 0, len(tasks))

	for _, task := range tasks {
		if g.skipDone && task.Status.IsDone() {
			continue
		}

		anchor, ok := window.Anchor(task.Start, task.Due, loc)
		if !ok {
			continue
		}

		for _, policy := range task.RemindPolicy {
			scheduleAt := anchor.Add(-policy.Offset())
			if scheduleAt.Before(staleBefore) {
				continue
			}

			candidates = append(candidates, domain.ReminderCandidate{
				TaskID:     task.ID,
				TaskTitle:  task.Title,
				ScheduleAt: scheduleAt,
				Mode:       policy.Mode,
			})
		}
	}

	return candidates
}
