package window

import (
	"time"

	"github.com/KasumiMercury/primind-task-scheduling/internal/domain"
)

// DefaultDurationMin is used when only a due time is known.
const DefaultDurationMin = 30

// Window is a resolved [Start, End) interval with the instant used for
// quiet-hours and work-hours checks.
type Window struct {
	Start  time.Time
	End    time.Time
	Anchor time.Time
	// AnchoredOnStart is false when the window was derived backwards from a due time.
	AnchoredOnStart bool
}

// Overlaps is half-open interval intersection.
func (w Window) Overlaps(other Window) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End)
}

func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Resolve derives the window of a draft. ok is false when the draft is unscheduled;
// malformed timestamps count as absent.
func Resolve(draft domain.Draft, loc *time.Location) (Window, bool) {
	start, hasStart := ParseInLocation(draft.Start, loc)
	due, hasDue := ParseInLocation(draft.Due, loc)

	switch {
	case hasStart && draft.DurationMin != nil && *draft.DurationMin > 0:
		return Window{
			Start:           start,
			End:             start.Add(minutes(*draft.DurationMin)),
			Anchor:          start,
			AnchoredOnStart: true,
		}, true
	case hasStart && hasDue:
		end := due
		if end.Before(start) {
			end = start
		}
		return Window{
			Start:           start,
			End:             end,
			Anchor:          start,
			AnchoredOnStart: true,
		}, true
	case hasDue:
		duration := DefaultDurationMin
		if draft.DurationMin != nil {
			duration = max(*draft.DurationMin, 0)
		}
		return Window{
			Start:  due.Add(-minutes(duration)),
			End:    due,
			Anchor: due,
		}, true
	default:
		return Window{}, false
	}
}

// ResolveTask is Resolve for a stored task.
func ResolveTask(task domain.Task, loc *time.Location) (Window, bool) {
	return Resolve(task.AsDraft(), loc)
}

// Anchor returns start if it parses, otherwise due.
func Anchor(start, due string, loc *time.Location) (time.Time, bool) {
	if t, ok := ParseInLocation(start, loc); ok {
		return t, true
	}
	return ParseInLocation(due, loc)
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}
