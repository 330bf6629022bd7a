package conflict

import (
	"fmt"
	"time"

	"github.com/KasumiMercury/primind-task-scheduling/internal/domain"
	"github.com/KasumiMercury/primind-task-scheduling/internal/service/window"
)

const (
	anchorLayout = "Mon 15:04"
	clockLayout  = "15:04"
	fallbackZone = "UTC"
)

// OverlapMode controls how many overlapping tasks are reported.
type OverlapMode string

const (
	// OverlapModeFirst stops at the first overlapping task in input order.
	OverlapModeFirst OverlapMode = "first"
	// OverlapModeAll reports every overlapping task.
	OverlapModeAll OverlapMode = "all"
)

type Option func(*Detector)

func WithOverlapMode(mode OverlapMode) Option {
	return func(d *Detector) {
		switch mode {
		case OverlapModeFirst, OverlapModeAll:
			d.overlapMode = mode
		}
	}
}

// WithDefaultTimezone sets the zone used when neither the call nor the preferences name one.
func WithDefaultTimezone(tz string) Option {
	return func(d *Detector) {
		if tz != "" {
			d.defaultTimezone = tz
		}
	}
}

// Detector checks a draft window against quiet hours, work hours and existing tasks.
// It holds no mutable state and is safe for concurrent use.
type Detector struct {
	overlapMode     OverlapMode
	defaultTimezone string
}

func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		overlapMode:     OverlapModeFirst,
		defaultTimezone: fallbackZone,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Location picks the zone for a call: explicit timezone, then preferences, then the default.
func (d *Detector) Location(prefs *domain.Preferences, timezone string) *time.Location {
	switch {
	case timezone != "":
		return window.Location(timezone)
	case prefs != nil && prefs.Timezone != "":
		return window.Location(prefs.Timezone)
	default:
		return window.Location(d.defaultTimezone)
	}
}

// Detect returns the violated constraints in the order quiet, worktime, overlap.
// An unscheduled draft yields no conflicts.
func (d *Detector) Detect(
	draft domain.Draft,
	prefs *domain.Preferences,
	existing []domain.Task,
	timezone string,
) []domain.Conflict {
	loc := d.Location(prefs, timezone)
	conflicts := make([]domain.Conflict, 0)

	w, ok := window.Resolve(draft, loc)
	if !ok {
		return conflicts
	}

	if prefs != nil && inQuietHours(w.Anchor, prefs.QuietHours) {
		conflicts = append(conflicts, domain.Conflict{
			Type:   domain.ConflictTypeQuiet,
			Detail: fmt.Sprintf("%s falls in quiet hours", w.Anchor.Format(anchorLayout)),
		})
	}

	if outsideWorkHours(w.Anchor, prefs) {
		conflicts = append(conflicts, domain.Conflict{
			Type:   domain.ConflictTypeWorktime,
			Detail: fmt.Sprintf("%s is outside work hours", w.Anchor.Format(anchorLayout)),
		})
	}

	for _, task := range existing {
		if task.Status.IsDone() {
			continue
		}
		other, ok := window.ResolveTask(task, loc)
		if !ok || !w.Overlaps(other) {
			continue
		}

		conflicts = append(conflicts, domain.Conflict{
			Type: domain.ConflictTypeOverlap,
			Detail: fmt.Sprintf("overlaps %q (%s-%s)",
				task.Title,
				other.Start.Format(anchorLayout),
				other.End.Format(clockLayout),
			),
		})

		if d.overlapMode == OverlapModeFirst {
			break
		}
	}

	return conflicts
}

// HasConflict is a convenience for callers that only need a yes/no answer.
func (d *Detector) HasConflict(
	draft domain.Draft,
	prefs *domain.Preferences,
	existing []domain.Task,
	timezone string,
) bool {
	return len(d.Detect(draft, prefs, existing, timezone)) > 0
}

// inQuietHours compares at minute precision with inclusive endpoints.
// A wrapping range covers [start, 24:00) of the anchor's day and [00:00, end] of the next,
// which also catches an early-morning anchor inside the previous evening's range.
func inQuietHours(anchor time.Time, ranges []domain.ClockRange) bool {
	m := minuteOfDay(anchor)
	for _, r := range ranges {
		start, end, ok := r.Minutes()
		if !ok {
			continue
		}
		if start > end {
			if m >= start || m <= end {
				return true
			}
			continue
		}
		if m >= start && m <= end {
			return true
		}
	}
	return false
}

// outsideWorkHours treats a weekday without a configured range as unavailable.
func outsideWorkHours(anchor time.Time, prefs *domain.Preferences) bool {
	if prefs == nil {
		return true
	}
	r, ok := prefs.WorkRangeFor(anchor.Weekday())
	if !ok {
		return true
	}
	start, end, ok := r.Minutes()
	if !ok {
		return true
	}
	m := minuteOfDay(anchor)
	return m < start || m > end
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
