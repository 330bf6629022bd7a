package reminder

import (
	"slices"
	"time"

	"github.com/KasumiMercury/primind-task-scheduling/internal/domain"
)

// Ready returns the candidates due at or before now, ordered by firing time.
func Ready(candidates []domain.ReminderCandidate, now time.Time) []domain.ReminderCandidate {
	ready := make([]domain.ReminderCandidate, 0, len(candidates))
	for _, c := range candidates {
		if !c.ScheduleAt.After(now) {
			ready = append(ready, c)
		}
	}

	slices.SortStableFunc(ready, func(a, b domain.ReminderCandidate) int {
		return a.ScheduleAt.Compare(b.ScheduleAt)
	})

	return ready
}

// Group sweep-merges ready candidates into notification groups.
//
// Each candidate opens a tentative window [minute(scheduleAt), +aggregationWindowMin). It joins
// the first group whose end is not before its firing time and stretches that group's end to
// cover its own window; otherwise it opens a new group. A group is popup when any member is.
func Group(candidates []domain.ReminderCandidate, now time.Time, aggregationWindowMin int) []domain.ReminderGroup {
	ready := Ready(candidates, now)
	aggregation := time.Duration(aggregationWindowMin) * time.Minute

	groups := make([]domain.ReminderGroup, 0)
	members := make([]map[string]struct{}, 0)

	for _, c := range ready {
		windowStart := c.ScheduleAt.Truncate(time.Minute)
		windowEnd := windowStart.Add(aggregation)

		idx := slices.IndexFunc(groups, func(g domain.ReminderGroup) bool {
			return !c.ScheduleAt.After(g.WindowEnd)
		})

		if idx < 0 {
			groups = append(groups, domain.ReminderGroup{
				WindowStart: windowStart,
				WindowEnd:   windowEnd,
				Mode:        c.Mode,
				TaskIDs:     []string{c.TaskID},
				Titles:      map[string]string{c.TaskID: c.TaskTitle},
			})
			members = append(members, map[string]struct{}{c.TaskID: {}})
			continue
		}

		g := &groups[idx]
		if _, seen := members[idx][c.TaskID]; !seen {
			members[idx][c.TaskID] = struct{}{}
			g.TaskIDs = append(g.TaskIDs, c.TaskID)
			g.Titles[c.TaskID] = c.TaskTitle
		}
		if windowEnd.After(g.WindowEnd) {
			g.WindowEnd = windowEnd
		}
		g.Mode = g.Mode.Dominant(c.Mode)
	}

	return groups
}
