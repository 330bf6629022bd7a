package adjust

import (
	"fmt"
	"time"

	"github.com/KasumiMercury/primind-task-scheduling/internal/domain"
	"github.com/KasumiMercury/primind-task-scheduling/internal/service/conflict"
	"github.com/KasumiMercury/primind-task-scheduling/internal/service/window"
)

const (
	// MaxOptions caps the number of returned options.
	MaxOptions = 4
	// minOptionsBeforeFallback is the count under which the next-morning option is appended.
	minOptionsBeforeFallback = 2
	// maxStepFactor caps any single shift at this many flexibility units.
	maxStepFactor = 4

	fallbackHour   = 9
	fallbackMinute = 0
)

// stepMultipliers favors small forward shifts before larger or backward ones.
var stepMultipliers = []int{1, 2, -1, 3, -2, 4}

// Searcher proposes shifted windows for a conflicting draft.
type Searcher struct {
	detector *conflict.Detector
}

func NewSearcher(detector *conflict.Detector) *Searcher {
	return &Searcher{
		detector: detector,
	}
}

type anchorKind int

const (
	anchorStart anchorKind = iota
	anchorDue
)

type searchState struct {
	draft       domain.Draft
	prefs       *domain.Preferences
	existing    []domain.Task
	timezone    string
	kind        anchorKind
	durationMin int
	flexibility domain.Flexibility

	visited map[string]struct{}
	options []domain.AdjustmentOption
}

// Search returns at most MaxOptions conflict-free alternatives. The result is empty only when
// the draft has neither a usable start nor a usable due time.
func (s *Searcher) Search(
	draft domain.Draft,
	prefs *domain.Preferences,
	existing []domain.Task,
	timezone string,
) []domain.AdjustmentOption {
	loc := s.detector.Location(prefs, timezone)

	base, kind, ok := baseTime(draft, loc)
	if !ok {
		return []domain.AdjustmentOption{}
	}

	state := &searchState{
		draft:       draft,
		prefs:       prefs,
		existing:    existing,
		timezone:    timezone,
		kind:        kind,
		durationMin: durationMinutes(draft, loc),
		flexibility: draft.Flexibility.OrDefault(),
		visited:     make(map[string]struct{}),
		options:     make([]domain.AdjustmentOption, 0, MaxOptions),
	}

	unit := state.flexibility.WindowMinutes()
	for _, step := range stepMultipliers {
		shift := min(abs(step)*unit, maxStepFactor*unit)
		direction := 1
		if step < 0 {
			direction = -1
		}

		candidate := base.Add(time.Duration(direction*shift) * time.Minute)
		s.tryCandidate(state, candidate, shiftRationale(direction, shift))

		if len(state.options) >= MaxOptions {
			break
		}
	}

	if len(state.options) < minOptionsBeforeFallback {
		next := base.AddDate(0, 0, 1)
		morning := time.Date(next.Year(), next.Month(), next.Day(), fallbackHour, fallbackMinute, 0, 0, loc)
		state.appendFallback(morning)
	}

	return state.options
}

func (s *Searcher) tryCandidate(state *searchState, at time.Time, rationale string) {
	option := state.buildOption(at, rationale)
	key := optionKey(option)
	if _, seen := state.visited[key]; seen {
		return
	}
	state.visited[key] = struct{}{}

	candidate := option.AsDraft(state.draft.Title)
	if s.detector.HasConflict(candidate, state.prefs, state.existing, state.timezone) {
		return
	}

	state.options = append(state.options, option)
}

// appendFallback adds the next-morning option without re-checking it, unless an accepted
// option already covers the same window.
func (st *searchState) appendFallback(at time.Time) {
	option := st.buildOption(at, fmt.Sprintf("start next day at %02d:%02d, inside work hours", fallbackHour, fallbackMinute))
	option.Fallback = true

	key := optionKey(option)
	for _, accepted := range st.options {
		if optionKey(accepted) == key {
			return
		}
	}

	st.options = append(st.options, option)
}

func (st *searchState) buildOption(at time.Time, rationale string) domain.AdjustmentOption {
	duration := st.durationMin
	option := domain.AdjustmentOption{
		DurationMin: &duration,
		Flexibility: st.flexibility,
		Rationale:   rationale,
	}

	switch st.kind {
	case anchorStart:
		option.Start = window.Format(at)
		option.Due = window.Format(at.Add(time.Duration(duration) * time.Minute))
	case anchorDue:
		option.Due = window.Format(at)
	}

	return option
}

func optionKey(option domain.AdjustmentOption) string {
	return option.Start + "|" + option.Due
}

func baseTime(draft domain.Draft, loc *time.Location) (time.Time, anchorKind, bool) {
	if start, ok := window.ParseInLocation(draft.Start, loc); ok {
		return start, anchorStart, true
	}
	if due, ok := window.ParseInLocation(draft.Due, loc); ok {
		return due, anchorDue, true
	}
	return time.Time{}, anchorDue, false
}

// durationMinutes follows the resolver: a positive explicit duration, else the span of a
// start/due draft, else the explicit or default duration. It is never negative.
func durationMinutes(draft domain.Draft, loc *time.Location) int {
	if draft.DurationMin != nil && *draft.DurationMin > 0 {
		return *draft.DurationMin
	}
	start, hasStart := window.ParseInLocation(draft.Start, loc)
	due, hasDue := window.ParseInLocation(draft.Due, loc)
	if hasStart && hasDue {
		return max(int(due.Sub(start)/time.Minute), 0)
	}
	if draft.DurationMin != nil {
		return max(*draft.DurationMin, 0)
	}
	return window.DefaultDurationMin
}

func shiftRationale(direction, shiftMin int) string {
	switch {
	case shiftMin == 0:
		return "keep the original time"
	case direction > 0:
		return fmt.Sprintf("postponed %d minutes to avoid conflict", shiftMin)
	default:
		return fmt.Sprintf("brought forward %d minutes to avoid conflict", shiftMin)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
