package adjust

import (
	"testing"
	"time"

	"github.com/KasumiMercury/primind-task-scheduling/internal/domain"
	"github.com/KasumiMercury/primind-task-scheduling/internal/service/conflict"
	"github.com/KasumiMercury/primind-task-scheduling/internal/service/window"
)

const testTZ = "Australia/Sydney"

func newTestSearcher() *Searcher {
	return NewSearcher(conflict.NewDetector(conflict.WithDefaultTimezone(testTZ)))
}

func mustParse(t *testing.T, raw string) time.Time {
	t.Helper()
	parsed, ok := window.ParseInLocation(raw, window.Location(testTZ))
	if !ok {
		t.Fatalf("failed to parse %q", raw)
	}
	return parsed
}

func TestSearch_NoAnchor(t *testing.T) {
	s := newTestSearcher()

	options := s.Search(domain.Draft{DurationMin: domain.IntPtr(30)}, domain.DefaultPreferences(testTZ), nil, testTZ)
	if len(options) != 0 {
		t.Errorf("expected no options, got %v", options)
	}

	options = s.Search(domain.Draft{Start: "tomorrow-ish"}, domain.DefaultPreferences(testTZ), nil, testTZ)
	if len(options) != 0 {
		t.Errorf("expected no options for malformed start, got %v", options)
	}
}

func TestSearch_StepSequenceFollowsFlexibility(t *testing.T) {
	s := newTestSearcher()
	draft := domain.Draft{
		Start:       "2024-05-20T10:00:00",
		DurationMin: domain.IntPtr(30),
		Flexibility: domain.Flexibility30m,
	}

	options := s.Search(draft, domain.DefaultPreferences(testTZ), nil, testTZ)
	if len(options) != MaxOptions {
		t.Fatalf("expected %d options, got %d: %v", MaxOptions, len(options), options)
	}

	base := mustParse(t, draft.Start)
	wantShifts := []time.Duration{30 * time.Minute, 60 * time.Minute, -30 * time.Minute, 90 * time.Minute}
	for i, want := range wantShifts {
		got := mustParse(t, options[i].Start).Sub(base)
		if got != want {
			t.Errorf("option[%d] shift = %v, want %v", i, got, want)
		}
		if options[i].Fallback {
			t.Errorf("option[%d] unexpectedly marked as fallback", i)
		}
		due := mustParse(t, options[i].Due)
		if due.Sub(mustParse(t, options[i].Start)) != 30*time.Minute {
			t.Errorf("option[%d] duration not preserved: %s - %s", i, options[i].Start, options[i].Due)
		}
	}

	if options[1].Rationale != "postponed 60 minutes to avoid conflict" {
		t.Errorf("option[1] rationale = %q", options[1].Rationale)
	}
	if options[2].Rationale != "brought forward 30 minutes to avoid conflict" {
		t.Errorf("option[2] rationale = %q", options[2].Rationale)
	}
}

func TestSearch_DefaultsToThirtyMinuteFlexibility(t *testing.T) {
	s := newTestSearcher()
	draft := domain.Draft{Start: "2024-05-20T10:00:00", DurationMin: domain.IntPtr(30)}

	options := s.Search(draft, domain.DefaultPreferences(testTZ), nil, testTZ)
	if len(options) == 0 {
		t.Fatal("expected options")
	}
	if got := mustParse(t, options[0].Start).Sub(mustParse(t, draft.Start)); got != 30*time.Minute {
		t.Errorf("first shift = %v, want 30m", got)
	}
	if options[0].Flexibility != domain.Flexibility30m {
		t.Errorf("flexibility = %q, want %q", options[0].Flexibility, domain.Flexibility30m)
	}
}

func TestSearch_StrictCollapsesToFallback(t *testing.T) {
	s := newTestSearcher()
	existing := []domain.Task{
		{ID: "blocker", Title: "Blocker", Status: domain.StatusTodo, Start: "2024-05-20T10:30:00", DurationMin: domain.IntPtr(60)},
	}
	draft := domain.Draft{
		Start:       "2024-05-20T10:30:00",
		DurationMin: domain.IntPtr(60),
		Flexibility: domain.FlexibilityStrict,
	}

	options := s.Search(draft, domain.DefaultPreferences(testTZ), existing, testTZ)
	if len(options) != 1 {
		t.Fatalf("expected only the fallback option, got %v", options)
	}
	if !options[0].Fallback {
		t.Errorf("expected fallback option, got %+v", options[0])
	}
	start := mustParse(t, options[0].Start)
	if start.Day() != 21 || start.Hour() != 9 || start.Minute() != 0 {
		t.Errorf("fallback start = %v, want 2024-05-21 09:00", start)
	}
}

func TestSearch_AvoidsExistingTask(t *testing.T) {
	s := newTestSearcher()
	existing := []domain.Task{
		{ID: "blocker", Title: "Blocker", Status: domain.StatusTodo, Start: "2024-05-20T10:30:00", DurationMin: domain.IntPtr(60)},
	}
	draft := domain.Draft{
		Start:       "2024-05-20T10:30:00",
		DurationMin: domain.IntPtr(60),
		Flexibility: domain.Flexibility30m,
	}

	options := s.Search(draft, domain.DefaultPreferences(testTZ), existing, testTZ)
	if len(options) == 0 {
		t.Fatal("expected at least one option")
	}

	d := conflict.NewDetector()
	for _, option := range options {
		if option.Start == draft.Start {
			t.Errorf("option kept the blocked start: %+v", option)
		}
		if option.Fallback {
			continue
		}
		if conflicts := d.Detect(option.AsDraft(""), domain.DefaultPreferences(testTZ), existing, testTZ); len(conflicts) != 0 {
			t.Errorf("option %+v still conflicts: %v", option, conflicts)
		}
	}
}

func TestSearch_LateNightDueFallsBackToNextMorning(t *testing.T) {
	s := newTestSearcher()
	draft := domain.Draft{
		Due:         "2024-05-20T23:30:00",
		Flexibility: domain.Flexibility15m,
	}

	options := s.Search(draft, domain.DefaultPreferences(testTZ), nil, testTZ)

	var fallback *domain.AdjustmentOption
	for i := range options {
		if options[i].Fallback {
			fallback = &options[i]
		}
	}
	if fallback == nil {
		t.Fatalf("expected a fallback option, got %v", options)
	}
	if fallback.Start != "" {
		t.Errorf("due-anchored fallback should not carry a start, got %q", fallback.Start)
	}

	due := mustParse(t, fallback.Due)
	if due.Year() != 2024 || due.Month() != time.May || due.Day() != 21 || due.Hour() != 9 || due.Minute() != 0 {
		t.Errorf("fallback due = %v, want 2024-05-21 09:00", due)
	}
	if fallback.DurationMin == nil || *fallback.DurationMin != 30 {
		t.Errorf("fallback duration = %v, want 30", fallback.DurationMin)
	}
}

func TestSearch_DueAnchoredShiftsMoveDue(t *testing.T) {
	s := newTestSearcher()
	draft := domain.Draft{
		Due:         "2024-05-20T14:00:00",
		DurationMin: domain.IntPtr(45),
		Flexibility: domain.Flexibility2h,
	}

	options := s.Search(draft, domain.DefaultPreferences(testTZ), nil, testTZ)
	if len(options) == 0 {
		t.Fatal("expected options")
	}
	if options[0].Start != "" {
		t.Errorf("due-anchored option should not carry a start, got %q", options[0].Start)
	}
	if got := mustParse(t, options[0].Due).Sub(mustParse(t, draft.Due)); got != 2*time.Hour {
		t.Errorf("first shift = %v, want 2h", got)
	}
}

func TestSearch_StartDueDraftKeepsSpan(t *testing.T) {
	s := newTestSearcher()
	draft := domain.Draft{
		Start:       "2024-05-20T10:00:00",
		Due:         "2024-05-20T11:30:00",
		Flexibility: domain.Flexibility15m,
	}

	options := s.Search(draft, domain.DefaultPreferences(testTZ), nil, testTZ)
	if len(options) == 0 {
		t.Fatal("expected options")
	}
	if options[0].DurationMin == nil || *options[0].DurationMin != 90 {
		t.Errorf("duration = %v, want 90", options[0].DurationMin)
	}
}

func TestSearch_NegativeDurationNeverInvertsOption(t *testing.T) {
	s := newTestSearcher()
	loc := window.Location(testTZ)

	drafts := []domain.Draft{
		{Start: "2024-05-20T10:00:00", Due: "2024-05-20T11:00:00", DurationMin: domain.IntPtr(-60)},
		{Due: "2024-05-20T10:00:00", DurationMin: domain.IntPtr(-60)},
	}

	for _, draft := range drafts {
		options := s.Search(draft, domain.DefaultPreferences(testTZ), nil, testTZ)
		if len(options) == 0 {
			t.Fatalf("expected options for %+v", draft)
		}
		for _, option := range options {
			if option.DurationMin == nil || *option.DurationMin < 0 {
				t.Errorf("duration = %v, want non-negative", option.DurationMin)
			}
			if option.Start == "" {
				continue
			}
			start, _ := window.ParseInLocation(option.Start, loc)
			due, _ := window.ParseInLocation(option.Due, loc)
			if due.Before(start) {
				t.Errorf("option due %s before start %s", option.Due, option.Start)
			}
		}
	}
}
