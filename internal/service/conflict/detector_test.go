package conflict

import (
	"strings"
	"testing"

	"github.com/KasumiMercury/primind-task-scheduling/internal/domain"
)

const testTZ = "Australia/Sydney"

func testPreferences() *domain.Preferences {
	return domain.DefaultPreferences(testTZ)
}

func conflictTypes(conflicts []domain.Conflict) []domain.ConflictType {
	types := make([]domain.ConflictType, 0, len(conflicts))
	for _, c := range conflicts {
		types = append(types, c.Type)
	}
	return types
}

func hasType(conflicts []domain.Conflict, want domain.ConflictType) bool {
	for _, c := range conflicts {
		if c.Type == want {
			return true
		}
	}
	return false
}

func TestDetect_NoConflict(t *testing.T) {
	d := NewDetector()

	conflicts := d.Detect(domain.Draft{
		Title:       "normal task",
		Start:       "2024-05-20T10:00:00",
		DurationMin: domain.IntPtr(60),
	}, testPreferences(), nil, testTZ)

	if len(conflicts) != 0 {
		t.Errorf("expected no conflicts, got %v", conflicts)
	}
}

func TestDetect_Unscheduled(t *testing.T) {
	d := NewDetector()

	conflicts := d.Detect(domain.Draft{Title: "someday"}, testPreferences(), nil, testTZ)
	if conflicts == nil || len(conflicts) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", conflicts)
	}
}

func TestDetect_QuietHoursWrap(t *testing.T) {
	d := NewDetector()
	prefs := testPreferences()
	prefs.QuietHours = []domain.ClockRange{{Start: "22:00", End: "07:00"}}

	tests := []struct {
		name      string
		start     string
		wantQuiet bool
	}{
		{name: "late evening", start: "2024-05-20T23:30:00", wantQuiet: true},
		{name: "early morning", start: "2024-05-21T06:00:00", wantQuiet: true},
		{name: "range start is inclusive", start: "2024-05-20T22:00:00", wantQuiet: true},
		{name: "range end is inclusive", start: "2024-05-21T07:00:00", wantQuiet: true},
		{name: "morning after quiet", start: "2024-05-21T08:00:00", wantQuiet: false},
		{name: "afternoon", start: "2024-05-21T15:00:00", wantQuiet: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conflicts := d.Detect(domain.Draft{Start: tt.start, DurationMin: domain.IntPtr(30)}, prefs, nil, testTZ)
			if got := hasType(conflicts, domain.ConflictTypeQuiet); got != tt.wantQuiet {
				t.Errorf("quiet conflict = %v, want %v (conflicts %v)", got, tt.wantQuiet, conflicts)
			}
		})
	}
}

func TestDetect_QuietHoursNonWrapping(t *testing.T) {
	d := NewDetector()
	prefs := testPreferences()
	prefs.QuietHours = []domain.ClockRange{{Start: "12:00", End: "13:00"}}

	conflicts := d.Detect(domain.Draft{Start: "2024-05-20T12:30:00", DurationMin: domain.IntPtr(15)}, prefs, nil, testTZ)
	if !hasType(conflicts, domain.ConflictTypeQuiet) {
		t.Fatalf("expected quiet conflict, got %v", conflicts)
	}
	if want := "Mon 12:30 falls in quiet hours"; conflicts[0].Detail != want {
		t.Errorf("detail = %q, want %q", conflicts[0].Detail, want)
	}

	conflicts = d.Detect(domain.Draft{Start: "2024-05-20T13:01:00", DurationMin: domain.IntPtr(15)}, prefs, nil, testTZ)
	if hasType(conflicts, domain.ConflictTypeQuiet) {
		t.Errorf("expected no quiet conflict at 13:01, got %v", conflicts)
	}
}

func TestDetect_QuietUsesDueAnchor(t *testing.T) {
	d := NewDetector()

	conflicts := d.Detect(domain.Draft{Title: "late night", Due: "2024-05-20T23:30:00"}, testPreferences(), nil, testTZ)
	if !hasType(conflicts, domain.ConflictTypeQuiet) {
		t.Errorf("expected quiet conflict, got %v", conflicts)
	}
}

func TestDetect_WorkHours(t *testing.T) {
	d := NewDetector()
	prefs := testPreferences()

	tests := []struct {
		name         string
		start        string
		wantWorktime bool
	}{
		{name: "before work on monday", start: "2024-05-20T05:00:00", wantWorktime: true},
		{name: "inside work on monday", start: "2024-05-20T09:00:00", wantWorktime: false},
		{name: "end is inclusive", start: "2024-05-20T18:00:00", wantWorktime: false},
		{name: "after work on monday", start: "2024-05-20T18:01:00", wantWorktime: true},
		{name: "sunday morning", start: "2024-05-19T10:00:00", wantWorktime: true},
		{name: "sunday afternoon", start: "2024-05-19T14:00:00", wantWorktime: true},
		{name: "saturday noon", start: "2024-05-18T12:00:00", wantWorktime: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conflicts := d.Detect(domain.Draft{Start: tt.start, DurationMin: domain.IntPtr(30)}, prefs, nil, testTZ)
			if got := hasType(conflicts, domain.ConflictTypeWorktime); got != tt.wantWorktime {
				t.Errorf("worktime conflict = %v, want %v (conflicts %v)", got, tt.wantWorktime, conflicts)
			}
		})
	}
}

func TestDetect_MissingWeekdayIsOutsideWorkHours(t *testing.T) {
	d := NewDetector()
	prefs := testPreferences()
	if _, ok := prefs.WorkHours["sunday"]; ok {
		t.Fatal("fixture must not configure sunday")
	}

	for _, hour := range []string{"00:30", "09:00", "12:00", "17:45", "23:00"} {
		conflicts := d.Detect(domain.Draft{Start: "2024-05-19T" + hour + ":00", DurationMin: domain.IntPtr(10)}, prefs, nil, testTZ)
		if !hasType(conflicts, domain.ConflictTypeWorktime) {
			t.Errorf("sunday %s: expected worktime conflict, got %v", hour, conflicts)
		}
	}
}

func TestDetect_OverlapFirstMatch(t *testing.T) {
	d := NewDetector()
	existing := []domain.Task{
		{ID: "a", Title: "Task A", Status: domain.StatusTodo, Start: "2024-05-20T10:00:00", Due: "2024-05-20T11:00:00"},
		{ID: "b", Title: "Task B", Status: domain.StatusTodo, Start: "2024-05-20T10:30:00", Due: "2024-05-20T11:30:00"},
	}

	conflicts := d.Detect(domain.Draft{
		Title: "draft",
		Start: "2024-05-20T10:15:00",
		Due:   "2024-05-20T10:45:00",
	}, testPreferences(), existing, testTZ)

	var overlaps []domain.Conflict
	for _, c := range conflicts {
		if c.Type == domain.ConflictTypeOverlap {
			overlaps = append(overlaps, c)
		}
	}
	if len(overlaps) != 1 {
		t.Fatalf("expected exactly one overlap conflict, got %v", conflicts)
	}
	if !strings.Contains(overlaps[0].Detail, "Task A") {
		t.Errorf("overlap should reference Task A, got %q", overlaps[0].Detail)
	}
	if want := `overlaps "Task A" (Mon 10:00-11:00)`; overlaps[0].Detail != want {
		t.Errorf("detail = %q, want %q", overlaps[0].Detail, want)
	}
}

func TestDetect_OverlapAllMode(t *testing.T) {
	d := NewDetector(WithOverlapMode(OverlapModeAll))
	existing := []domain.Task{
		{ID: "a", Title: "Task A", Status: domain.StatusTodo, Start: "2024-05-20T10:00:00", Due: "2024-05-20T11:00:00"},
		{ID: "b", Title: "Task B", Status: domain.StatusDoing, Start: "2024-05-20T10:30:00", Due: "2024-05-20T11:30:00"},
	}

	conflicts := d.Detect(domain.Draft{Start: "2024-05-20T10:15:00", Due: "2024-05-20T10:45:00"}, testPreferences(), existing, testTZ)

	got := conflictTypes(conflicts)
	if len(got) != 2 || got[0] != domain.ConflictTypeOverlap || got[1] != domain.ConflictTypeOverlap {
		t.Errorf("expected two overlap conflicts, got %v", conflicts)
	}
}

func TestDetect_OverlapSkipsDoneAndUnscheduled(t *testing.T) {
	d := NewDetector()
	existing := []domain.Task{
		{ID: "done", Title: "Finished", Status: domain.StatusDone, Start: "2024-05-20T14:00:00", DurationMin: domain.IntPtr(60)},
		{ID: "undated", Title: "Someday", Status: domain.StatusTodo},
		{ID: "bad", Title: "Broken", Status: domain.StatusTodo, Start: "not-a-date", DurationMin: domain.IntPtr(60)},
		{ID: "later", Title: "Later", Status: domain.StatusTodo, Start: "2024-05-20T15:15:00", DurationMin: domain.IntPtr(30)},
	}

	conflicts := d.Detect(domain.Draft{Start: "2024-05-20T14:30:00", DurationMin: domain.IntPtr(45)}, testPreferences(), existing, testTZ)
	if len(conflicts) != 0 {
		t.Errorf("expected no conflicts, got %v", conflicts)
	}
}

func TestDetect_OverlapWithDurationTask(t *testing.T) {
	d := NewDetector()
	existing := []domain.Task{
		{ID: "x", Title: "Existing", Status: domain.StatusTodo, Start: "2024-05-20T14:00:00", DurationMin: domain.IntPtr(60)},
	}

	conflicts := d.Detect(domain.Draft{Start: "2024-05-20T14:30:00", DurationMin: domain.IntPtr(45)}, testPreferences(), existing, testTZ)
	if !hasType(conflicts, domain.ConflictTypeOverlap) {
		t.Errorf("expected overlap conflict, got %v", conflicts)
	}
}

func TestDetect_TimezoneResolution(t *testing.T) {
	d := NewDetector(WithDefaultTimezone("UTC"))
	prefs := testPreferences()

	// 00:30 UTC on a Monday is 10:30 in Sydney.
	draft := domain.Draft{Start: "2024-05-20T00:30:00Z", DurationMin: domain.IntPtr(30)}

	if conflicts := d.Detect(draft, prefs, nil, ""); len(conflicts) != 0 {
		t.Errorf("preferences timezone: expected no conflicts, got %v", conflicts)
	}
	if conflicts := d.Detect(draft, prefs, nil, "UTC"); !hasType(conflicts, domain.ConflictTypeQuiet) {
		t.Errorf("explicit UTC: expected quiet conflict, got %v", conflicts)
	}
}
