package handler

import (
	"errors"
	"net/http"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/primind-task-scheduling/internal/domain"
	"github.com/KasumiMercury/primind-task-scheduling/internal/service/adjust"
	"github.com/KasumiMercury/primind-task-scheduling/internal/service/conflict"
)

func setupScheduleHandler(t *testing.T, tasks []domain.Task) *ScheduleHandler {
	t.Helper()

	ctrl := gomock.NewController(t)
	taskRepo := domain.NewMockTaskRepository(ctrl)
	prefsRepo := domain.NewMockPreferencesRepository(ctrl)

	detector := conflict.NewDetector(conflict.WithDefaultTimezone(testTZ))
	h := NewScheduleHandler(detector, adjust.NewSearcher(detector), taskRepo, prefsRepo, nil)

	prefsRepo.EXPECT().GetPreferences(gomock.Any()).Return(domain.DefaultPreferences(testTZ), nil).AnyTimes()
	taskRepo.EXPECT().ListTasks(gomock.Any()).Return(tasks, nil).AnyTimes()

	return h
}

func meetingTask() domain.Task {
	return domain.Task{
		ID:          "meeting",
		Title:       "Standup",
		Status:      domain.StatusTodo,
		Start:       "2024-05-20T10:00:00",
		DurationMin: domain.IntPtr(30),
	}
}

func conflictTypeList(conflicts []domain.Conflict) []domain.ConflictType {
	types := make([]domain.ConflictType, 0, len(conflicts))
	for _, c := range conflicts {
		types = append(types, c.Type)
	}
	return types
}

func TestHandleConflicts(t *testing.T) {
	tests := []struct {
		name    string
		request ScheduleCheckRequest
		want    []domain.ConflictType
	}{
		{
			name: "free slot inside work hours",
			request: ScheduleCheckRequest{
				Draft: domain.Draft{Start: "2024-05-20T14:00:00", DurationMin: domain.IntPtr(30)},
			},
			want: []domain.ConflictType{},
		},
		{
			name: "late night draft hits quiet and work hours",
			request: ScheduleCheckRequest{
				Draft: domain.Draft{Start: "2024-05-20T23:00:00", DurationMin: domain.IntPtr(30)},
			},
			want: []domain.ConflictType{domain.ConflictTypeQuiet, domain.ConflictTypeWorktime},
		},
		{
			name: "overlap with existing task",
			request: ScheduleCheckRequest{
				Draft: domain.Draft{Start: "2024-05-20T10:15:00", DurationMin: domain.IntPtr(30)},
			},
			want: []domain.ConflictType{domain.ConflictTypeOverlap},
		},
		{
			name: "edited task is not compared with itself",
			request: ScheduleCheckRequest{
				Draft:  domain.Draft{Start: "2024-05-20T10:15:00", DurationMin: domain.IntPtr(30)},
				TaskID: "meeting",
			},
			want: []domain.ConflictType{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := setupScheduleHandler(t, []domain.Task{meetingTask()})
			router := newTestRouter()
			router.POST("/conflicts", h.HandleConflicts)

			w := doJSON(t, router, http.MethodPost, "/conflicts", tt.request)
			assertStatus(t, w, http.StatusOK)

			resp := decode[ConflictsResponse](t, w)
			got := conflictTypeList(resp.Conflicts)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("conflict[%d]: expected %s, got %s", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestHandleConflicts_InvalidRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	detector := conflict.NewDetector()
	h := NewScheduleHandler(detector, adjust.NewSearcher(detector),
		domain.NewMockTaskRepository(ctrl), domain.NewMockPreferencesRepository(ctrl), nil)

	router := newTestRouter()
	router.POST("/conflicts", h.HandleConflicts)

	tests := []struct {
		name string
		body any
	}{
		{name: "malformed json", body: "{"},
		{name: "unknown flexibility", body: ScheduleCheckRequest{Draft: domain.Draft{Start: "2024-05-20T10:00:00", Flexibility: "±1d"}}},
		{name: "negative duration", body: ScheduleCheckRequest{Draft: domain.Draft{Due: "2024-05-20T10:00:00", DurationMin: domain.IntPtr(-60)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/conflicts", tt.body)
			assertStatus(t, w, http.StatusBadRequest)

			resp := decode[ErrorResponse](t, w)
			if resp.Error != errTypeValidation {
				t.Errorf("expected validation error, got %q", resp.Error)
			}
		})
	}
}

func TestHandleConflicts_PreferencesError(t *testing.T) {
	ctrl := gomock.NewController(t)
	prefsRepo := domain.NewMockPreferencesRepository(ctrl)
	prefsRepo.EXPECT().GetPreferences(gomock.Any()).Return(nil, errors.New("disk gone"))

	detector := conflict.NewDetector()
	h := NewScheduleHandler(detector, adjust.NewSearcher(detector), domain.NewMockTaskRepository(ctrl), prefsRepo, nil)

	router := newTestRouter()
	router.POST("/conflicts", h.HandleConflicts)

	w := doJSON(t, router, http.MethodPost, "/conflicts", ScheduleCheckRequest{
		Draft: domain.Draft{Start: "2024-05-20T10:00:00"},
	})
	assertStatus(t, w, http.StatusInternalServerError)
}

func TestHandleAdjustments(t *testing.T) {
	h := setupScheduleHandler(t, []domain.Task{meetingTask()})
	router := newTestRouter()
	router.POST("/adjustments", h.HandleAdjustments)

	w := doJSON(t, router, http.MethodPost, "/adjustments", ScheduleCheckRequest{
		Draft: domain.Draft{
			Start:       "2024-05-20T10:00:00",
			DurationMin: domain.IntPtr(30),
			Flexibility: domain.Flexibility30m,
		},
	})
	assertStatus(t, w, http.StatusOK)

	resp := decode[AdjustmentsResponse](t, w)
	if got := conflictTypeList(resp.Conflicts); len(got) != 1 || got[0] != domain.ConflictTypeOverlap {
		t.Errorf("expected a single overlap conflict, got %v", got)
	}
	if len(resp.Options) == 0 {
		t.Fatal("expected adjustment options")
	}
	if resp.Options[0].Start != "2024-05-20T10:30:00+10:00" {
		t.Errorf("expected first option to postpone by 30 minutes, got %q", resp.Options[0].Start)
	}
	for i, option := range resp.Options {
		if option.Rationale == "" {
			t.Errorf("option[%d] has no rationale", i)
		}
	}
}

func TestHandleAdjustments_NoAnchor(t *testing.T) {
	h := setupScheduleHandler(t, nil)
	router := newTestRouter()
	router.POST("/adjustments", h.HandleAdjustments)

	w := doJSON(t, router, http.MethodPost, "/adjustments", ScheduleCheckRequest{
		Draft: domain.Draft{Title: "someday"},
	})
	assertStatus(t, w, http.StatusOK)

	resp := decode[AdjustmentsResponse](t, w)
	if len(resp.Options) != 0 || len(resp.Conflicts) != 0 {
		t.Errorf("expected empty result for unscheduled draft, got %+v", resp)
	}
}
