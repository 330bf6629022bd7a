package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/primind-task-scheduling/internal/clock"
	"github.com/KasumiMercury/primind-task-scheduling/internal/domain"
)

func TestHandleCreateTask(t *testing.T) {
	now := time.Date(2024, 5, 20, 1, 0, 0, 0, time.UTC)
	prefs := domain.DefaultPreferences(testTZ)

	tests := []struct {
		name       string
		request    CreateTaskRequest
		prefsErr   error
		wantPolicy []domain.RemindPolicyEntry
		wantFlex   domain.Flexibility
		loadsPrefs bool
		wantStatus domain.Status
	}{
		{
			name:       "empty policy takes default reminder",
			request:    CreateTaskRequest{Title: "Write report", Due: "2024-05-20T17:00:00"},
			wantPolicy: []domain.RemindPolicyEntry{prefs.DefaultReminder},
			wantFlex:   domain.DefaultFlexibility,
			loadsPrefs: true,
			wantStatus: domain.StatusTodo,
		},
		{
			name: "explicit policy is kept",
			request: CreateTaskRequest{
				Title:        "Call",
				Status:       "DOING",
				Start:        "2024-05-20T11:00:00",
				Flexibility:  "strict",
				RemindPolicy: []domain.RemindPolicyEntry{{OffsetMin: 5, Mode: domain.ReminderModeSilent}},
			},
			wantPolicy: []domain.RemindPolicyEntry{{OffsetMin: 5, Mode: domain.ReminderModeSilent}},
			wantFlex:   domain.FlexibilityStrict,
			wantStatus: domain.StatusDoing,
		},
		{
			name:       "missing preferences leaves policy empty",
			request:    CreateTaskRequest{Title: "Read"},
			prefsErr:   domain.ErrPreferencesNotFound,
			wantPolicy: nil,
			wantFlex:   domain.DefaultFlexibility,
			loadsPrefs: true,
			wantStatus: domain.StatusTodo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			taskRepo := domain.NewMockTaskRepository(ctrl)
			prefsRepo := domain.NewMockPreferencesRepository(ctrl)

			if tt.loadsPrefs {
				if tt.prefsErr != nil {
					prefsRepo.EXPECT().GetPreferences(gomock.Any()).Return(nil, tt.prefsErr)
				} else {
					prefsRepo.EXPECT().GetPreferences(gomock.Any()).Return(prefs, nil)
				}
			}

			var saved *domain.Task
			taskRepo.EXPECT().
				SaveTask(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, task *domain.Task) error {
					saved = task
					return nil
				})

			h := NewTaskHandler(taskRepo, prefsRepo, clock.NewFake(now))
			router := newTestRouter()
			router.POST("/tasks", h.HandleCreate)

			w := doJSON(t, router, http.MethodPost, "/tasks", tt.request)
			assertStatus(t, w, http.StatusCreated)

			if saved == nil {
				t.Fatal("expected task to be saved")
			}
			if saved.ID == "" {
				t.Error("expected generated id")
			}
			if !saved.CreatedAt.Equal(now) {
				t.Errorf("expected created_at %v, got %v", now, saved.CreatedAt)
			}
			if saved.Status != tt.wantStatus {
				t.Errorf("expected status %s, got %s", tt.wantStatus, saved.Status)
			}
			if saved.Flexibility != tt.wantFlex {
				t.Errorf("expected flexibility %s, got %s", tt.wantFlex, saved.Flexibility)
			}
			if len(saved.RemindPolicy) != len(tt.wantPolicy) {
				t.Fatalf("expected policy %v, got %v", tt.wantPolicy, saved.RemindPolicy)
			}
			for i := range tt.wantPolicy {
				if saved.RemindPolicy[i] != tt.wantPolicy[i] {
					t.Errorf("policy[%d]: expected %v, got %v", i, tt.wantPolicy[i], saved.RemindPolicy[i])
				}
			}

			resp := decode[domain.Task](t, w)
			if resp.ID != saved.ID {
				t.Errorf("expected response id %q, got %q", saved.ID, resp.ID)
			}
		})
	}
}

func TestHandleCreateTask_Validation(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{name: "missing title", body: CreateTaskRequest{Due: "2024-05-20T17:00:00"}},
		{name: "unknown status", body: CreateTaskRequest{Title: "x", Status: "BLOCKED"}},
		{name: "unknown flexibility", body: CreateTaskRequest{Title: "x", Flexibility: "loose"}},
		{name: "negative duration", body: CreateTaskRequest{Title: "x", DurationMin: domain.IntPtr(-5)}},
		{
			name: "negative offset",
			body: CreateTaskRequest{Title: "x", RemindPolicy: []domain.RemindPolicyEntry{{OffsetMin: -1, Mode: domain.ReminderModePopup}}},
		},
		{
			name: "unknown mode",
			body: CreateTaskRequest{Title: "x", RemindPolicy: []domain.RemindPolicyEntry{{OffsetMin: 1, Mode: "loud"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			h := NewTaskHandler(domain.NewMockTaskRepository(ctrl), domain.NewMockPreferencesRepository(ctrl), nil)
			router := newTestRouter()
			router.POST("/tasks", h.HandleCreate)

			w := doJSON(t, router, http.MethodPost, "/tasks", tt.body)
			assertStatus(t, w, http.StatusBadRequest)
		})
	}
}

func TestHandleGetTask(t *testing.T) {
	tests := []struct {
		name       string
		task       *domain.Task
		err        error
		wantStatus int
	}{
		{name: "found", task: &domain.Task{ID: "t1", Title: "Plan"}, wantStatus: http.StatusOK},
		{name: "not found", err: domain.ErrTaskNotFound, wantStatus: http.StatusNotFound},
		{name: "store error", err: errors.New("locked"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			taskRepo := domain.NewMockTaskRepository(ctrl)
			taskRepo.EXPECT().GetTask(gomock.Any(), "t1").Return(tt.task, tt.err)

			h := NewTaskHandler(taskRepo, domain.NewMockPreferencesRepository(ctrl), nil)
			router := newTestRouter()
			router.GET("/tasks/:id", h.HandleGet)

			w := doJSON(t, router, http.MethodGet, "/tasks/t1", nil)
			assertStatus(t, w, tt.wantStatus)
		})
	}
}

func TestHandleListTasks(t *testing.T) {
	ctrl := gomock.NewController(t)
	taskRepo := domain.NewMockTaskRepository(ctrl)
	taskRepo.EXPECT().ListTasks(gomock.Any()).Return([]domain.Task{
		{ID: "a", Title: "first"},
		{ID: "b", Title: "second"},
	}, nil)

	h := NewTaskHandler(taskRepo, domain.NewMockPreferencesRepository(ctrl), nil)
	router := newTestRouter()
	router.GET("/tasks", h.HandleList)

	w := doJSON(t, router, http.MethodGet, "/tasks", nil)
	assertStatus(t, w, http.StatusOK)

	resp := decode[TaskListResponse](t, w)
	if len(resp.Tasks) != 2 || resp.Tasks[0].ID != "a" || resp.Tasks[1].ID != "b" {
		t.Errorf("expected tasks in store order, got %+v", resp.Tasks)
	}
}
