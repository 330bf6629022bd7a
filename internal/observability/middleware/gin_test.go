package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-task-scheduling/internal/observability/logging"
)

func newTestRouter(cfg GinConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Gin(cfg), PanicRecoveryGin())

	return router
}

func TestGinRequestID(t *testing.T) {
	router := newTestRouter(GinConfig{Module: logging.Module("api")})

	var seen string
	router.GET("/ping", func(c *gin.Context) {
		seen = logging.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "incoming id is propagated", incoming: "req-123", keep: true},
		{name: "missing id is generated", incoming: "", keep: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if seen == "" {
				t.Fatal("expected request id in context")
			}
			if tt.keep && seen != tt.incoming {
				t.Errorf("expected %q, got %q", tt.incoming, seen)
			}
			if got := w.Header().Get(RequestIDHeader); got != seen {
				t.Errorf("expected response header %q, got %q", seen, got)
			}
		})
	}
}

func TestGinJobName(t *testing.T) {
	router := newTestRouter(GinConfig{
		Worker: true,
		JobNameResolver: func(*gin.Context) string {
			return "reminder-sweep"
		},
	})

	var job string
	router.POST("/sweep", func(c *gin.Context) {
		job = logging.JobNameFromContext(c.Request.Context())
		c.Status(http.StatusAccepted)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/sweep", nil))

	if job != "reminder-sweep" {
		t.Errorf("expected job name, got %q", job)
	}
}

func TestPanicRecoveryGin(t *testing.T) {
	router := newTestRouter(GinConfig{})
	router.GET("/boom", func(*gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}
