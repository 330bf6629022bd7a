package health

import (
	"context"
	"net/http"
	"time"

	"connectrpc.com/grpchealth"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Status represents the health status of a service or dependency.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// CheckResult represents the health check result for a single dependency.
type CheckResult struct {
	Status    Status `json:"status"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
	Error     string `json:"error,omitempty"`
}

// HealthStatus represents the overall health status of the service.
type HealthStatus struct {
	Status  Status                 `json:"status"`
	Version string                 `json:"version,omitempty"`
	Checks  map[string]CheckResult `json:"checks,omitempty"`
}

// Checker performs health checks on service dependencies.
type Checker struct {
	db          *gorm.DB
	redisClient *redis.Client
	version     string
}

// NewChecker creates a new health checker. A nil redis client means the
// dedup ledger does not live in redis and the check is skipped.
func NewChecker(db *gorm.DB, redisClient *redis.Client, version string) *Checker {
	return &Checker{
		db:          db,
		redisClient: redisClient,
		version:     version,
	}
}

// Check performs health checks on all dependencies and returns the overall status.
func (c *Checker) Check(ctx context.Context) *HealthStatus {
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	status := &HealthStatus{
		Status:  StatusHealthy,
		Version: c.version,
		Checks:  make(map[string]CheckResult),
	}

	if c.db != nil {
		c.record(status, "database", func() error {
			sqlDB, err := c.db.DB()
			if err != nil {
				return err
			}

			return sqlDB.PingContext(checkCtx)
		})
	}

	if c.redisClient != nil {
		c.record(status, "redis", func() error {
			return c.redisClient.Ping(checkCtx).Err()
		})
	}

	return status
}

func (c *Checker) record(status *HealthStatus, name string, ping func() error) {
	start := time.Now()
	if err := ping(); err != nil {
		status.Status = StatusUnhealthy
		status.Checks[name] = CheckResult{
			Status: StatusUnhealthy,
			Error:  err.Error(),
		}

		return
	}

	status.Checks[name] = CheckResult{
		Status:    StatusHealthy,
		LatencyMs: time.Since(start).Milliseconds(),
	}
}

// LiveHandler returns a Gin handler for liveness probes.
func (c *Checker) LiveHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// ReadyHandler returns a Gin handler for readiness probes.
func (c *Checker) ReadyHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := c.Check(ctx.Request.Context())

		httpStatus := http.StatusOK
		if status.Status != StatusHealthy {
			httpStatus = http.StatusServiceUnavailable
		}

		ctx.JSON(httpStatus, status)
	}
}

// GRPCChecker adapts the dependency checks to the gRPC health protocol.
func (c *Checker) GRPCChecker() grpchealth.Checker {
	return grpcChecker{checker: c}
}

type grpcChecker struct {
	checker *Checker
}

func (g grpcChecker) Check(ctx context.Context, _ *grpchealth.CheckRequest) (*grpchealth.CheckResponse, error) {
	if g.checker.Check(ctx).Status != StatusHealthy {
		return &grpchealth.CheckResponse{Status: grpchealth.StatusNotServing}, nil
	}

	return &grpchealth.CheckResponse{Status: grpchealth.StatusServing}, nil
}
