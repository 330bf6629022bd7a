package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/grpchealth"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/KasumiMercury/primind-task-scheduling/internal/clock"
	"github.com/KasumiMercury/primind-task-scheduling/internal/handler"
	"github.com/KasumiMercury/primind-task-scheduling/internal/health"
	"github.com/KasumiMercury/primind-task-scheduling/internal/observability/logging"
	"github.com/KasumiMercury/primind-task-scheduling/internal/observability/metrics"
	"github.com/KasumiMercury/primind-task-scheduling/internal/observability/middleware"
	"github.com/KasumiMercury/primind-task-scheduling/internal/scheduler"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and run the periodic reminder scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	a, err := newApp(ctx)
	defer a.Close()
	if err != nil {
		return err
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP metrics: %w", err)
	}

	clk := clock.New()
	sched := scheduler.New(a.reminderService,
		scheduler.WithClock(clk),
		scheduler.WithPeriod(a.cfg.Reminder.SweepInterval),
		scheduler.WithMetrics(a.sweepMetrics),
	)

	scheduleHandler := handler.NewScheduleHandler(a.detector, a.searcher, a.taskRepo, a.prefsRepo, a.sweepMetrics)
	reminderHandler := handler.NewReminderHandler(sched, clk)
	taskHandler := handler.NewTaskHandler(a.taskRepo, a.prefsRepo, clk)
	preferencesHandler := handler.NewPreferencesHandler(a.prefsRepo)

	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:  []string{"/health", "/health/live", "/health/ready", "/metrics"},
		Module:     logging.Module("task-scheduling"),
		Worker:     true,
		TracerName: "github.com/KasumiMercury/primind-task-scheduling/internal/observability/middleware",
		JobNameResolver: func(c *gin.Context) string {
			if c.FullPath() == "/api/v1/reminders/sweep" {
				return "reminder-sweep"
			}
			return ""
		},
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	healthChecker := health.NewChecker(a.db, a.redisClient, Version)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	v1 := r.Group("/api/v1")
	{
		v1.POST("/conflicts", scheduleHandler.HandleConflicts)
		v1.POST("/adjustments", scheduleHandler.HandleAdjustments)
		v1.POST("/reminders/sweep", reminderHandler.HandleSweep)
		v1.GET("/tasks", taskHandler.HandleList)
		v1.POST("/tasks", taskHandler.HandleCreate)
		v1.GET("/tasks/:id", taskHandler.HandleGet)
		v1.GET("/preferences", preferencesHandler.HandleGet)
		v1.PUT("/preferences", preferencesHandler.HandlePut)
	}

	mux := http.NewServeMux()
	mux.Handle(grpchealth.NewHandler(healthChecker.GRPCChecker()))
	mux.Handle("/", r)

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           h2c.NewHandler(mux, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sched.Start(ctx)
	defer sched.Stop()

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", a.cfg.Port),
			slog.String("timezone", a.cfg.Timezone),
			slog.Duration("sweep_interval", a.cfg.Reminder.SweepInterval),
			slog.String("ledger_backend", string(a.cfg.Ledger.Backend)),
		)
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()
		sched.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}

		slog.Info("server exited properly")
		return nil

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server exited with error: %w", err)
	}
}
