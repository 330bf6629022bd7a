package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/KasumiMercury/primind-task-scheduling/internal/config"
	"github.com/KasumiMercury/primind-task-scheduling/internal/domain"
	"github.com/KasumiMercury/primind-task-scheduling/internal/infra/notifier"
	"github.com/KasumiMercury/primind-task-scheduling/internal/infra/repository"
	"github.com/KasumiMercury/primind-task-scheduling/internal/infra/sweeprecorder"
	"github.com/KasumiMercury/primind-task-scheduling/internal/observability"
	"github.com/KasumiMercury/primind-task-scheduling/internal/observability/metrics"
	"github.com/KasumiMercury/primind-task-scheduling/internal/service/adjust"
	"github.com/KasumiMercury/primind-task-scheduling/internal/service/conflict"
	"github.com/KasumiMercury/primind-task-scheduling/internal/service/reminder"
)

// app holds the wiring shared by every subcommand.
type app struct {
	cfg *config.Config
	obs *observability.Resources

	db          *gorm.DB
	redisClient *redis.Client

	taskRepo  domain.TaskRepository
	prefsRepo domain.PreferencesRepository

	detector        *conflict.Detector
	searcher        *adjust.Searcher
	sweepMetrics    *metrics.SweepMetrics
	reminderService *reminder.Service

	closers []func() error
}

// newApp loads configuration, opens stores and builds the services. Close must be called
// even when an error is returned.
func newApp(ctx context.Context) (*app, error) {
	a := &app{}

	cfg, err := config.Load()
	if err != nil {
		return a, fmt.Errorf("failed to load configuration: %w", err)
	}
	a.cfg = cfg

	obs, err := initObservability(ctx, cfg.LogLevel)
	if err != nil {
		return a, fmt.Errorf("failed to initialize observability: %w", err)
	}
	a.obs = obs
	slog.SetDefault(obs.Logger())

	if err := config.ValidateForRun(cfg); err != nil {
		return a, fmt.Errorf("configuration validation error: %w", err)
	}

	db, err := repository.OpenDatabase(cfg.Store.DatabasePath)
	if err != nil {
		return a, err
	}
	a.db = db
	a.closers = append(a.closers, func() error { return repository.CloseDatabase(db) })

	slog.Info("database opened", slog.String("path", cfg.Store.DatabasePath))

	a.taskRepo = repository.NewTaskRepository(db)
	a.prefsRepo = repository.NewPreferencesRepository(db)

	seed, err := repository.LoadPreferencesSeed(cfg.Store.PreferencesFile, cfg.Timezone)
	if err != nil {
		return a, err
	}
	if err := repository.EnsureDefaultPreferences(ctx, a.prefsRepo, seed); err != nil {
		return a, err
	}

	sweepMetrics, err := metrics.NewSweepMetrics()
	if err != nil {
		return a, fmt.Errorf("failed to initialize sweep metrics: %w", err)
	}
	a.sweepMetrics = sweepMetrics

	a.detector = conflict.NewDetector(
		conflict.WithOverlapMode(conflict.OverlapMode(cfg.Conflict.OverlapMode)),
		conflict.WithDefaultTimezone(cfg.Timezone),
	)
	a.searcher = adjust.NewSearcher(a.detector)

	ledger, err := a.newLedger(ctx)
	if err != nil {
		return a, err
	}

	reminderNotifier, err := a.newNotifier(ctx)
	if err != nil {
		return a, err
	}

	recorder, err := sweeprecorder.NewRecorder(ctx, sweeprecorder.LoadConfig())
	if err != nil {
		return a, fmt.Errorf("failed to initialize sweep result recorder: %w", err)
	}
	a.closers = append(a.closers, recorder.Close)

	a.reminderService = reminder.NewService(
		a.taskRepo,
		a.prefsRepo,
		ledger,
		reminderNotifier,
		reminder.NewGenerator(
			reminder.WithStaleAfter(cfg.Reminder.StaleAfter),
			reminder.WithSkipDone(cfg.Reminder.SkipDone),
		),
		sweepMetrics,
		recorder,
		reminder.WithDefaultTimezone(cfg.Timezone),
	)

	return a, nil
}

func (a *app) newLedger(ctx context.Context) (domain.DedupLedger, error) {
	switch a.cfg.Ledger.Backend {
	case config.LedgerBackendRedis:
		client, err := a.connectRedis(ctx)
		if err != nil {
			return nil, err
		}
		slog.Info("dedup ledger initialized", slog.String("backend", "redis"))
		return repository.NewRedisLedger(client, a.cfg.Ledger.TTL), nil
	case config.LedgerBackendMemory:
		slog.Warn("dedup ledger is in memory, sent reminders are forgotten on restart")
		return repository.NewMemoryLedger(), nil
	case config.LedgerBackendSQL:
		slog.Info("dedup ledger initialized", slog.String("backend", "sql"))
		return repository.NewSQLLedger(a.db), nil
	default:
		return nil, config.ErrInvalidLedgerBackend
	}
}

func (a *app) connectRedis(ctx context.Context) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	}
	if a.cfg.Redis.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client := redis.NewClient(opts)
	a.closers = append(a.closers, client.Close)

	if err := redisotel.InstrumentTracing(client); err != nil {
		slog.Error("failed to instrument redis tracing",
			slog.String("event", "redis.otel.tracing.fail"),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	if err := redisotel.InstrumentMetrics(client); err != nil {
		slog.Error("failed to instrument redis metrics",
			slog.String("event", "redis.otel.metrics.fail"),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	if err := client.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis",
			slog.String("event", "redis.connect.fail"),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	slog.Info("redis connected", slog.String("addr", a.cfg.Redis.Addr))

	a.redisClient = client
	return client, nil
}

func (a *app) newNotifier(ctx context.Context) (domain.Notifier, error) {
	if err := a.cfg.TaskQueue.Validate(); err != nil {
		return nil, fmt.Errorf("task queue configuration error: %w", err)
	}

	if !a.cfg.TaskQueue.Enabled() {
		slog.Info("no task queue configured, reminders are written to the log")
		return notifier.NewLogNotifier(slog.Default()), nil
	}

	queue, cleanup, err := initTaskQueue(ctx, a.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize task queue: %w", err)
	}
	if cleanup != nil {
		a.closers = append(a.closers, cleanup)
	}

	return notifier.NewQueueNotifier(queue), nil
}

// Close releases resources in reverse order of acquisition and flushes telemetry last.
func (a *app) Close() {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		slog.Warn("failed to release resources", slog.String("error", err.Error()))
	}

	if a.obs != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}
}
