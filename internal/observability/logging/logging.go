package logging

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

type Environment string

const (
	EnvDev  Environment = "dev"
	EnvProd Environment = "prod"
)

type Module string

type ServiceInfo struct {
	Name     string
	Version  string
	Revision string
}

type contextKey string

const (
	moduleKey    contextKey = "module"
	requestIDKey contextKey = "request_id"
	jobKey       contextKey = "job"
)

func WithModule(ctx context.Context, module Module) context.Context {
	return context.WithValue(ctx, moduleKey, module)
}

func ModuleFromContext(ctx context.Context) (Module, bool) {
	m, ok := ctx.Value(moduleKey).(Module)
	return m, ok
}

func WithJobName(ctx context.Context, job string) context.Context {
	return context.WithValue(ctx, jobKey, job)
}

func JobNameFromContext(ctx context.Context) string {
	job, _ := ctx.Value(jobKey).(string)
	return job
}

// ContextHandler decorates records with service identity and whatever the context carries:
// module, request id, job name and trace ids.
type ContextHandler struct {
	next          slog.Handler
	defaultModule Module
	projectID     string
}

type HandlerConfig struct {
	Writer        io.Writer
	Level         slog.Leveler
	Service       ServiceInfo
	Environment   Environment
	DefaultModule Module
	GCPProjectID  string
}

func NewHandler(cfg HandlerConfig) *ContextHandler {
	attrs := []slog.Attr{
		slog.String("service", cfg.Service.Name),
		slog.String("version", cfg.Service.Version),
		slog.String("env", string(cfg.Environment)),
	}
	if cfg.Service.Revision != "" {
		attrs = append(attrs, slog.String("revision", cfg.Service.Revision))
	}

	base := slog.NewJSONHandler(cfg.Writer, &slog.HandlerOptions{
		Level:       cfg.Level,
		ReplaceAttr: replaceAttr,
	})

	return &ContextHandler{
		next:          base.WithAttrs(attrs),
		defaultModule: cfg.DefaultModule,
		projectID:     cfg.GCPProjectID,
	}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, record slog.Record) error {
	module := h.defaultModule
	if m, ok := ModuleFromContext(ctx); ok {
		module = m
	}
	if module != "" {
		record.AddAttrs(slog.String("module", string(module)))
	}

	if requestID := RequestIDFromContext(ctx); requestID != "" {
		record.AddAttrs(slog.String("request_id", requestID))
	}
	if job := JobNameFromContext(ctx); job != "" {
		record.AddAttrs(slog.String("job", job))
	}

	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
		if attrs := gcpTraceAttrs(ctx, h.projectID); len(attrs) > 0 {
			record.AddAttrs(attrs...)
		} else {
			record.AddAttrs(
				slog.String("trace_id", spanCtx.TraceID().String()),
				slog.String("span_id", spanCtx.SpanID().String()),
			)
		}
	}

	return h.next.Handle(ctx, record)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{
		next:          h.next.WithAttrs(attrs),
		defaultModule: h.defaultModule,
		projectID:     h.projectID,
	}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{
		next:          h.next.WithGroup(name),
		defaultModule: h.defaultModule,
		projectID:     h.projectID,
	}
}

// replaceAttr renames level to severity so Cloud Logging picks it up; harmless elsewhere.
func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		a.Key = "severity"
	}
	return a
}
