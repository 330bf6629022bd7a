//go:build !gcloud

package logging

import (
	"context"
	"log/slog"
)

// gcpTraceAttrs has nothing to add locally; the handler writes plain trace_id and span_id.
func gcpTraceAttrs(_ context.Context, _ string) []slog.Attr {
	return nil
}
