package logging

import (
	"context"

	"github.com/google/uuid"
)

const maxRequestIDLength = 128

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// ValidateAndExtractRequestID returns the incoming id when it is usable, or a fresh uuid.
func ValidateAndExtractRequestID(raw string) string {
	if raw == "" || len(raw) > maxRequestIDLength {
		return uuid.NewString()
	}
	for _, r := range raw {
		if r < 0x21 || r > 0x7e {
			return uuid.NewString()
		}
	}
	return raw
}
