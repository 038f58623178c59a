package middlewares

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// HeaderIdempotencyKey is the client-supplied deduplication header for
// booking submissions.
const HeaderIdempotencyKey = "X-Idempotency-Key"

type contextKey string

const (
	contextKeyRequestID      contextKey = "request_id"
	contextKeyIdempotencyKey contextKey = "idempotency_key"
)

// AttachRequestMetadata stores the chi request ID and the idempotency key in
// the request context. A request without the header gets a generated key, so
// downstream code can rely on one always being present; only client-supplied
// keys deduplicate retries, a generated one is unique per request by
// construction.
func AttachRequestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())
		idempotencyKey := r.Header.Get(HeaderIdempotencyKey)
		if idempotencyKey == "" {
			idempotencyKey = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), contextKeyRequestID, requestID)
		ctx = context.WithValue(ctx, contextKeyIdempotencyKey, idempotencyKey)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestID returns the request ID attached by AttachRequestMetadata, or ""
// when the middleware did not run.
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(contextKeyRequestID).(string)
	return v
}

// IdempotencyKey returns the idempotency key attached by
// AttachRequestMetadata, or "" when the middleware did not run.
func IdempotencyKey(ctx context.Context) string {
	v, _ := ctx.Value(contextKeyIdempotencyKey).(string)
	return v
}
