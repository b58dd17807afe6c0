package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const traceIDKey contextKey = "trace_id"

// TraceIDHeader carries the trace id in both directions: a client may
// supply one, and every response echoes the id that was used.
const TraceIDHeader = "X-Trace-ID"

// TraceIDMiddleware makes sure every request has a trace id before
// anything downstream logs or fails. The same id lands in the response
// header and in the trace_id field of error envelopes.
func TraceIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		w.Header().Set(TraceIDHeader, traceID)

		ctx := context.WithValue(r.Context(), traceIDKey, traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// TraceID returns the request's trace id, or "" outside the middleware.
func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceIDKey).(string)
	return id
}
