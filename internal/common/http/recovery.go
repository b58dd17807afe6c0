package http

import (
	"net/http"
	"runtime/debug"

	"github.com/deep-thoughts/backend/internal/common/logger"
)

// RecoveryMiddleware converts a downstream panic into a logged 500 with
// the usual error envelope, so a single bad request cannot take the
// process down.
func RecoveryMiddleware(log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.WithFields(r.Context(), logger.Fields{
						"path":   r.URL.Path,
						"action": "panic_recovered",
					}).Errorf("panic: %v\n%s", rec, debug.Stack())

					WriteJSON(w, http.StatusInternalServerError, ErrorEnvelope{
						Code:    "INTERNAL",
						Message: "internal server error",
						TraceID: TraceID(r.Context()),
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
