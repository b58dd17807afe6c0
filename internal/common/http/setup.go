package http

import (
	"net/http"

	"github.com/deep-thoughts/backend/internal/common/httpmetrics"
	"github.com/deep-thoughts/backend/internal/common/logger"
)

// BuildBaseHandler layers the ambient middleware every request passes
// through: trace ids, recovery, request size cap, metrics. Trace ids come
// first so the recovery envelope carries one too.
func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(DefaultMaxRequestSize)

	return TraceIDMiddleware(recovery(maxRequestSize(httpmetrics.Wrap(handler))))
}
