package http

import (
	"net/http"

	"github.com/deep-thoughts/backend/internal/common/logger"
)

// HealthHandler answers liveness probes. It reports process health only;
// database reachability shows up in the pool metrics instead.
func HealthHandler(log *logger.Logger) http.HandlerFunc {
	return RequireMethod(http.MethodGet)(func(w http.ResponseWriter, r *http.Request) {
		log.Debugf("health check from %s", r.RemoteAddr)
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}
