package http

import (
	"net/http"

	commonerrors "github.com/deep-thoughts/backend/internal/common/errors"
	"github.com/deep-thoughts/backend/internal/common/logger"
	"github.com/deep-thoughts/backend/internal/observability/metrics"
)

// HandleError maps a service error onto an HTTP response. Domain errors
// carry their own status and client message; anything else is a 500.
func HandleError(w http.ResponseWriter, r *http.Request, err error, log *logger.Logger) {
	if err == nil {
		return
	}

	ctx := r.Context()

	if domainErr, ok := commonerrors.AsDomainError(err); ok {
		metrics.DomainErrorsTotal.WithLabelValues(
			string(domainErr.Category()),
			domainErr.Code(),
		).Inc()

		if log.ShouldLog(logger.DEBUG) {
			log.WithFields(ctx, logger.Fields{
				"error_code": domainErr.Code(),
				"category":   string(domainErr.Category()),
				"status":     domainErr.HTTPStatus(),
			}).Debugf("domain error: %s", domainErr.Error())
		}

		WriteJSON(w, domainErr.HTTPStatus(), ErrorEnvelope{
			Code:    domainErr.Code(),
			Message: domainErr.Message(),
			TraceID: TraceID(ctx),
		})
		return
	}

	log.WithFields(ctx, logger.Fields{
		"error":  err.Error(),
		"action": "unhandled_error",
	}).Errorf("unhandled error: %v", err)

	WriteJSON(w, http.StatusInternalServerError, ErrorEnvelope{
		Code:    "INTERNAL",
		Message: "internal server error",
		TraceID: TraceID(ctx),
	})
}
