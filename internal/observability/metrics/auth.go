package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tokens_issued_total",
			Help: "Total number of identity tokens issued",
		},
	)

	TokenVerificationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "token_verifications_total",
			Help: "Total number of token verification attempts",
		},
	)

	TokenVerificationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_verifications_failed_total",
			Help: "Total number of failed token verifications by reason",
		},
		[]string{"reason"},
	)

	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Total number of login attempts by outcome",
		},
		[]string{"outcome"},
	)

	SignupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signups_total",
			Help: "Total number of signup attempts by outcome",
		},
		[]string{"outcome"},
	)
)
