package http

import (
	"errors"

	"github.com/openpress/warden/core"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// loginAttempts counts login outcomes by result.
	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warden_login_attempts_total",
		Help: "Total number of login attempts by result",
	}, []string{"result"})

	// authzDecisions counts gate verdicts on protected operations.
	authzDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "warden_authz_decisions_total",
		Help: "Total number of authorization decisions",
	}, []string{"decision"})

	// sessionAnomalies counts sessions destroyed by the fingerprint guard.
	sessionAnomalies = promauto.NewCounter(prometheus.CounterOpts{
		Name: "warden_session_anomalies_total",
		Help: "Total number of sessions destroyed on fingerprint mismatch",
	})
)

func recordLogin(result string) {
	loginAttempts.WithLabelValues(result).Inc()
}

func recordAuthz(decision string) {
	authzDecisions.WithLabelValues(decision).Inc()
}

func recordAnomaly() {
	sessionAnomalies.Inc()
}

// loginResult maps a login error to its metric label. Challenge failures
// collapse into one label the way they collapse into one response.
func loginResult(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, core.ErrChallengeInvalid),
		errors.Is(err, core.ErrChallengeExpired),
		errors.Is(err, core.ErrChallengeIncorrect):
		return "challenge_failed"
	case errors.Is(err, core.ErrInvalidCredentials):
		return "invalid_credentials"
	default:
		return "error"
	}
}
