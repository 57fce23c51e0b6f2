package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/openpress/warden/core"
)

// errorBody is the structured error every handler returns. No internal
// detail crosses this boundary.
type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// The three challenge failures share one user-visible message so a caller
// cannot tell which check tripped. The two credential failures are merged
// into one message for the same reason.
func mapError(err error) (int, errorBody) {
	switch {
	case errors.Is(err, core.ErrInvalidRequest):
		return http.StatusBadRequest, errorBody{Code: http.StatusBadRequest, Message: "invalid request"}
	case errors.Is(err, core.ErrChallengeInvalid),
		errors.Is(err, core.ErrChallengeExpired),
		errors.Is(err, core.ErrChallengeIncorrect):
		return http.StatusBadRequest, errorBody{Code: http.StatusBadRequest, Message: "captcha invalid or expired"}
	case errors.Is(err, core.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorBody{Code: http.StatusUnauthorized, Message: "invalid username or password"}
	case errors.Is(err, core.ErrUnauthenticated):
		return http.StatusUnauthorized, errorBody{Code: http.StatusUnauthorized, Message: "authentication required"}
	case errors.Is(err, core.ErrSessionAnomaly):
		return http.StatusUnauthorized, errorBody{Code: http.StatusUnauthorized, Message: "session anomaly, please re-authenticate"}
	case errors.Is(err, core.ErrForbidden):
		return http.StatusForbidden, errorBody{Code: http.StatusForbidden, Message: "permission denied"}
	default:
		return http.StatusInternalServerError, errorBody{Code: http.StatusInternalServerError, Message: "internal error"}
	}
}

func writeError(c *gin.Context, err error) {
	status, body := mapError(err)
	c.JSON(status, body)
}

func abortWithError(c *gin.Context, err error) {
	status, body := mapError(err)
	c.AbortWithStatusJSON(status, body)
}
