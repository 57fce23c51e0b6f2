package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/openpress/warden/core"
	"github.com/openpress/warden/ports"
	"github.com/openpress/warden/service"
)

const sessionContextKey = "warden/session"

// CookieConfig describes the session cookie. HTTP-only and path-scoped;
// the max age matches the session store's inactivity TTL.
type CookieConfig struct {
	Name   string
	Path   string
	MaxAge time.Duration
	Secure bool
}

// CurrentSession returns the session attached to the request context.
func CurrentSession(c *gin.Context) *core.Session {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return nil
	}
	return value.(*core.Session)
}

// SessionMiddleware resolves the cookie to a server-side session, minting
// an anonymous one on first contact, and attaches it to the gin context.
func SessionMiddleware(sessions ports.SessionStore, cookie CookieConfig, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := c.Cookie(cookie.Name); err == nil && id != "" {
			session, err := sessions.Get(c.Request.Context(), id)
			if err == nil {
				c.Set(sessionContextKey, session)
				c.Next()
				return
			}
			if !errors.Is(err, core.ErrNotFound) {
				// A backend failure must not clobber the client's cookie
				// with a fresh anonymous session.
				log.Error("failed to load session", "session_id", id, "error", err)
				abortWithError(c, err)
				return
			}
			// Unknown or expired cookie falls through to a fresh session.
		}

		session := &core.Session{
			ID:        uuid.New().String(),
			CreatedAt: time.Now(),
		}
		if err := sessions.Create(c.Request.Context(), session); err != nil {
			log.Error("failed to create session", "error", err)
			abortWithError(c, err)
			return
		}

		setSessionCookie(c, cookie, session.ID)
		c.Set(sessionContextKey, session)
		c.Next()
	}
}

// FingerprintGuard compares the fingerprint recorded at login with the one
// on the current request. A mismatch destroys the session and aborts with
// a session-anomaly response; no authorization decision runs afterwards.
// Sessions without a recorded fingerprint pass unchanged, so sessions
// minted before this guard existed keep working.
func FingerprintGuard(sessions ports.SessionStore, events ports.EventPublisher, header string, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := CurrentSession(c)
		if !session.Authenticated() || session.Fingerprint == "" {
			c.Next()
			return
		}

		if c.GetHeader(header) == session.Fingerprint {
			c.Next()
			return
		}

		if err := sessions.Delete(c.Request.Context(), session.ID); err != nil {
			log.Error("failed to destroy anomalous session",
				"session_id", session.ID, "error", err)
		}
		if err := events.PublishAnomaly(c.Request.Context(), session.Identity, session.ID); err != nil {
			log.Warn("failed to publish anomaly event",
				"identity", session.Identity, "error", err)
		}

		log.Info("session fingerprint mismatch",
			"identity", session.Identity, "session_id", session.ID)
		recordAnomaly()
		abortWithError(c, core.ErrSessionAnomaly)
	}
}

// Require attaches a permission requirement to a route. The gate runs
// before the handler body; on deny the handler never executes.
func Require(authz *service.AuthzService, requirement *core.Requirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := CurrentSession(c)
		if err := authz.Authorize(c.Request.Context(), requirement, session); err != nil {
			recordAuthz("deny")
			abortWithError(c, err)
			return
		}
		recordAuthz("allow")
		c.Next()
	}
}

func setSessionCookie(c *gin.Context, cookie CookieConfig, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookie.Name, id, int(cookie.MaxAge.Seconds()), cookie.Path, "", cookie.Secure, true)
}

func clearSessionCookie(c *gin.Context, cookie CookieConfig) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookie.Name, "", -1, cookie.Path, "", cookie.Secure, true)
}
