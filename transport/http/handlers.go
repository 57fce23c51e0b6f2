package http

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/openpress/warden/core"
	"github.com/openpress/warden/ports"
	"github.com/openpress/warden/service"
)

// AuthHandlers contains HTTP handlers for the auth endpoints.
type AuthHandlers struct {
	auth     *service.AuthService
	renderer ports.CaptchaRenderer
	cookie   CookieConfig
	fpHeader string
	log      *slog.Logger
}

// NewAuthHandlers creates new auth handlers.
func NewAuthHandlers(auth *service.AuthService, renderer ports.CaptchaRenderer, cookie CookieConfig, fpHeader string, log *slog.Logger) *AuthHandlers {
	return &AuthHandlers{
		auth:     auth,
		renderer: renderer,
		cookie:   cookie,
		fpHeader: fpHeader,
		log:      log,
	}
}

// Captcha issues a fresh challenge for the current session and returns the
// rendered payload together with the one-time key.
func (h *AuthHandlers) Captcha(c *gin.Context) {
	session := CurrentSession(c)

	challenge, err := h.auth.IssueChallenge(c.Request.Context(), session)
	if err != nil {
		h.log.Error("failed to issue challenge", "error", err)
		writeError(c, err)
		return
	}

	data, mime, err := h.renderer.Render(challenge.Answer)
	if err != nil {
		h.log.Error("failed to render captcha", "error", err)
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"key":     challenge.Key,
		"captcha": base64.StdEncoding.EncodeToString(data),
		"mime":    mime,
	})
}

// Login runs the handshake and rotates the session cookie on success.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req struct {
		Username      string `json:"username"`
		Password      string `json:"password"`
		CaptchaAnswer string `json:"captcha_answer"`
		CaptchaKey    string `json:"captcha_key"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, core.ErrInvalidRequest)
		return
	}

	session := CurrentSession(c)
	fresh, err := h.auth.Login(c.Request.Context(), session, service.LoginInput{
		Username:      req.Username,
		Password:      req.Password,
		CaptchaAnswer: req.CaptchaAnswer,
		CaptchaKey:    req.CaptchaKey,
		Fingerprint:   c.GetHeader(h.fpHeader),
	})
	if err != nil {
		recordLogin(loginResult(err))
		writeError(c, err)
		return
	}

	recordLogin("success")
	setSessionCookie(c, h.cookie, fresh.ID)
	c.JSON(http.StatusOK, gin.H{"username": fresh.Identity})
}

// Logout destroys the session. Always succeeds.
func (h *AuthHandlers) Logout(c *gin.Context) {
	session := CurrentSession(c)
	if err := h.auth.Logout(c.Request.Context(), session); err != nil {
		h.log.Error("failed to log out session", "error", err)
	}

	clearSessionCookie(c, h.cookie)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the authenticated identity.
func (h *AuthHandlers) Me(c *gin.Context) {
	session := CurrentSession(c)
	c.JSON(http.StatusOK, gin.H{"username": session.Identity})
}

// The content handlers below are placeholders: article CRUD lives in a
// separate service, but these routes exercise the authorization gate.

// ListPosts requires post:view.
func (h *AuthHandlers) ListPosts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"posts": []string{}})
}

// CreatePost requires post:view and post:create.
func (h *AuthHandlers) CreatePost(c *gin.Context) {
	c.JSON(http.StatusCreated, gin.H{"message": "created"})
}

// PublishPost requires post:publish or admin.
func (h *AuthHandlers) PublishPost(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "published"})
}
