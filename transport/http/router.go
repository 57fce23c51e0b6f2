package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/openpress/warden/core"
	"github.com/openpress/warden/ports"
	"github.com/openpress/warden/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig carries the transport-level knobs.
type RouterConfig struct {
	Cookie            CookieConfig
	FingerprintHeader string
}

// SetupRouter sets up the Gin router. Requirements are declared here, at
// registration time; the gate reads them per request via Require.
func SetupRouter(
	cfg RouterConfig,
	auth *service.AuthService,
	authz *service.AuthzService,
	sessions ports.SessionStore,
	renderer ports.CaptchaRenderer,
	events ports.EventPublisher,
	log *slog.Logger,
) *gin.Engine {
	router := gin.Default()

	handlers := NewAuthHandlers(auth, renderer, cfg.Cookie, cfg.FingerprintHeader, log)

	session := SessionMiddleware(sessions, cfg.Cookie, log)
	guard := FingerprintGuard(sessions, events, cfg.FingerprintHeader, log)

	// The guard runs on the auth routes as well; it precedes every
	// authorization decision on any request carrying a session.
	authGroup := router.Group("/auth", session, guard)
	{
		authGroup.GET("/captcha", handlers.Captcha)
		authGroup.POST("/login", handlers.Login)
		authGroup.POST("/logout", handlers.Logout)
	}

	// Protected API routes. An empty-ALL requirement means any
	// authenticated identity.
	api := router.Group("/api", session, guard)
	{
		api.GET("/me", Require(authz, core.RequireAll()), handlers.Me)
		api.GET("/posts", Require(authz, core.RequireAll("post:view")), handlers.ListPosts)
		api.POST("/posts", Require(authz, core.RequireAll("post:view", "post:create")), handlers.CreatePost)
		api.POST("/posts/publish", Require(authz, core.RequireAny("post:publish", "admin")), handlers.PublishPost)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
