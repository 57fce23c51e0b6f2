package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"

	"github.com/openpress/warden/adapters/captcha"
	"github.com/openpress/warden/adapters/creds"
	"github.com/openpress/warden/adapters/events"
	"github.com/openpress/warden/adapters/hasher"
	"github.com/openpress/warden/adapters/perms"
	"github.com/openpress/warden/adapters/store"
	"github.com/openpress/warden/config"
	"github.com/openpress/warden/core"
	"github.com/openpress/warden/logging"
	"github.com/openpress/warden/ports"
	"github.com/openpress/warden/service"
	transport "github.com/openpress/warden/transport/http"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.Setup("warden", cfg.LogLevel, nil)
	ctx := context.Background()

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	var eventPub ports.EventPublisher = events.NewNopPublisher()
	if cfg.Events.Enabled {
		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{
				Client: redisClient,
			},
			watermill.NewStdLogger(false, false),
		)
		if err != nil {
			log.Fatalf("Failed to create event publisher: %v", err)
		}
		eventPub = events.NewWatermillPublisher(publisher)
	}

	sessionStore := store.NewRedisSessionStore(redisClient, cfg.Session.TTL)
	challengeStore := store.NewRedisChallengeStore(redisClient)
	credentialStore := creds.NewRedisCredentialStore(redisClient)
	permissionStore := perms.NewRedisPermissionStore(redisClient)
	passwordHasher := hasher.New()
	renderer := captcha.NewPlainRenderer()

	if cfg.Admin.Username != "" {
		if err := seedAdmin(ctx, cfg.Admin, credentialStore, permissionStore, passwordHasher); err != nil {
			log.Fatalf("Failed to seed admin account: %v", err)
		}
	}

	authService := service.NewAuthService(
		sessionStore, challengeStore, credentialStore, passwordHasher, eventPub, logger,
		service.WithChallengeTTL(cfg.Captcha.TTL))
	authzService := service.NewAuthzService(permissionStore, logger)

	router := transport.SetupRouter(
		transport.RouterConfig{
			Cookie: transport.CookieConfig{
				Name:   cfg.Session.CookieName,
				Path:   "/",
				MaxAge: cfg.Session.TTL,
				Secure: cfg.Session.CookieSecure,
			},
			FingerprintHeader: cfg.Session.FingerprintHeader,
		},
		authService, authzService, sessionStore, renderer, eventPub, logger)

	logger.Info("starting server", "listen", cfg.Listen)
	if err := router.Run(cfg.Listen); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// seedAdmin provisions the configured admin account once. Existing
// credentials are left untouched so a redeploy cannot reset a password.
func seedAdmin(ctx context.Context, admin config.AdminConfig, credentialStore ports.CredentialStore, permissionStore ports.PermissionStore, passwordHasher ports.PasswordHasher) error {
	_, err := credentialStore.LookupHash(ctx, admin.Username)
	if err == nil {
		return permissionStore.Grant(ctx, admin.Username, "admin")
	}
	if !errors.Is(err, core.ErrNotFound) {
		return err
	}

	hash, err := passwordHasher.Hash(admin.Password)
	if err != nil {
		return err
	}
	if err := credentialStore.SaveHash(ctx, admin.Username, hash); err != nil {
		return err
	}
	return permissionStore.Grant(ctx, admin.Username, "admin")
}
