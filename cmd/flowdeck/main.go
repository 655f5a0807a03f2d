package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrymomot/flowdeck"
	"github.com/dmitrymomot/flowdeck/middlewares"
	"github.com/dmitrymomot/flowdeck/pkg/db"
	"github.com/dmitrymomot/flowdeck/pkg/logger"
	"github.com/dmitrymomot/flowdeck/pkg/redis"
	"github.com/dmitrymomot/flowdeck/pkg/session"
	"github.com/dmitrymomot/flowdeck/pkg/user"
)

type config struct {
	Address    string `env:"FLOWDECK_ADDRESS" envDefault:":8080"`
	ViewerDir  string `env:"FLOWDECK_VIEWER_DIR" envDefault:"plugins/viewer"`
	TriggerDir string `env:"FLOWDECK_TRIGGER_DIR" envDefault:"plugins/trigger"`
	AssetDir   string `env:"FLOWDECK_ASSET_DIR" envDefault:"web"`
	CookieName string `env:"FLOWDECK_SESSION_COOKIE"`

	RequestTimeout time.Duration `env:"FLOWDECK_REQUEST_TIMEOUT" envDefault:"30s"`

	// SessionStore selects the session backend: memory or redis.
	SessionStore string        `env:"FLOWDECK_SESSION_STORE" envDefault:"memory"`
	SessionAge   time.Duration `env:"FLOWDECK_SESSION_MAX_AGE"`
	RedisURL     string        `env:"FLOWDECK_REDIS_URL"`

	// UserBackend selects the credential source: file or postgres.
	UserBackend string `env:"FLOWDECK_USER_BACKEND" envDefault:"file"`
	UserFile    string `env:"FLOWDECK_USER_FILE" envDefault:"conf/users.yaml"`

	// AdminUser/AdminPassword seed an initial admin account on the
	// postgres backend. The seed is skipped when the username exists.
	AdminUser     string `env:"FLOWDECK_ADMIN_USER"`
	AdminPassword string `env:"FLOWDECK_ADMIN_PASSWORD"`

	SentryDSN   string `env:"SENTRY_DSN"`
	Environment string `env:"FLOWDECK_ENV" envDefault:"development"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg := config{}
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	log := logger.NewWithSentry(logger.SentryConfig{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Environment,
		MinLevel:    slog.LevelWarn,
	}, middlewares.RequestIDExtractor())

	opts := []flowdeck.Option{
		flowdeck.WithLogger(log),
		flowdeck.WithViewerDir(cfg.ViewerDir),
		flowdeck.WithTriggerDir(cfg.TriggerDir),
		flowdeck.WithAssetDir(cfg.AssetDir),
		flowdeck.WithCookieName(cfg.CookieName),
		flowdeck.WithSessionMaxAge(cfg.SessionAge),
		flowdeck.WithMiddleware(
			middlewares.Recover(),
			middlewares.RequestID(),
			middlewares.Timeout(cfg.RequestTimeout),
		),
	}
	runOpts := []flowdeck.RunOption{
		flowdeck.Logger(log),
	}
	health := []flowdeck.HealthOption{}

	switch cfg.SessionStore {
	case "redis":
		client, err := redis.Open(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		opts = append(opts, flowdeck.WithSessionStore(session.NewRedis(client)))
		health = append(health, flowdeck.WithReadinessCheck("redis", redis.Healthcheck(client)))
		runOpts = append(runOpts, flowdeck.ShutdownHook(redis.Shutdown(client)))
	case "memory":
		// App default.
	default:
		return fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}

	switch cfg.UserBackend {
	case "postgres":
		dbCfg := db.Config{}
		if err := env.Parse(&dbCfg); err != nil {
			return fmt.Errorf("parse database config: %w", err)
		}
		pool, err := db.Connect(ctx, dbCfg)
		if err != nil {
			return err
		}
		if err := db.Migrate(ctx, pool, user.Migrations, dbCfg.MigrationsTable, log); err != nil {
			return err
		}
		users, err := user.NewPostgresManager(ctx, pool)
		if err != nil {
			return err
		}
		if cfg.AdminUser != "" && cfg.AdminPassword != "" {
			created, err := users.CreateUser(ctx, cfg.AdminUser, cfg.AdminPassword, []string{"admin"})
			if err != nil {
				return fmt.Errorf("seed admin user: %w", err)
			}
			if created {
				log.Info("admin user seeded", slog.String("username", cfg.AdminUser))
			}
		}
		opts = append(opts, flowdeck.WithUserManager(users))
		health = append(health, flowdeck.WithReadinessCheck("postgres", db.Healthcheck(pool)))
		runOpts = append(runOpts, flowdeck.ShutdownHook(db.Shutdown(pool)))
	case "file":
		users, err := user.NewFileManager(cfg.UserFile)
		if err != nil {
			return fmt.Errorf("load user file: %w", err)
		}
		opts = append(opts, flowdeck.WithUserManager(users))
	default:
		return fmt.Errorf("unknown user backend %q", cfg.UserBackend)
	}

	opts = append(opts, flowdeck.WithHealthChecks(health...))

	app := flowdeck.New(opts...)
	return app.Run(cfg.Address, runOpts...)
}
