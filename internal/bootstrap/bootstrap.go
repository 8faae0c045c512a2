// Package bootstrap opens the shared infrastructure the binaries run on.
package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/segyhp/fee-ledger/internal/config"
	"github.com/segyhp/fee-ledger/internal/notification"
	"github.com/segyhp/fee-ledger/pkg/logger"
)

// Logger builds the process logger, reporting to Rollbar when a token is set.
func Logger(cfg *config.Config, prefix string) logger.Logger {
	base := logger.New(prefix, cfg.Logging.Level, cfg.Logging.Format, os.Stdout)

	host, _ := os.Hostname()
	return logger.WithRollbar(base, logger.RollbarOptions{
		Token:       cfg.Rollbar.Token,
		Environment: cfg.Server.Env,
		ServerHost:  host,
		CodeVersion: cfg.Server.Build,
	})
}

// DB connects to postgres and applies the pool settings.
func DB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

// Redis builds a client from REDIS_URL, or from host and port when unset.
func Redis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	if cfg.Redis.URL != "" {
		parsed, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("parse REDIS_URL: %w", err)
		}
		opts = parsed
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Notifier sends through SendGrid when an API key is configured outside
// development, and logs emails otherwise.
func Notifier(cfg *config.Config, log logger.Logger) notification.Notifier {
	switch {
	case cfg.IsDevelopment():
		log.Info("development environment, emails will be logged only", nil)
	case cfg.Email.SendgridAPIKey != "":
		return notification.NewSendgridNotifier(cfg.Email.SendgridAPIKey, cfg.Email.FromName, cfg.Email.FromAddress)
	case cfg.IsProduction():
		log.Error("SENDGRID_API_KEY not set in production, emails will be logged only", nil, nil)
	default:
		log.Warn("SENDGRID_API_KEY not set, emails will be logged only", nil)
	}
	return notification.NewConsoleNotifier(log)
}
