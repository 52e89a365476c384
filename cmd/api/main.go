// @title        Records API
// @version      1.0
// @description  User accounts with email verification, owner-scoped data records and an admin area.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"

	"github.com/crud-app/records-api/internal/api"
	"github.com/crud-app/records-api/internal/api/middleware"
	"github.com/crud-app/records-api/internal/core/service"
	mongodb "github.com/crud-app/records-api/internal/infrastructure/db/mongo"
	redisdb "github.com/crud-app/records-api/internal/infrastructure/db/redis"
	"github.com/crud-app/records-api/internal/infrastructure/http/handlers"
	"github.com/crud-app/records-api/internal/infrastructure/mail"
	"github.com/crud-app/records-api/internal/infrastructure/sentry"
	"github.com/crud-app/records-api/internal/pkg/config"
	"github.com/crud-app/records-api/pkg/logger"
)

const (
	shutdownTimeout = 5 * time.Second
	flushTimeout    = 2 * time.Second
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "records-api",
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("application failed")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx := context.Background()

	tracker := sentry.New(sentry.Config{DSN: cfg.SentryDSN, Environment: cfg.Env}, logger.Component("sentry"))
	defer tracker.Flush(flushTimeout)

	// 1. Storage
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	users := mongodb.NewUserRepository(db)
	records := mongodb.NewRecordRepository(db)
	if err := mongodb.EnsureIndexes(ctx, users, records); err != nil {
		return err
	}

	// 2. Services
	mailer, err := mail.New(mail.Config{
		Host:   cfg.SMTP.Host,
		Port:   cfg.SMTP.Port,
		User:   cfg.SMTP.User,
		Pass:   cfg.SMTP.Pass,
		Secure: cfg.SMTP.Secure,
		From:   cfg.SMTP.From,
	}, logger.Component("mail"))
	if err != nil {
		return err
	}

	authService := service.NewAuthService(users, mailer, service.AuthConfig{
		JWTSecret:      cfg.JWT.Secret,
		TokenTTL:       cfg.JWT.TTL,
		BcryptCost:     cfg.BcryptCost,
		BaseURL:        cfg.AppBaseURL,
		ExposeResetURL: cfg.IsDevelopment(),
	}, logger.Component("auth"))
	recordService := service.NewRecordService(records, logger.Component("records"))
	adminService := service.NewAdminService(users, records, cfg.BcryptCost, logger.Component("admin"))

	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		if _, _, err := adminService.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			log.Error().Err(err).Msg("admin bootstrap failed")
			tracker.CaptureException(err)
		}
	}

	sessions := middleware.NewSessions(
		redisdb.NewSessionStore(rdb, cfg.Session.TTL),
		authService,
		middleware.SessionCookie{
			Secret: []byte(cfg.Session.Secret),
			TTL:    cfg.Session.TTL,
			Secure: !cfg.IsDevelopment(),
		},
		logger.Component("session"),
	)

	// 3. HTTP
	router := api.NewRouter(api.Dependencies{
		Auth:     authService,
		Records:  recordService,
		Admin:    adminService,
		Sessions: sessions,
		Checks: map[string]handlers.Check{
			"mongodb": handlers.MongoCheck(db),
			"redis":   handlers.RedisCheck(rdb),
		},
		Reporter: tracker,
		Log:      logger.Component("http"),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// 4. Graceful shutdown
	done := make(chan struct{})
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("shutting down gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server forced to shutdown")
		}
		close(done)
	}()

	log.Info().Str("addr", srv.Addr).Str("env", cfg.Env).Msg("starting server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	<-done
	log.Info().Msg("graceful shutdown complete")
	return nil
}
