// Command createadmin creates the administrator account from ADMIN_NAME,
// ADMIN_EMAIL and ADMIN_PASSWORD. An existing account is left untouched.
package main

import (
	"context"
	"errors"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"

	"github.com/crud-app/records-api/internal/core/service"
	mongodb "github.com/crud-app/records-api/internal/infrastructure/db/mongo"
	"github.com/crud-app/records-api/internal/pkg/config"
	"github.com/crud-app/records-api/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "createadmin"})

	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("create admin failed")
		os.Exit(1)
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	ctx := context.Background()
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	users := mongodb.NewUserRepository(db)
	records := mongodb.NewRecordRepository(db)
	if err := mongodb.EnsureIndexes(ctx, users, records); err != nil {
		return err
	}

	admins := service.NewAdminService(users, records, cfg.BcryptCost, logger.Component("admin"))
	user, created, err := admins.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password)
	if err != nil {
		return err
	}
	log.Info().Str("email", user.Email).Bool("created", created).Msg("done")
	return nil
}
