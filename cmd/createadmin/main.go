// Command createadmin bootstraps the first Admin account in MongoDB.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/harentsoaR/gym-api/internal/config"
	"github.com/harentsoaR/gym-api/internal/logger"
	"github.com/harentsoaR/gym-api/internal/services"
	"github.com/harentsoaR/gym-api/internal/store/mongostore"
)

func main() {
	cfg, _, err := config.Load()
	if err != nil {
		logger.Init("info", true)
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.LogLevel, cfg.LogPretty)

	username := flag.String("username", cfg.AdminUsername, "admin username (ADMIN_USERNAME)")
	password := flag.String("password", cfg.AdminPassword, "admin password (ADMIN_PASSWORD)")
	flag.Parse()

	if cfg.StoreDriver != config.DriverMongo {
		log.Fatal().Str("store", cfg.StoreDriver).Msg("createadmin needs STORE_DRIVER=mongo")
	}

	if err := run(cfg, *username, *password); err != nil {
		log.Error().Err(err).Msg("Error creating admin user")
		os.Exit(1)
	}
}

func run(cfg *config.Config, username, password string) error {
	ctx := context.Background()
	client, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoConnectTimeout)
	if err != nil {
		return err
	}
	defer client.Disconnect(ctx)
	log.Info().Msg("Database connected for script.")

	db := client.Database(cfg.MongoDatabase)
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	admin, created, err := services.EnsureAdmin(ctx, mongostore.New(db).Users, username, password, cfg.BcryptCost)
	if err != nil {
		return err
	}
	if !created {
		log.Info().Str("username", admin.Username).Msg("Admin user already exists")
		return nil
	}
	log.Info().Str("username", admin.Username).Str("id", admin.ID.Hex()).Msg("Admin user created")
	return nil
}
