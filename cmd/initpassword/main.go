// Command initpassword stores the bcrypt hash of the panel password.
//
//	go run ./cmd/initpassword -password 'secret'
//	ADMIN_PASSWORD=secret go run ./cmd/initpassword
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"powergest/config"
	"powergest/models"
	"powergest/repository"
	"powergest/services"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "panel password (defaults to $ADMIN_PASSWORD)")
	flag.Parse()
	if *password == "" {
		log.Fatal().Msg("password is required: pass -password or set ADMIN_PASSWORD")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.StoreDriver != config.DriverMongo {
		log.Fatal().Str("driver", cfg.StoreDriver).Msg("initpassword needs STORE_DRIVER=mongo")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, db, err := config.ConnectDatabase(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer client.Disconnect(context.Background())

	if err := repository.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	store := repository.NewMongoStore(db)
	if err := storePassword(ctx, store.Settings, *password); err != nil {
		log.Fatal().Err(err).Msg("failed to store password")
	}
}

func storePassword(ctx context.Context, settings repository.SettingRepository, password string) error {
	if _, err := services.NewAuth(settings, nil).SetPassword(ctx, password); err != nil {
		return err
	}
	log.Info().Str("key", models.AdminPasswordKey).Msg("panel password initialized")
	return nil
}
