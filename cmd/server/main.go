package main

import (
	"context"

	"github.com/foliocms/folio/internal/config"
	"github.com/foliocms/folio/internal/crypto"
	httphandler "github.com/foliocms/folio/internal/handler/http"
	"github.com/foliocms/folio/internal/logger"
	"github.com/foliocms/folio/internal/ratelimit"
	"github.com/foliocms/folio/internal/server"
	"github.com/foliocms/folio/internal/service"
	"github.com/foliocms/folio/internal/store"
	"github.com/foliocms/folio/internal/workers"
	"github.com/foliocms/folio/migrations"
)

// Build metadata, injected via -ldflags at release time.
var (
	buildVersion = "N/A"
	buildDate    = "N/A"
	buildCommit  = "N/A"
)

func main() {
	log := logger.NewLogger("server")

	log.Info().
		Str("version", buildVersion).
		Str("date", buildDate).
		Str("commit", buildCommit).
		Msg("starting folio authentication server")

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	encryptionKey, err := cfg.App.DecodedEncryptionKey()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid encryption key")
	}

	secretBox, err := crypto.NewSecretBox(encryptionKey)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize secret cipher")
	}

	hasher := crypto.NewPasswordHasher(cfg.App.BcryptCost)
	totpEngine := crypto.NewTOTPEngine(cfg.App.TOTPIssuer, secretBox, log)

	ctx := context.Background()

	db, err := store.NewConnectPostgres(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := migrations.Migrate(db.DB); err != nil {
		log.Fatal().Err(err).Msg("failed to apply migrations")
	}

	repos := store.NewRepositories(db, log)
	limiter := ratelimit.NewLimiter(nil)
	services := service.NewServices(repos, cfg, limiter, hasher, totpEngine, log)
	handler := httphandler.NewHandler(services, cfg, log)

	jobs := []workers.Worker{
		workers.NewSessionGC(repos.Sessions, cfg.Workers.SessionGCInterval, log),
		workers.NewLimiterSweep(limiter, cfg.Limits.SweepInterval, log),
	}

	srv := server.NewServer(cfg, handler.Routes(), jobs, log)
	if err := srv.Run(); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
}
