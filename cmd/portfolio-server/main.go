// Command portfolio-server runs the portfolio backend. All configuration
// comes from environment variables; STORE_BACKEND selects the blog post
// store ("mongo" or "file").
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/shreygupta/portfolio"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg := portfolio.SiteConfig{
		Name:             portfolio.EnvOr("SITE_NAME", "Portfolio"),
		URL:              portfolio.EnvOr("SITE_URL", "http://localhost:3000"),
		Description:      os.Getenv("SITE_DESCRIPTION"),
		Author:           portfolio.EnvOr("SITE_AUTHOR", "Shreyansh Gupta"),
		Addr:             portfolio.EnvOr("LISTEN_ADDR", ":3000"),
		SiteDatabasePath: portfolio.EnvOr("SITE_DB_PATH", "data/site.db"),
		AdminPassword:    portfolio.MustEnv("ADMIN_PASSWORD"),
		SessionSecret:    portfolio.MustEnv("SESSION_SECRET"),
		CookieSecure:     os.Getenv("COOKIE_SECURE") == "true",
		ResendAPIKey:     os.Getenv("RESEND_API_KEY"),
		EmailFrom:        os.Getenv("EMAIL_FROM"),
		OwnerEmail:       os.Getenv("EMAIL_TO"),
	}

	store, err := newStore(log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize store")
	}

	app := portfolio.New(cfg, store, portfolio.WithLogger(log))

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("starting server")
		if err := app.Start(); err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
	if err := app.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("store close error")
	}
	log.Info().Msg("shutdown complete")
}

// newStore builds the configured post store backend.
func newStore(log zerolog.Logger) (portfolio.PostStore, error) {
	backend := portfolio.EnvOr("STORE_BACKEND", "mongo")
	switch backend {
	case "mongo":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return portfolio.NewMongoStore(ctx,
			portfolio.MustEnv("MONGODB_URI"),
			portfolio.EnvOr("MONGODB_DATABASE", "portfolio"),
		)
	case "file":
		log.Warn().Msg("using flat-file store; intended for local development only")
		return portfolio.NewFileStore(portfolio.EnvOr("BLOG_DATA_PATH", "data/posts.jsonl"))
	default:
		log.Fatal().Str("backend", backend).Msg("unsupported store backend")
		return nil, nil
	}
}
