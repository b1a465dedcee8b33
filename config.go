package portfolio

import (
	"time"

	"github.com/rs/zerolog"
)

// SiteConfig holds all configuration for the portfolio server.
type SiteConfig struct {
	Name        string // Site name (default "Portfolio")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for the RSS feed
	Author      string // Owner name; default author for blog posts

	Addr             string // Listen address (default ":3000")
	SiteDatabasePath string // SQLite path for subscribers/images (default "data/site.db")

	AdminPassword string // Required: admin login password
	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	ResendAPIKey string // Resend API key; empty disables outbound email
	EmailFrom    string // Verified sender address
	OwnerEmail   string // Where contact inquiries are delivered

	PostCacheTTL time.Duration // Post cache TTL (default 5min)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Portfolio"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Author == "" {
		c.Author = "Shreyansh Gupta"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.SiteDatabasePath == "" {
		c.SiteDatabasePath = "data/site.db"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithLogger sets the structured logger (default: no-op).
func WithLogger(log zerolog.Logger) Option {
	return func(a *App) {
		a.log = log
	}
}

// WithMailer overrides the email provider (used by tests and alternative
// deployments; the default is Resend when ResendAPIKey is set).
func WithMailer(m Mailer) Option {
	return func(a *App) {
		a.mailer = m
	}
}

// WithStaticDir sets the directory for static assets and uploaded images
// (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithCustomRoutes registers additional routes on the Echo instance before
// the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}
