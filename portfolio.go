// Package portfolio is the backend for a personal portfolio site with an
// attached blog, built with Go and Echo. It serves a JSON API for blog
// content (backed by either MongoDB or a flat file), the contact form, and
// the newsletter signup, plus RSS and sitemap feeds derived from the posts.
package portfolio

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// App is the central application. It wires together the configured post
// store, the local site database, the services, and the HTTP layer.
type App struct {
	Config     SiteConfig
	Echo       *echo.Echo
	Store      PostStore
	Site       *SiteStore
	Cache      *PostCache
	Ingestor   *Ingestor
	Contact    *ContactService
	Newsletter *NewsletterService

	log           zerolog.Logger
	mailer        Mailer
	loginLimiter  *RateLimiter
	submitLimiter *RateLimiter
	customRoutes  []func(*App)
	staticDir     string
}

// New creates an App over the given post store. The store is the
// substitutable backend (MongoDB or flat file); everything else is built
// from the configuration during Start.
func New(cfg SiteConfig, store PostStore, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Store:     store,
		log:       zerolog.Nop(),
		staticDir: "public",
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the site database, services, middleware, and routes,
// then starts the server. It blocks until the server stops.
func (a *App) Start() error {
	if err := a.init(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) init() error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("portfolio: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("portfolio: SessionSecret is required")
	}

	site, err := NewSiteStore(a.Config.SiteDatabasePath)
	if err != nil {
		return fmt.Errorf("portfolio: init site store: %w", err)
	}
	a.Site = site

	if a.mailer == nil {
		if a.Config.ResendAPIKey != "" {
			a.mailer = NewResendMailer(a.Config.ResendAPIKey, a.Config.EmailFrom)
		} else {
			a.mailer = disabledMailer{}
		}
	}

	a.Cache = NewPostCache(a.Store, a.Config.PostCacheTTL)
	a.Ingestor = NewIngestor(a.Store, a.Config.Author)
	a.Contact = NewContactService(a.mailer, a.Config.OwnerEmail, a.Config.Author, a.log)
	a.Newsletter = NewNewsletterService(a.Site, a.mailer, a.Config.Author, a.Config.URL, a.log)
	a.loginLimiter = NewRateLimiter(5, time.Minute)
	a.submitLimiter = NewRateLimiter(10, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.staticDir)
	e.GET("/healthz", a.handleHealth)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	api := e.Group("/api")
	api.GET("/blog-posts", a.handleListPosts)
	api.POST("/contact", a.handleContact)
	api.POST("/newsletter", a.handleNewsletter)
	api.POST("/admin/login", a.handleAdminLogin)
	api.POST("/admin/logout", a.handleAdminLogout)

	admin := api.Group("", a.requireAdmin)
	admin.POST("/blog-posts", a.handleCreatePost)
	admin.DELETE("/blog-posts", a.handleDeletePost)
	admin.GET("/images", a.handleImageList)
	admin.POST("/images", a.handleImageUpload)
	admin.DELETE("/images/:filename", a.handleImageDelete)
}

// Shutdown stops the HTTP server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

// Close releases the stores. Call after Shutdown.
func (a *App) Close(ctx context.Context) error {
	if a.Store != nil {
		if err := a.Store.Close(ctx); err != nil {
			return err
		}
	}
	if a.Site != nil {
		return a.Site.Close()
	}
	return nil
}
