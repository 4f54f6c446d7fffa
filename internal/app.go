package internal

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/courier/pkg/health"
	"github.com/dmitrymomot/courier/pkg/logger"
	"github.com/dmitrymomot/courier/pkg/mailer"
)

// Default server timeouts (hardcoded, opinionated).
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

// App is the application object extensions attach to.
// It owns the configuration, the logger, the template renderer, the HTTP
// router and a registry of initialized extensions.
// Everything except the extension registry is fixed after New.
type App struct {
	router      chi.Router
	renderer    mailer.Renderer
	logger      *slog.Logger
	extensions  map[string]any
	middlewares []Middleware
	routes      []func(chi.Router)
	handlers    []Handler
	health      *healthConfig
	config      Config
	mu          sync.RWMutex
}

// New creates a new application with the given options.
//
// Example:
//
//	app := courier.New(
//	    courier.WithConfig(cfg),
//	    courier.WithLogger("web"),
//	)
//	ext := courier.InitMail(app, nil)
func New(opts ...Option) *App {
	a := &App{
		router:     chi.NewRouter(),
		logger:     logger.NewNope(),
		extensions: make(map[string]any),
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.renderer == nil {
		a.renderer = defaultRenderer(a.config.Templates)
	}

	a.setupRoutes()
	return a
}

// defaultRenderer reads templates from the working directory.
func defaultRenderer(cfg TemplatesConfig) mailer.Renderer {
	dir := cfg.Dir
	if dir == "" {
		dir = "templates"
	}
	return mailer.NewRendererWithConfig(os.DirFS("."), mailer.RendererConfig{
		TemplateDir: dir,
		LayoutDir:   cfg.LayoutDir,
	})
}

// Config returns the application configuration.
func (a *App) Config() Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Renderer returns the template renderer bound by Context.
func (a *App) Renderer() mailer.Renderer {
	return a.renderer
}

// Router returns the underlying chi.Router.
func (a *App) Router() chi.Router {
	return a.router
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Context returns a copy of parent bound to the app.
// Templated messages built with the returned context render through the
// app's renderer, and AppFromContext / MailerFromContext resolve against it.
func (a *App) Context(parent context.Context) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	ctx := context.WithValue(parent, appKey{}, a)
	return mailer.WithRenderer(ctx, a.renderer)
}

// Extension returns the extension registered under name.
func (a *App) Extension(name string) (any, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	ext, ok := a.extensions[name]
	return ext, ok
}

// SetExtension registers ext under name, replacing any previous value.
func (a *App) SetExtension(name string, ext any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.extensions[name] = ext
}

// Run starts the HTTP server and blocks until shutdown.
//
// Example:
//
//	err := app.Run(":8080", courier.Logger(app.Logger()))
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)
	if cfg.logger == nil {
		cfg.logger = a.logger
	}

	return runServer(runtimeConfig{
		handler:         a,
		address:         addr,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		shutdownHooks:   cfg.shutdownHooks,
		baseCtx:         cfg.baseCtx,
	})
}

// setupRoutes configures the router with middleware and routes.
func (a *App) setupRoutes() {
	// Bind the app first so every later middleware and handler sees it.
	a.router.Use(a.bindContext)

	for _, mw := range a.middlewares {
		a.router.Use(mw)
	}

	if a.health != nil {
		a.router.Get(a.health.livenessPath, health.LivenessHandler())
		a.router.Get(a.health.readinessPath, health.ReadinessHandler(a.readinessChecks(), health.WithLogger(a.logger)))
	}

	for _, fn := range a.routes {
		fn(a.router)
	}
	for _, h := range a.handlers {
		h.Routes(a.router)
	}
}

// readinessChecks adds the mail transport check to the configured checks.
// The mail extension is resolved on each request, so InitMail may run after New.
func (a *App) readinessChecks() health.Checks {
	checks := make(health.Checks, len(a.health.checks)+1)
	for name, fn := range a.health.checks {
		checks[name] = fn
	}
	if _, ok := checks[ExtensionMail]; !ok {
		checks[ExtensionMail] = func(ctx context.Context) error {
			ext, _ := a.Extension(ExtensionCourierMail)
			me, ok := ext.(*MailExtension)
			if !ok {
				return nil
			}
			return me.Healthcheck()(ctx)
		}
	}
	return checks
}

func (a *App) bindContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(a.Context(r.Context())))
	})
}

// healthConfig holds health check endpoint configuration.
type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

// Default health check paths.
const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// HealthOption configures health check endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath sets a custom liveness endpoint path.
// Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named readiness check.
// A check named "mail" replaces the built-in mail transport check.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if name != "" && fn != nil {
			c.checks[name] = fn
		}
	}
}
