package internal

import (
	"io/fs"
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/courier/pkg/health"
	"github.com/dmitrymomot/courier/pkg/logger"
	"github.com/dmitrymomot/courier/pkg/mailer"
)

// Option configures the application.
type Option func(*App)

// WithConfig sets the application configuration.
//
// Example:
//
//	cfg, err := courier.LoadConfig(".env")
//	if err != nil {
//	    return err
//	}
//	app := courier.New(courier.WithConfig(cfg))
func WithConfig(cfg Config) Option {
	return func(a *App) {
		a.config = cfg
	}
}

// WithLogger creates a logger with a component name and optional extractors.
// The component name is added to every log entry for easy filtering.
func WithLogger(component string, extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		a.logger = logger.New(extractors...).With("component", component)
	}
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithTemplates renders templates from fsys.
// Template and layout directories come from the configuration, so
// WithConfig should precede this option.
//
// Example:
//
//	//go:embed templates
//	var templates embed.FS
//
//	courier.New(
//	    courier.WithConfig(cfg),
//	    courier.WithTemplates(templates),
//	)
func WithTemplates(fsys fs.FS) Option {
	return func(a *App) {
		a.renderer = mailer.NewRendererWithConfig(fsys, mailer.RendererConfig{
			TemplateDir: a.config.Templates.Dir,
			LayoutDir:   a.config.Templates.LayoutDir,
		})
	}
}

// WithRenderer sets a custom template renderer.
func WithRenderer(r mailer.Renderer) Option {
	return func(a *App) {
		if r != nil {
			a.renderer = r
		}
	}
}

// WithMiddleware adds global middleware to the application.
// Middleware is applied in the order provided, after the app context is bound.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithRoutes registers a function that declares routes on the router.
//
// Example:
//
//	courier.WithRoutes(func(r chi.Router) {
//	    r.Post("/signup", signupHandler)
//	})
func WithRoutes(fn func(chi.Router)) Option {
	return func(a *App) {
		if fn != nil {
			a.routes = append(a.routes, fn)
		}
	}
}

// WithHandlers registers handlers that declare routes.
// Each handler's Routes method is called during setup.
func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

// WithExtension pre-registers an extension under name.
// Registering a mailer.Mailer under ExtensionMail makes InitMail use it
// instead of building one from the configuration.
func WithExtension(name string, ext any) Option {
	return func(a *App) {
		a.extensions[name] = ext
	}
}

// WithHealthChecks enables liveness and readiness endpoints.
// Readiness includes a "mail" check once InitMail has run.
//
// Example:
//
//	courier.WithHealthChecks(
//	    courier.WithReadinessPath("/ready"),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
			checks:        make(health.Checks),
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.health = cfg
	}
}
