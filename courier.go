package courier

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/courier/internal"
	"github.com/dmitrymomot/courier/pkg/health"
	"github.com/dmitrymomot/courier/pkg/logger"
	"github.com/dmitrymomot/courier/pkg/mailer"
)

// Type aliases - public API
type (
	// App is the application object extensions attach to.
	App = internal.App

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// Handler declares routes on the app router.
	Handler = internal.Handler

	// Middleware wraps an http.Handler.
	Middleware = internal.Middleware

	// Config is the application configuration.
	Config = internal.Config

	// MailConfig configures the mail extension.
	MailConfig = internal.MailConfig

	// TemplatesConfig locates message templates on disk.
	TemplatesConfig = internal.TemplatesConfig

	// MailExtension is the mail extension of an App.
	MailExtension = internal.MailExtension

	// ContextExtractor extracts a slog attribute from context.
	// Used with WithLogger to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor

	// Message is a ready-to-send email message.
	Message = mailer.Message

	// MessageParams holds the fields of a Message.
	MessageParams = mailer.MessageParams

	// TemplatedParams holds the fields of a templated Message.
	TemplatedParams = mailer.TemplatedParams

	// Attachment is a file attached to a Message.
	Attachment = mailer.Attachment

	// Mailer sends messages.
	Mailer = mailer.Mailer

	// Renderer renders named templates.
	Renderer = mailer.Renderer
)

// Extension registry keys.
const (
	ExtensionMail        = internal.ExtensionMail
	ExtensionCourierMail = internal.ExtensionCourierMail
)

// Mail transports.
const (
	TransportSMTP   = internal.TransportSMTP
	TransportResend = internal.TransportResend
)

// Errors.
var (
	ErrMailNotInitialized = internal.ErrMailNotInitialized
	ErrNoAppContext       = mailer.ErrNoAppContext
	ErrRenderFailed       = mailer.ErrRenderFailed
	ErrSendFailed         = mailer.ErrSendFailed
)

// New creates a new application with the given options.
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// LoadConfig reads the configuration from environment variables,
// seeded from the given .env files.
func LoadConfig(files ...string) (Config, error) {
	return internal.LoadConfig(files...)
}

// InitMail initializes the mail extension on app.
// With MAIL_SUPPRESS_SEND set, messages are written to sink (stdout if nil)
// instead of being sent.
func InitMail(app *App, sink io.Writer) *MailExtension {
	return internal.InitMail(app, sink)
}

// NewMessage creates a message from literal fields.
func NewMessage(p MessageParams) *Message {
	return mailer.NewMessage(p)
}

// NewTemplatedMessage creates a message whose body and HTML are rendered
// from templates. ctx must come from App.Context or an app request.
func NewTemplatedMessage(ctx context.Context, p TemplatedParams) (*Message, error) {
	return mailer.NewTemplatedMessage(ctx, p)
}

// AppFromContext returns the app bound to ctx.
func AppFromContext(ctx context.Context) (*App, error) {
	return internal.AppFromContext(ctx)
}

// MailerFromContext returns the mailer of the app bound to ctx.
func MailerFromContext(ctx context.Context) (Mailer, error) {
	return internal.MailerFromContext(ctx)
}

// Application options

// WithConfig sets the application configuration.
func WithConfig(cfg Config) Option {
	return internal.WithConfig(cfg)
}

// WithLogger creates a logger with a component name and optional extractors.
func WithLogger(component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, extractors...)
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// WithTemplates renders templates from fsys.
func WithTemplates(fsys fs.FS) Option {
	return internal.WithTemplates(fsys)
}

// WithRenderer sets a custom template renderer.
func WithRenderer(r Renderer) Option {
	return internal.WithRenderer(r)
}

// WithMiddleware adds global middleware to the application.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithRoutes registers a function that declares routes on the router.
func WithRoutes(fn func(chi.Router)) Option {
	return internal.WithRoutes(fn)
}

// WithHandlers registers handlers that declare routes.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithExtension pre-registers an extension under name.
func WithExtension(name string, ext any) Option {
	return internal.WithExtension(name, ext)
}

// WithHealthChecks enables liveness and readiness endpoints.
// Readiness includes a "mail" check once InitMail has run.
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithLivenessPath sets a custom liveness endpoint path.
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath sets a custom readiness endpoint path.
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named readiness check.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Run options

// Logger sets the server logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout sets the timeout for graceful shutdown.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// ShutdownHook registers a cleanup function to run during shutdown.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets the base context for signal handling.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}
