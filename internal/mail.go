package internal

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/courier/pkg/health"
	"github.com/dmitrymomot/courier/pkg/mailer"
	"github.com/dmitrymomot/courier/pkg/mailer/resend"
	"github.com/dmitrymomot/courier/pkg/mailer/smtp"
)

// Extension registry keys.
const (
	// ExtensionMail holds the mailer.Mailer used to send messages.
	ExtensionMail = "mail"
	// ExtensionCourierMail holds the *MailExtension returned by InitMail.
	ExtensionCourierMail = "courier-mail"
)

// MailExtension is the mail extension of an App.
type MailExtension struct {
	app        *App
	mailer     mailer.Mailer
	base       mailer.Mailer
	transport  string
	suppressed bool
}

// InitMail initializes the mail extension on app and returns it.
//
// A mailer is built from the configuration unless one is already registered
// under ExtensionMail. When Config.Mail.SuppressSend is set, the mailer is
// replaced by a mailer.SinkMailer writing to sink (os.Stdout if nil), so no
// message leaves the process.
//
// Calling InitMail again on the same app returns the extension registered by
// the first call.
func InitMail(app *App, sink io.Writer) *MailExtension {
	if ext, ok := app.Extension(ExtensionCourierMail); ok {
		if me, ok := ext.(*MailExtension); ok {
			return me
		}
	}

	cfg := app.Config().Mail
	log := app.Logger().With(slog.String("extension", ExtensionCourierMail))

	ext := &MailExtension{app: app, suppressed: cfg.SuppressSend}

	switch {
	case cfg.SuppressSend:
		ext.transport = "sink"
		ext.base = mailer.NewSinkMailer(sink, log)
		ext.mailer = withDefaultSender(ext.base, cfg.DefaultSender)
	default:
		if registered, ok := app.Extension(ExtensionMail); ok {
			if rm, ok := registered.(mailer.Mailer); ok {
				ext.transport = "custom"
				ext.base = rm
				ext.mailer = withDefaultSender(rm, cfg.DefaultSender)
				break
			}
		}
		ext.transport, ext.base = newTransport(app.Config(), log)
		ext.mailer = withDefaultSender(ext.base, cfg.DefaultSender)
	}

	app.SetExtension(ExtensionMail, ext.mailer)
	app.SetExtension(ExtensionCourierMail, ext)

	log.Info("mail extension initialized",
		slog.String("transport", ext.transport),
		slog.Bool("suppressed", ext.suppressed),
	)
	return ext
}

// newTransport builds the network mailer selected by MAIL_TRANSPORT.
func newTransport(cfg Config, log *slog.Logger) (string, mailer.Mailer) {
	switch strings.ToLower(cfg.Mail.Transport) {
	case TransportResend:
		return TransportResend, resend.New(cfg.Resend)
	case TransportSMTP, "":
	default:
		log.Warn("unknown mail transport, falling back to smtp",
			slog.String("transport", cfg.Mail.Transport),
		)
	}
	return TransportSMTP, smtp.New(cfg.Mail.SMTP, log)
}

// withDefaultSender fills an empty sender before delegating to next.
func withDefaultSender(next mailer.Mailer, sender string) mailer.Mailer {
	if sender == "" {
		return next
	}
	return mailer.MailerFunc(func(ctx context.Context, msg *mailer.Message) error {
		if msg != nil && msg.Sender() == "" {
			msg = msg.WithSender(sender)
		}
		return next.Send(ctx, msg)
	})
}

// Send sends msg through the registered mailer.
// An empty sender is replaced by Config.Mail.DefaultSender.
func (e *MailExtension) Send(ctx context.Context, msg *mailer.Message) error {
	return e.mailer.Send(ctx, msg)
}

// NewTemplatedMessage builds a templated message within the app context.
func (e *MailExtension) NewTemplatedMessage(ctx context.Context, p mailer.TemplatedParams) (*mailer.Message, error) {
	return mailer.NewTemplatedMessage(e.app.Context(ctx), p)
}

// Healthcheck reports whether the transport is reachable.
// Transports without a Ping method, including the sink, are always healthy.
func (e *MailExtension) Healthcheck() health.CheckFunc {
	return func(ctx context.Context) error {
		if p, ok := e.base.(interface{ Ping(context.Context) error }); ok {
			return p.Ping(ctx)
		}
		return nil
	}
}

// Mailer returns the registered mailer.
func (e *MailExtension) Mailer() mailer.Mailer {
	return e.mailer
}

// Suppressed reports whether messages are written to the sink instead of sent.
func (e *MailExtension) Suppressed() bool {
	return e.suppressed
}

// Transport returns the name of the transport in use: smtp, resend, sink or custom.
func (e *MailExtension) Transport() string {
	return e.transport
}
