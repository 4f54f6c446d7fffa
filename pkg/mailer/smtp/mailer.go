package smtp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/dmitrymomot/courier/pkg/mailer"
)

// Config holds SMTP connection parameters.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	Host     string `env:"MAIL_SERVER" envDefault:"localhost"`
	Username string `env:"MAIL_USERNAME"`
	Password string `env:"MAIL_PASSWORD"`
	AuthType string `env:"MAIL_AUTH_TYPE"` // PLAIN, LOGIN, CRAM-MD5
	Port     int    `env:"MAIL_PORT" envDefault:"25"`
	UseTLS   bool   `env:"MAIL_USE_TLS"`
	UseSSL   bool   `env:"MAIL_USE_SSL"`
}

// NetworkMailer sends messages over SMTP using go-mail.
// A connection is dialed per Send.
type NetworkMailer struct {
	logger *slog.Logger
	cfg    Config
}

// New creates a NetworkMailer. If logger is nil, nothing is logged.
func New(cfg Config, logger *slog.Logger) *NetworkMailer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &NetworkMailer{cfg: cfg, logger: logger}
}

// Send implements mailer.Mailer.
func (m *NetworkMailer) Send(ctx context.Context, msg *mailer.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	message, err := msg.MIME()
	if err != nil {
		return err
	}

	client, err := mail.NewClient(m.cfg.Host, m.clientOptions(msg)...)
	if err != nil {
		return errors.Join(mailer.ErrSendFailed, fmt.Errorf("creating SMTP client: %w", err))
	}

	if err := client.DialAndSendWithContext(ctx, message); err != nil {
		m.logger.ErrorContext(ctx, "smtp delivery failed",
			slog.String("host", m.cfg.Host),
			slog.String("subject", msg.Subject()),
			slog.Any("error", err),
		)
		return errors.Join(mailer.ErrSendFailed, fmt.Errorf("sending email via SMTP: %w", err))
	}

	m.logger.DebugContext(ctx, "email sent",
		slog.String("host", m.cfg.Host),
		slog.String("to", strings.Join(msg.Recipients(), ", ")),
		slog.String("subject", msg.Subject()),
	)
	return nil
}

// Ping dials the SMTP server, negotiating TLS and authentication as Send
// would, and closes the connection without sending anything.
func (m *NetworkMailer) Ping(ctx context.Context) error {
	client, err := mail.NewClient(m.cfg.Host, m.clientOptions(nil)...)
	if err != nil {
		return fmt.Errorf("creating SMTP client: %w", err)
	}
	if err := client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("dialing %s:%d: %w", m.cfg.Host, m.cfg.Port, err)
	}
	return client.Close()
}

func (m *NetworkMailer) clientOptions(msg *mailer.Message) []mail.Option {
	opts := []mail.Option{mail.WithPort(m.cfg.Port)}

	switch {
	case m.cfg.UseSSL:
		opts = append(opts, mail.WithSSLPort(false))
	case m.cfg.UseTLS:
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	default:
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSOpportunistic))
	}

	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(m.authType()),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	if msg == nil {
		return opts
	}
	return append(opts, dsnOptions(msg.MailOptions(), msg.RcptOptions())...)
}

func (m *NetworkMailer) authType() mail.SMTPAuthType {
	switch strings.ToUpper(m.cfg.AuthType) {
	case "LOGIN":
		return mail.SMTPAuthLogin
	case "CRAM-MD5":
		return mail.SMTPAuthCramMD5
	default:
		return mail.SMTPAuthPlain
	}
}

// dsnOptions maps the delivery status notification parameters go-mail
// understands (RET= on MAIL FROM, NOTIFY= on RCPT TO). Other options are
// not supported by the client and are ignored.
func dsnOptions(mailOpts, rcptOpts []string) []mail.Option {
	var opts []mail.Option

	for _, o := range mailOpts {
		key, value, _ := strings.Cut(o, "=")
		if !strings.EqualFold(key, "RET") {
			continue
		}
		switch strings.ToUpper(value) {
		case "FULL":
			opts = append(opts, mail.WithDSNMailReturnType(mail.DSNMailReturnFull))
		case "HDRS":
			opts = append(opts, mail.WithDSNMailReturnType(mail.DSNMailReturnHeadersOnly))
		}
	}

	for _, o := range rcptOpts {
		key, value, _ := strings.Cut(o, "=")
		if !strings.EqualFold(key, "NOTIFY") {
			continue
		}
		var notify []mail.DSNRcptNotifyOption
		for _, v := range strings.Split(value, ",") {
			switch strings.ToUpper(strings.TrimSpace(v)) {
			case "NEVER":
				notify = append(notify, mail.DSNRcptNotifyNever)
			case "SUCCESS":
				notify = append(notify, mail.DSNRcptNotifySuccess)
			case "FAILURE":
				notify = append(notify, mail.DSNRcptNotifyFailure)
			case "DELAY":
				notify = append(notify, mail.DSNRcptNotifyDelay)
			}
		}
		if len(notify) > 0 {
			opts = append(opts, mail.WithDSNRcptNotifyType(notify...))
		}
	}

	return opts
}
