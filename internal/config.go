package internal

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dmitrymomot/courier/pkg/logger"
	"github.com/dmitrymomot/courier/pkg/mailer/resend"
	"github.com/dmitrymomot/courier/pkg/mailer/smtp"
)

// Mail transports selectable with MAIL_TRANSPORT.
const (
	TransportSMTP   = "smtp"
	TransportResend = "resend"
)

// Config is the application configuration.
// The zero value is usable: sending is not suppressed and SMTP targets localhost defaults.
type Config struct {
	Mail      MailConfig
	Templates TemplatesConfig
	Resend    resend.Config
	Sentry    logger.SentryConfig
}

// MailConfig configures the mail extension.
type MailConfig struct {
	Transport     string `env:"MAIL_TRANSPORT" envDefault:"smtp"`
	DefaultSender string `env:"MAIL_DEFAULT_SENDER"`
	SMTP          smtp.Config
	// SuppressSend writes messages to the sink given to InitMail instead of sending them.
	SuppressSend bool `env:"MAIL_SUPPRESS_SEND" envDefault:"false"`
}

// TemplatesConfig locates message templates on disk.
type TemplatesConfig struct {
	Dir       string `env:"MAIL_TEMPLATE_DIR" envDefault:"templates"`
	LayoutDir string `env:"MAIL_LAYOUT_DIR" envDefault:"layouts"`
}

// LoadConfig reads the configuration from environment variables.
// Files, if given, are loaded first as .env files; variables already set in
// the environment take precedence over them.
func LoadConfig(files ...string) (Config, error) {
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return Config{}, fmt.Errorf("loading env files: %w", err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}
