package internal

import (
	"context"

	"github.com/dmitrymomot/courier/pkg/mailer"
)

type appKey struct{}

// AppFromContext returns the app bound to ctx by App.Context.
func AppFromContext(ctx context.Context) (*App, error) {
	if ctx == nil {
		return nil, mailer.ErrNoAppContext
	}
	a, ok := ctx.Value(appKey{}).(*App)
	if !ok || a == nil {
		return nil, mailer.ErrNoAppContext
	}
	return a, nil
}

// MailerFromContext returns the mailer registered on the app bound to ctx.
func MailerFromContext(ctx context.Context) (mailer.Mailer, error) {
	a, err := AppFromContext(ctx)
	if err != nil {
		return nil, err
	}
	ext, ok := a.Extension(ExtensionMail)
	if !ok {
		return nil, ErrMailNotInitialized
	}
	m, ok := ext.(mailer.Mailer)
	if !ok {
		return nil, ErrMailNotInitialized
	}
	return m, nil
}
