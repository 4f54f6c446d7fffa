package mailer

import "context"

// Mailer defines the minimal interface that transports must implement.
// It accepts a fully-prepared Message and handles delivery or recording.
type Mailer interface {
	// Send delivers a message.
	// Transports return an error wrapping ErrSendFailed if delivery fails.
	Send(ctx context.Context, msg *Message) error
}

// MailerFunc adapts a function to the Mailer interface.
type MailerFunc func(ctx context.Context, msg *Message) error

// Send calls f(ctx, msg).
func (f MailerFunc) Send(ctx context.Context, msg *Message) error {
	return f(ctx, msg)
}
