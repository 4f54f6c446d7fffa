package mailer

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

// SinkMailer writes messages to an io.Writer instead of sending them.
// Used when sending is suppressed in development and tests.
// Writes are not synchronized; share a sink between goroutines only with
// a writer that is safe for concurrent use.
type SinkMailer struct {
	w      io.Writer
	logger *slog.Logger
}

// NewSinkMailer creates a SinkMailer writing to w. If w is nil, os.Stdout is used.
// If logger is nil, nothing is logged.
func NewSinkMailer(w io.Writer, logger *slog.Logger) *SinkMailer {
	if w == nil {
		w = os.Stdout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SinkMailer{w: w, logger: logger}
}

// Send validates the message and writes its wire format followed by a blank line.
// It never opens a network connection.
//
// Addresses are parsed the same way network transports parse them, so a
// sender or recipient that is not a valid RFC 5322 address (a bare "admin",
// for instance) fails with ErrInvalidMessage and nothing is written.
func (s *SinkMailer) Send(ctx context.Context, msg *Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	n, err := msg.WriteTo(s.w)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(s.w, "\r\n"); err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "email written to sink (not sent)",
		slog.String("delivery_id", uuid.NewString()),
		slog.String("from", msg.Sender()),
		slog.String("to", strings.Join(msg.Recipients(), ", ")),
		slog.String("subject", msg.Subject()),
		slog.Int64("bytes", n),
	)
	return nil
}
