package mailer

import (
	"fmt"
	"maps"
	"slices"
	"time"
)

// DefaultCharset is used when a message does not set one.
const DefaultCharset = "utf-8"

// Recipient formats a name and email into RFC 5322 address format.
// Returns "Name <email>" if name is provided, otherwise just email.
func Recipient(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

// Attachment represents an email attachment.
// Attachments are stored and passed to the transport untouched.
type Attachment struct {
	Filename    string // Display name for the attachment
	ContentType string // MIME type (e.g., "application/pdf")
	ContentID   string // Optional Content-ID for inline attachments
	Content     []byte // Raw file content
}

// MessageParams enumerates every field of a Message.
// Zero values select the defaults noted per field.
type MessageParams struct {
	Date         time.Time         // Default: time of construction
	ExtraHeaders map[string]string // Custom headers
	Subject      string            // Required for sending
	Sender       string            // Required for sending (or the configured default sender)
	ReplyTo      string            // Reply-to address
	Body         string            // Plain text content
	HTML         string            // HTML content
	Charset      string            // Default: DefaultCharset
	Recipients   []string          // At least one required for sending
	CC           []string          // Carbon copy recipients
	BCC          []string          // Blind carbon copy recipients
	Attachments  []Attachment      // File attachments
	MailOptions  []string          // SMTP MAIL FROM options, transport specific
	RcptOptions  []string          // SMTP RCPT TO options, transport specific
}

// Message is an immutable email ready to be handed to a Mailer.
// Build it with NewMessage or NewTemplatedMessage.
type Message struct {
	p MessageParams
}

// NewMessage constructs a Message from literal fields.
func NewMessage(p MessageParams) *Message {
	if p.Date.IsZero() {
		p.Date = time.Now()
	}
	if p.Charset == "" {
		p.Charset = DefaultCharset
	}
	return &Message{p: cloneParams(p)}
}

// Params returns a copy of the fields the message was built from, defaults applied.
func (m *Message) Params() MessageParams { return cloneParams(m.p) }

func (m *Message) Subject() string                 { return m.p.Subject }
func (m *Message) Sender() string                  { return m.p.Sender }
func (m *Message) ReplyTo() string                 { return m.p.ReplyTo }
func (m *Message) Body() string                    { return m.p.Body }
func (m *Message) HTML() string                    { return m.p.HTML }
func (m *Message) Charset() string                 { return m.p.Charset }
func (m *Message) Date() time.Time                 { return m.p.Date }
func (m *Message) Recipients() []string            { return slices.Clone(m.p.Recipients) }
func (m *Message) CC() []string                    { return slices.Clone(m.p.CC) }
func (m *Message) BCC() []string                   { return slices.Clone(m.p.BCC) }
func (m *Message) Attachments() []Attachment       { return slices.Clone(m.p.Attachments) }
func (m *Message) ExtraHeaders() map[string]string { return maps.Clone(m.p.ExtraHeaders) }
func (m *Message) MailOptions() []string           { return slices.Clone(m.p.MailOptions) }
func (m *Message) RcptOptions() []string           { return slices.Clone(m.p.RcptOptions) }

// WithSender returns a copy of the message with the sender replaced.
func (m *Message) WithSender(sender string) *Message {
	p := cloneParams(m.p)
	p.Sender = sender
	return &Message{p: p}
}

// Validate reports whether the message is ready for dispatch.
// Body and HTML may both be empty.
func (m *Message) Validate() error {
	if m.p.Subject == "" {
		return ErrNoSubject
	}
	if m.p.Sender == "" {
		return ErrNoSender
	}
	if len(m.p.Recipients) == 0 {
		return ErrNoRecipient
	}
	return nil
}

func cloneParams(p MessageParams) MessageParams {
	p.Recipients = slices.Clone(p.Recipients)
	p.CC = slices.Clone(p.CC)
	p.BCC = slices.Clone(p.BCC)
	p.Attachments = slices.Clone(p.Attachments)
	p.ExtraHeaders = maps.Clone(p.ExtraHeaders)
	p.MailOptions = slices.Clone(p.MailOptions)
	p.RcptOptions = slices.Clone(p.RcptOptions)
	return p
}
