package mailer

import "errors"

var (
	// ErrNoRecipient indicates no recipient was specified.
	ErrNoRecipient = errors.New("message must have at least one recipient")

	// ErrNoSender indicates no sender address was set.
	ErrNoSender = errors.New("message must have a sender")

	// ErrNoSubject indicates no subject was provided.
	ErrNoSubject = errors.New("message must have a subject")

	// ErrNoAppContext indicates template rendering was requested
	// without an application context bound to ctx.
	ErrNoAppContext = errors.New("no application context: templates cannot be rendered")

	// ErrTemplateNotFound indicates the template file was not found.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrLayoutNotFound indicates the layout file was not found.
	ErrLayoutNotFound = errors.New("layout not found")

	// ErrRenderFailed indicates template rendering failed.
	ErrRenderFailed = errors.New("failed to render template")

	// ErrInvalidFrontmatter indicates invalid YAML frontmatter.
	ErrInvalidFrontmatter = errors.New("invalid frontmatter")

	// ErrSendFailed indicates the transport failed to deliver the message.
	ErrSendFailed = errors.New("failed to send email")

	// ErrInvalidMessage indicates the message could not be converted to MIME.
	ErrInvalidMessage = errors.New("invalid message")
)
