// Package mailer builds email messages, optionally from templates, and hands
// them to a transport.
//
// # Architecture
//
// The package consists of four main components:
//
//   - Message: immutable email value built with NewMessage or NewTemplatedMessage
//   - Renderer: turns a template name and data into a string (FSRenderer is the default)
//   - Mailer: interface that transports implement
//   - SinkMailer: Mailer that writes the wire format to an io.Writer instead of sending
//
// Network transports live in subpackages: smtp (go-mail) and resend.
//
// # Messages
//
// MessageParams lists every field a message can carry:
//
//	msg := mailer.NewMessage(mailer.MessageParams{
//		Subject:    "Hello",
//		Sender:     "from@example.org",
//		Recipients: []string{"to@example.com"},
//		Body:       "Hello, World!",
//	})
//
// Date defaults to the construction time and Charset to DefaultCharset.
// A message is immutable; accessors return copies.
//
// # Templated messages
//
// NewTemplatedMessage renders TemplateBody and TemplateHTML with Data through
// the Renderer bound to ctx. The application binds its renderer with
// App.Context, and the app's router does the same for every request:
//
//	msg, err := mailer.NewTemplatedMessage(app.Context(ctx), mailer.TemplatedParams{
//		MessageParams: mailer.MessageParams{
//			Subject:    "Hello",
//			Sender:     "from@example.org",
//			Recipients: []string{"to@example.com"},
//		},
//		TemplateBody: "welcome.txt",
//		TemplateHTML: "welcome.html",
//		Data:         map[string]any{"user": "User"},
//	})
//
// A rendered template replaces the literal Body or HTML entirely. Without
// templates the result equals NewMessage with the same fields.
//
// # Templates
//
// FSRenderer picks the engine by extension: .html uses html/template, .md is
// executed as text/template and converted from markdown to HTML, anything else
// is text/template. Templates may start with YAML frontmatter:
//
//	---
//	layout: base.html
//	---
//	# Welcome
//
//	Hello {{.user}}!
//
// The layout receives the rendered HTML as {{.Content}}.
// Referencing a key missing from Data is a render error.
//
// # Errors
//
//   - ErrNoAppContext: templates requested without a renderer bound to ctx
//   - ErrRenderFailed: template rendering failed (joined with the detail below)
//   - ErrTemplateNotFound, ErrLayoutNotFound, ErrInvalidFrontmatter
//   - ErrNoSubject, ErrNoSender, ErrNoRecipient: message not ready for dispatch
//   - ErrInvalidMessage: message could not be converted to MIME
//   - ErrSendFailed: transport failed to deliver
package mailer
