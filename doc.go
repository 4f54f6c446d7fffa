// Package courier is a small web application shell with a mail extension.
//
// The mail extension adds two things on top of a plain mail transport:
// messages whose body and HTML are rendered from template files, and a
// suppressed mode that writes fully formed MIME messages to an output stream
// instead of sending them.
//
// # Quick Start
//
//	cfg, err := courier.LoadConfig()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	app := courier.New(
//	    courier.WithConfig(cfg),
//	    courier.WithTemplates(templates),
//	)
//	mail := courier.InitMail(app, os.Stdout)
//
//	msg, err := courier.NewTemplatedMessage(app.Context(ctx), courier.TemplatedParams{
//	    MessageParams: courier.MessageParams{
//	        Subject:    "Hello",
//	        Recipients: []string{"user@example.com"},
//	    },
//	    TemplateBody: "welcome.txt",
//	    Data:         map[string]any{"user": "World"},
//	})
//	if err != nil {
//	    return err
//	}
//	return mail.Send(ctx, msg)
//
// # Suppressed Sending
//
// With MAIL_SUPPRESS_SEND=true, InitMail registers a sink mailer instead of a
// network transport. Every message is validated, serialized and written to
// the sink, followed by a blank line. Nothing is sent.
//
// # Templates
//
// Templates live under MAIL_TEMPLATE_DIR of the templates filesystem. The
// extension selects the engine: .html and .htm use html/template, .md is
// rendered to HTML with goldmark, anything else uses text/template. A
// template may start with YAML frontmatter naming a layout:
//
//	---
//	layout: base.html
//	---
//	<p>Hi {{.user}}</p>
//
// # Transports
//
// MAIL_TRANSPORT selects the network mailer: smtp (default, go-mail) or
// resend (Resend API). A mailer registered with WithExtension(ExtensionMail, m)
// takes precedence over both.
//
// # HTTP
//
// App implements http.Handler. Every request context is bound to the app, so
// handlers can call NewTemplatedMessage and MailerFromContext directly with
// r.Context().
package courier
