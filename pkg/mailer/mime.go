package mailer

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/wneessen/go-mail"
	"golang.org/x/text/encoding/htmlindex"
)

// MIME converts the message to a go-mail message.
// Options are applied after the message charset, so they can override it.
// Subject, body and HTML are transcoded from UTF-8 into the message charset;
// an unknown charset is an ErrInvalidMessage.
func (m *Message) MIME(opts ...mail.MsgOption) (*mail.Msg, error) {
	encode, err := charsetEncoder(m.p.Charset)
	if err != nil {
		return nil, err
	}
	subject, err := encode(m.p.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: subject: %v", ErrInvalidMessage, err)
	}
	body, err := encode(m.p.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: body: %v", ErrInvalidMessage, err)
	}
	html, err := encode(m.p.HTML)
	if err != nil {
		return nil, fmt.Errorf("%w: html: %v", ErrInvalidMessage, err)
	}

	opts = append([]mail.MsgOption{mail.WithCharset(mail.Charset(m.p.Charset))}, opts...)
	msg := mail.NewMsg(opts...)

	if err := msg.From(m.p.Sender); err != nil {
		return nil, fmt.Errorf("%w: sender: %v", ErrInvalidMessage, err)
	}
	if err := msg.To(m.p.Recipients...); err != nil {
		return nil, fmt.Errorf("%w: recipients: %v", ErrInvalidMessage, err)
	}
	if len(m.p.CC) > 0 {
		if err := msg.Cc(m.p.CC...); err != nil {
			return nil, fmt.Errorf("%w: cc: %v", ErrInvalidMessage, err)
		}
	}
	if len(m.p.BCC) > 0 {
		if err := msg.Bcc(m.p.BCC...); err != nil {
			return nil, fmt.Errorf("%w: bcc: %v", ErrInvalidMessage, err)
		}
	}
	if m.p.ReplyTo != "" {
		if err := msg.ReplyTo(m.p.ReplyTo); err != nil {
			return nil, fmt.Errorf("%w: reply-to: %v", ErrInvalidMessage, err)
		}
	}

	msg.Subject(subject)
	msg.SetDateWithValue(m.p.Date)
	msg.SetMessageID()

	for _, name := range slices.Sorted(maps.Keys(m.p.ExtraHeaders)) {
		msg.SetGenHeader(mail.Header(name), m.p.ExtraHeaders[name])
	}

	switch {
	case body != "" && html != "":
		msg.SetBodyString(mail.TypeTextPlain, body)
		msg.AddAlternativeString(mail.TypeTextHTML, html)
	case html != "":
		msg.SetBodyString(mail.TypeTextHTML, html)
	default:
		msg.SetBodyString(mail.TypeTextPlain, body)
	}

	for _, a := range m.p.Attachments {
		var fileOpts []mail.FileOption
		if a.ContentType != "" {
			fileOpts = append(fileOpts, mail.WithFileContentType(mail.ContentType(a.ContentType)))
		}
		if a.ContentID != "" {
			fileOpts = append(fileOpts, mail.WithFileContentID(a.ContentID))
		}
		if err := msg.AttachReader(a.Filename, bytes.NewReader(a.Content), fileOpts...); err != nil {
			return nil, fmt.Errorf("%w: attachment %s: %v", ErrInvalidMessage, a.Filename, err)
		}
	}

	return msg, nil
}

// charsetEncoder returns a function converting UTF-8 text to charset.
// UTF-8 text is passed through unchanged.
func charsetEncoder(charset string) (func(string) (string, error), error) {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, fmt.Errorf("%w: charset %q: %v", ErrInvalidMessage, charset, err)
	}
	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		return func(s string) (string, error) { return s, nil }, nil
	}
	encoder := enc.NewEncoder()
	return encoder.String, nil
}

// WriteTo writes the message in wire format, headers followed by the MIME body.
// Parts use 8bit transfer encoding so text appears verbatim.
func (m *Message) WriteTo(w io.Writer) (int64, error) {
	msg, err := m.MIME(mail.WithEncoding(mail.NoEncoding))
	if err != nil {
		return 0, err
	}
	return msg.WriteTo(w)
}
