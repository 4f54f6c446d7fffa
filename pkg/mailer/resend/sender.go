package resend

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v3"

	"github.com/dmitrymomot/courier/pkg/mailer"
)

// Sender implements mailer.Mailer using the Resend API.
type Sender struct {
	emails emailSender
}

// emailSender is the part of the Resend client the sender uses.
type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// New creates a new Resend sender.
func New(cfg Config) *Sender {
	return &Sender{emails: resend.NewClient(cfg.APIKey).Emails}
}

// Send implements mailer.Mailer.
// Date, charset, and SMTP options have no Resend equivalent and are not sent.
func (s *Sender) Send(ctx context.Context, msg *mailer.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	req := &resend.SendEmailRequest{
		From:    msg.Sender(),
		To:      msg.Recipients(),
		Subject: msg.Subject(),
		Html:    msg.HTML(),
		Text:    msg.Body(),
		ReplyTo: msg.ReplyTo(),
		Cc:      msg.CC(),
		Bcc:     msg.BCC(),
		Headers: msg.ExtraHeaders(),
	}

	if attachments := msg.Attachments(); len(attachments) > 0 {
		req.Attachments = convertAttachments(attachments)
	}

	if _, err := s.emails.SendWithContext(ctx, req); err != nil {
		return errors.Join(mailer.ErrSendFailed, fmt.Errorf("resend: %w", err))
	}

	return nil
}

func convertAttachments(attachments []mailer.Attachment) []*resend.Attachment {
	result := make([]*resend.Attachment, len(attachments))
	for i, a := range attachments {
		result[i] = &resend.Attachment{
			Filename:    a.Filename,
			Content:     a.Content,
			ContentType: a.ContentType,
			ContentId:   a.ContentID,
		}
	}
	return result
}
