package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/mailgun/mailgun-go/v4"
)

// MailgunConfig holds the credentials for Mailgun delivery.
type MailgunConfig struct {
	Domain string
	APIKey string
	From   string
}

func (c *MailgunConfig) validate() error {
	if c.Domain == "" || c.APIKey == "" || c.From == "" {
		return errors.New("invalid Mailgun configuration")
	}
	return nil
}

// Sender delivers a mail event to its recipient.
type Sender interface {
	Send(ctx context.Context, event *Event) error
}

// MailgunSender implements Sender for Mailgun.
type MailgunSender struct {
	mg   *mailgun.MailgunImpl
	from string
}

// NewMailgunSender returns a Sender backed by Mailgun, or an error when the
// config is incomplete.
func NewMailgunSender(cfg MailgunConfig) (*MailgunSender, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &MailgunSender{mg: mailgun.NewMailgun(cfg.Domain, cfg.APIKey), from: cfg.From}, nil
}

// Send renders the event into a message and hands it to Mailgun.
func (s *MailgunSender) Send(ctx context.Context, event *Event) error {
	subject, body, err := render(event)
	if err != nil {
		return err
	}
	message := s.mg.NewMessage(s.from, subject, body)
	if err := message.AddRecipient(event.Email); err != nil {
		return err
	}
	_, _, err = s.mg.Send(ctx, message)
	return err
}

func render(event *Event) (subject, body string, err error) {
	name := event.Name
	if name == "" {
		name = "there"
	}
	switch event.Kind {
	case KindVerification:
		subject = "Verify your email address"
		body = fmt.Sprintf("Hi %s,\n\nPlease verify your email address by opening the link below:\n\n%s\n\nIf you did not create an account, ignore this message.\n", name, event.VerifyURL)
	case KindWelcome:
		subject = "Welcome aboard"
		body = fmt.Sprintf("Hi %s,\n\nYour account is ready. You can now sign in and start organizing events.\n", name)
	default:
		return "", "", fmt.Errorf("unknown mail kind %q", event.Kind)
	}
	return subject, body, nil
}
