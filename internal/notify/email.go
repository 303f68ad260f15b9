package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/resend/resend-go/v2"
)

// emailSender is the subset of the Resend client used here.
type emailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// EmailNotifier delivers notifications through Resend.
type EmailNotifier struct {
	emails emailSender
	from   string
	to     []string
}

func NewEmailNotifier(apiKey, from string, to []string) *EmailNotifier {
	client := resend.NewClient(apiKey)
	return &EmailNotifier{emails: client.Emails, from: from, to: to}
}

func (n *EmailNotifier) Publish(ctx context.Context, message string) error {
	subject := message
	if i := strings.IndexByte(subject, '\n'); i >= 0 {
		subject = subject[:i]
	}

	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      n.to,
		Subject: subject,
		Text:    message,
		Html: fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 480px; margin: 0 auto; padding: 24px;"><pre style="white-space: pre-wrap;">%s</pre></div>`,
			html.EscapeString(message)),
	}

	if _, err := n.emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
