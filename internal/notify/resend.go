package notify

import (
	"context"
	"fmt"
	"html"
	"log/slog"

	"github.com/resend/resend-go/v2"

	"eventbot/internal/event"
	"eventbot/internal/timeutil"
)

// EmailNotifier emails a summary of each published event via the Resend API.
type EmailNotifier struct {
	client      *resend.Client
	fromAddress string
	recipient   string
}

// NewEmailNotifier creates a new Resend email notifier. Returns nil when no
// API key is configured.
func NewEmailNotifier(apiKey, from, recipient string) *EmailNotifier {
	if apiKey == "" {
		return nil
	}
	return &EmailNotifier{
		client:      resend.NewClient(apiKey),
		fromAddress: from,
		recipient:   recipient,
	}
}

// NotifyPublished emails the configured recipient about a published event.
func (n *EmailNotifier) NotifyPublished(ctx context.Context, ev event.Valid) error {
	if n.recipient == "" || n.fromAddress == "" {
		return fmt.Errorf("notifier missing from or recipient address")
	}

	params := &resend.SendEmailRequest{
		From:    n.fromAddress,
		To:      []string{n.recipient},
		Subject: fmt.Sprintf("New Server Event: %s", ev.Name),
		Html:    formatEmailHTML(ev),
	}

	if _, err := n.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}

	slog.Info("email notification sent", "recipient", n.recipient, "event", ev.Name)
	return nil
}

// formatEmailHTML creates the HTML email body
func formatEmailHTML(ev event.Valid) string {
	locationHTML := ""
	if ev.Location != nil {
		locationHTML = fmt.Sprintf(`<p style="margin: 8px 0;"><strong>Location:</strong> %s</p>`, html.EscapeString(*ev.Location))
	}

	descriptionHTML := ""
	if ev.Description != "" {
		descriptionHTML = fmt.Sprintf(`<p style="margin: 16px 0; white-space: pre-wrap;">%s</p>`, html.EscapeString(ev.Description))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f5f5f5;">
  <div style="background-color: white; border-radius: 8px; padding: 24px; box-shadow: 0 2px 4px rgba(0,0,0,0.1);">
    <h2 style="margin: 0 0 16px 0; color: #333;">%s</h2>

    <div style="background: #f8f9fa; padding: 16px; border-radius: 8px; margin: 16px 0; border-left: 4px solid #007bff;">
      <p style="margin: 8px 0;"><strong>Starts:</strong> %s</p>
      <p style="margin: 8px 0;"><strong>Ends:</strong> %s</p>
      %s
    </div>

    %s

    <hr style="margin-top: 32px; border: none; border-top: 1px solid #eee;">
    <p style="color: #999; font-size: 12px; margin-top: 16px;">
      Eventbot - Server Event Assistant
    </p>
  </div>
</body>
</html>`,
		html.EscapeString(ev.Name),
		timeutil.FormatHuman(ev.Start),
		timeutil.FormatHuman(ev.End),
		locationHTML,
		descriptionHTML,
	)
}
