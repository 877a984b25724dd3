package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/Gobusters/ectologger"

	"github.com/HackYourFuture/dojo/pkg/httpclient"
	"github.com/HackYourFuture/dojo/pkg/platform/tracing"
)

// WebhookSender posts notification events to a chat webhook.
type WebhookSender struct {
	client     *httpclient.Client
	webhookURL string
	logger     ectologger.Logger
}

// NewWebhookSender creates a sender that delivers to the given webhook URL.
func NewWebhookSender(client *httpclient.Client, webhookURL string, logger ectologger.Logger) *WebhookSender {
	return &WebhookSender{
		client:     client,
		webhookURL: webhookURL,
		logger:     logger,
	}
}

// webhookPayload is the message body the chat webhook expects.
type webhookPayload struct {
	Text string `json:"text"`
}

// Send posts the event to the webhook. One attempt, no retries; the dispatcher
// decides what to do with a failure.
func (d *WebhookSender) Send(ctx context.Context, event *Event) error {
	ctx, span := tracing.StartSpan(ctx, "WebhookSender.Send")
	defer span.End()

	payload := webhookPayload{Text: formatMessage(event)}

	resp, err := d.client.PostJSON(ctx, d.webhookURL, payload, nil)
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	d.logger.WithContext(ctx).WithFields(map[string]any{
		"event":      event.Type,
		"trainee_id": event.TraineeID,
	}).Debug("Notification delivered")

	return nil
}

func formatMessage(event *Event) string {
	var sb strings.Builder
	sb.WriteString(event.Summary)
	for _, line := range event.Details {
		sb.WriteString("\n• ")
		sb.WriteString(line)
	}
	return sb.String()
}
