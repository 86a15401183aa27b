package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// WebhookChannel POSTs the notification to a configured HTTP endpoint.
type WebhookChannel struct {
	client *resty.Client
	url    string
}

func NewWebhookChannel(url string) *WebhookChannel {
	client := resty.New().
		SetTimeout(5 * time.Second).
		SetHeader("Content-Type", "application/json")
	return &WebhookChannel{client: client, url: url}
}

func (c *WebhookChannel) Name() string { return "webhook" }

func (c *WebhookChannel) Send(ctx context.Context, recipient, subject, message string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"recipient": recipient,
			"subject":   subject,
			"message":   message,
		}).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("failed to call webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode())
	}
	return nil
}
