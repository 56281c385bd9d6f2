package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/smallbiznis/scholara/internal/config"
	"go.uber.org/zap"
)

// Sender delivers one notification to the external messaging gateway.
// Delivery is best-effort; billing state never depends on the result.
type Sender interface {
	Send(ctx context.Context, row OutboxRow) error
}

// WebhookSender posts notifications as JSON to the configured gateway URL.
type WebhookSender struct {
	url    string
	client *retryablehttp.Client
}

func NewWebhookSender(cfg config.Config, log *zap.Logger) Sender {
	if !cfg.Notification.Enabled || cfg.Notification.WebhookURL == "" {
		return NoopSender{}
	}

	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = 10 * time.Second
	client.Logger = nil

	return &WebhookSender{
		url:    cfg.Notification.WebhookURL,
		client: client,
	}
}

func (s *WebhookSender) Send(ctx context.Context, row OutboxRow) error {
	body, err := json.Marshal(map[string]any{
		"tenant_id":  row.TenantID.String(),
		"event_type": row.EventType,
		"contact":    row.Contact,
		"payload":    map[string]any(row.Payload),
	})
	if err != nil {
		return err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notification gateway returned %d", resp.StatusCode)
	}
	return nil
}

// NoopSender drops messages when notifications are disabled.
type NoopSender struct{}

func (NoopSender) Send(ctx context.Context, row OutboxRow) error { return nil }
