// Package relay forwards captured leads to the automation webhook that
// places the outbound demo call. This app never dials the voice provider
// directly.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/leadcall-ai/leadcall-api/internal/entity"
)

type Client struct {
	WebhookURL string
	HTTP       *http.Client
}

func NewClient(webhookURL string) *Client {
	return &Client{
		WebhookURL: webhookURL,
		HTTP:       &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) TriggerCall(ctx context.Context, lead *entity.Lead) error {
	if c.WebhookURL == "" {
		return fmt.Errorf("call relay webhook not configured")
	}

	payload := TriggerPayload{
		LeadID:      lead.LeadID,
		Timestamp:   lead.Timestamp,
		Name:        lead.Name,
		Phone:       lead.Phone,
		Email:       lead.Email,
		CompanyName: lead.CompanyName,
		Consent:     lead.Consent,
		Source:      "leadcall-ai-demo",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding trigger payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building trigger request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("relay request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(res.Body, 200))
		return fmt.Errorf("relay returned %d: %s", res.StatusCode, string(detail))
	}

	return nil
}
