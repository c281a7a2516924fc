// Package sheets forwards signup records to a Google Apps Script webhook
// that appends rows to the team's spreadsheet.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"server/internal/domain"
)

const defaultTimeout = 5 * time.Second

// The sheet is read by a French team; timestamps are appended in Paris time.
var parisLocation = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		return time.UTC
	}
	return loc
}()

type Options struct {
	WebhookURL string
	HTTPClient *http.Client
}

type Client struct {
	webhookURL string
	client     *http.Client
}

type rowPayload struct {
	LastName     string `json:"lastName"`
	FirstName    string `json:"firstName"`
	Email        string `json:"email"`
	RegisteredAt string `json:"registeredAt"`
}

func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.WebhookURL) == "" {
		return nil, errors.New("sheets webhook url is required")
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{webhookURL: strings.TrimSpace(opts.WebhookURL), client: client}, nil
}

// Name identifies the client in dispatcher logs.
func (c *Client) Name() string { return "sheets" }

// Forward appends one signup row via the webhook.
func (c *Client) Forward(ctx context.Context, user domain.User) error {
	payload := rowPayload{
		LastName:     user.LastName,
		FirstName:    user.FirstName,
		Email:        user.Email,
		RegisteredAt: user.RegisteredAt.In(parisLocation).Format("02/01/2006 15:04"),
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return fmt.Errorf("encode row: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("call webhook: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook status %d", resp.StatusCode)
	}
	return nil
}
