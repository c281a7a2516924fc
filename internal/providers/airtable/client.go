// Package airtable mirrors signup records into an Airtable base.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"server/internal/domain"
)

const (
	defaultBaseURL = "https://api.airtable.com/v0"
	defaultTable   = "Utilisateurs"
	defaultTimeout = 5 * time.Second
	sourceTag      = "sosdivorce.fr"
)

type Options struct {
	APIKey     string
	BaseID     string
	Table      string
	BaseURL    string
	HTTPClient *http.Client
}

type Client struct {
	apiKey  string
	baseID  string
	table   string
	baseURL string
	client  *http.Client
}

// Record field names match the Airtable base's French column headers.
type recordFields struct {
	FirstName    string `json:"Prénom"`
	LastName     string `json:"Nom"`
	Email        string `json:"Email"`
	RegisteredAt string `json:"Date d'inscription"`
	Source       string `json:"Source,omitempty"`
}

type createRequest struct {
	Fields recordFields `json:"fields"`
}

type record struct {
	ID     string       `json:"id"`
	Fields recordFields `json:"fields"`
}

type listResponse struct {
	Records []record `json:"records"`
}

func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" || strings.TrimSpace(opts.BaseID) == "" {
		return nil, errors.New("airtable api key and base id are required")
	}
	table := strings.TrimSpace(opts.Table)
	if table == "" {
		table = defaultTable
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		apiKey:  strings.TrimSpace(opts.APIKey),
		baseID:  strings.TrimSpace(opts.BaseID),
		table:   table,
		baseURL: baseURL,
		client:  client,
	}, nil
}

// Name identifies the client in dispatcher logs.
func (c *Client) Name() string { return "airtable" }

// Forward creates one record for the signup.
func (c *Client) Forward(ctx context.Context, user domain.User) error {
	payload := createRequest{Fields: recordFields{
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        user.Email,
		RegisteredAt: user.RegisteredAt.UTC().Format(time.RFC3339),
		Source:       sourceTag,
	}}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tableURL(), &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("call airtable: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("airtable status %d", resp.StatusCode)
	}
	return nil
}

// List returns up to 100 users mirrored in the base.
func (c *Client) List(ctx context.Context) ([]domain.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.tableURL()+"?maxRecords=100", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call airtable: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("airtable status %d", resp.StatusCode)
	}
	var out listResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	users := make([]domain.User, 0, len(out.Records))
	for _, rec := range out.Records {
		u := domain.User{
			ID:        rec.ID,
			FirstName: rec.Fields.FirstName,
			LastName:  rec.Fields.LastName,
			Email:     rec.Fields.Email,
		}
		if ts, err := time.Parse(time.RFC3339, rec.Fields.RegisteredAt); err == nil {
			u.RegisteredAt = ts
		}
		users = append(users, u)
	}
	return users, nil
}

func (c *Client) tableURL() string {
	return fmt.Sprintf("%s/%s/%s", c.baseURL, c.baseID, url.PathEscape(c.table))
}
