// Package clearlead provides an HTTP client for the ClearLead company
// enrichment API.
package clearlead

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/lodestarhq/lodestar/internal/domain/enrichment"
	"github.com/lodestarhq/lodestar/internal/port/enricher"
)

// Client talks to the ClearLead enrichment API. Resilience (circuit
// breaking, single-flight) is owned by the caller; the client only does
// one straight HTTP round trip per Enrich call.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new ClearLead client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Configured reports whether the client has an API key to authenticate with.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type enrichResponse struct {
	Company struct {
		Description   string   `json:"description"`
		Sector        string   `json:"sector"`
		EstimatedSize string   `json:"estimated_size"`
		PainPoints    []string `json:"pain_points"`
	} `json:"company"`
}

// Enrich looks up a company by name and domain.
func (c *Client) Enrich(ctx context.Context, req enricher.Request) (*enrichment.Data, error) {
	if c.apiKey == "" {
		return nil, enricher.ErrNoAPIKey
	}

	q := url.Values{}
	q.Set("name", req.Name)
	if req.Domain != "" {
		q.Set("domain", req.Domain)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/companies/enrich?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, enricher.ErrTimeout
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return nil, enricher.ErrTimeout
		}
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, enricher.ErrAuth
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("clearlead API error %d: %s", resp.StatusCode, string(data))
	}

	var body enrichResponse
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("unmarshal enrichment: %w", err)
	}

	return &enrichment.Data{
		Description:   body.Company.Description,
		Sector:        body.Company.Sector,
		EstimatedSize: body.Company.EstimatedSize,
		PainPoints:    body.Company.PainPoints,
	}, nil
}
