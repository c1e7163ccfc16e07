package crm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// Client talks to the cloud CRM's transfer endpoints. The base URL is
// injected so the client can be pointed at a mock endpoint in tests instead
// of branching on the environment at module scope.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Records fetches the raw transfer records visible to the bearer credential.
// The date window is attached only when both bounds are present; sending one
// side alone would let the CRM silently assume a bound on the missing side.
func (c *Client) Records(ctx context.Context, credential, status string, start, end *time.Time) ([]Record, error) {
	endpoint := fmt.Sprintf("%s/records", c.baseURL)
	var response RecordsResponse
	if err := c.get(ctx, endpoint, credential, status, start, end, &response); err != nil {
		return nil, err
	}

	return response.Data, nil
}

// Summary fetches the server-side aggregate for the same filter window.
func (c *Client) Summary(ctx context.Context, credential, status string, start, end *time.Time) (Summary, error) {
	endpoint := fmt.Sprintf("%s/records/summary", c.baseURL)
	var response SummaryResponse
	if err := c.get(ctx, endpoint, credential, status, start, end, &response); err != nil {
		return Summary{}, err
	}

	if response.Status != "success" {
		return Summary{}, fmt.Errorf("crm summary returned status %q", response.Status)
	}

	return response.Data, nil
}

func (c *Client) get(ctx context.Context, endpoint, credential, status string, start, end *time.Time, out any) error {
	params := url.Values{}
	if status != "" {
		params.Set("status", status)
	}
	if start != nil && end != nil {
		params.Set("start_date", start.Format(time.RFC3339))
		params.Set("end_date", end.Format(time.RFC3339))
	}
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+credential)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("crm request failed",
			zap.String("endpoint", req.URL.Path),
			zap.String("status", resp.Status),
		)
		return fmt.Errorf("crm returned %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode crm response: %w", err)
	}

	return nil
}
