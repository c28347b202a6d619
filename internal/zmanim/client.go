package zmanim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client queries the external zmanim service for a day's named time markers.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the given service base URL. The timeout
// bounds every fetch so a slow upstream cannot hang callers.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves the time markers for a coordinate, timezone and calendar
// date (YYYY-MM-DD). The request is cancellable through ctx.
func (c *Client) Fetch(ctx context.Context, lat, lng float64, tzid, date string) (*Response, error) {
	query := url.Values{}
	query.Set("cfg", "json")
	query.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(lng, 'f', -1, 64))
	query.Set("tzid", tzid)
	query.Set("date", date)
	query.Set("sec", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zmanim request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("zmanim request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("zmanim service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read zmanim response: %w", err)
	}

	var parsed Response
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to unmarshal zmanim response: %w", err)
	}
	return &parsed, nil
}
