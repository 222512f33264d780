package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tayloree/dinecli/internal/menu"
)

const userAgent = "dinecli/1.0 (+https://github.com/tayloree/dinecli)"

// Client fetches raw menu rows from a dining feed.
type Client struct {
	httpClient *http.Client
	feedURL    string
}

// NewClient creates a feed client for feedURL.
func NewClient(feedURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		feedURL:    feedURL,
	}
}

func (c *Client) getAndDecode(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, reqURL)
	}

	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if err := dec.Decode(new(struct{})); !errors.Is(err, io.EOF) {
		return fmt.Errorf("decoding response: trailing JSON content")
	}
	return nil
}

// FetchRecords fetches every menu row served between from and to inclusive.
func (c *Client) FetchRecords(ctx context.Context, from, to time.Time) ([]menu.RawRecord, error) {
	if c.feedURL == "" {
		return nil, fmt.Errorf("fetching records: no feed URL configured")
	}
	if to.Before(from) {
		return nil, fmt.Errorf("fetching records: end %s is before start %s",
			to.Format(menu.DateLayout), from.Format(menu.DateLayout))
	}

	params := url.Values{
		"start": {from.Format(menu.DateLayout)},
		"end":   {to.Format(menu.DateLayout)},
	}

	var resp RecordsResponse
	if err := c.getAndDecode(ctx, c.feedURL+"?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("fetching records: %w", err)
	}
	return resp.Records, nil
}

// FetchStore fetches rows for the range and builds a store from them.
func (c *Client) FetchStore(ctx context.Context, from, to time.Time) (*menu.Store, error) {
	rows, err := c.FetchRecords(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return menu.NewStore(rows)
}
