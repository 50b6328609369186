package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/inventory-pulse/internal/config"
)

// Client fetches the catalog and daily record feeds as JSON arrays from
// remote HTTP endpoints.
type Client struct {
	httpClient *resty.Client
	itemURL    string
	recordURL  string
}

// NewClient builds a feed client using the provided import configuration.
func NewClient(cfg config.ImportConfig) *Client {
	restyClient := resty.New()
	restyClient.
		SetHeader("Accept", "application/json").
		SetTimeout(30 * time.Second)

	return &Client{
		httpClient: restyClient,
		itemURL:    cfg.ItemFeedURL,
		recordURL:  cfg.RecordFeedURL,
	}
}

// FetchItemRows downloads the catalog feed.
func (c *Client) FetchItemRows(ctx context.Context) ([]map[string]any, error) {
	return c.fetch(ctx, c.itemURL)
}

// FetchRecordRows downloads the daily record feed.
func (c *Client) FetchRecordRows(ctx context.Context) ([]map[string]any, error) {
	return c.fetch(ctx, c.recordURL)
}

func (c *Client) fetch(ctx context.Context, url string) ([]map[string]any, error) {
	if url == "" {
		return nil, fmt.Errorf("feed url must not be empty")
	}

	resp, err := c.httpClient.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", url, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("feed %s returned status %d", url, resp.StatusCode())
	}

	var rows []map[string]any
	if err := json.Unmarshal(resp.Body(), &rows); err != nil {
		return nil, fmt.Errorf("decode feed %s: %w", url, err)
	}
	return rows, nil
}
