// Package news queries top headlines from NewsAPI.
package news

import (
	"context"
	"fmt"

	"github.com/Raimguhinov/briefing-go/internal/provider"
	"github.com/go-resty/resty/v2"
)

const headlinesPath = "/v2/top-headlines"

type response struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Title string `json:"title"`
	} `json:"articles"`
}

// Client -.
type Client struct {
	http   *resty.Client
	apiKey string
}

// New -.
func New(baseURL, apiKey string, opts provider.Options) *Client {
	return &Client{
		http:   provider.NewClient(baseURL, opts),
		apiKey: apiKey,
	}
}

// Headlines returns today's top headlines for country, most prominent first.
func (c *Client) Headlines(ctx context.Context, country string) ([]string, error) {
	var out response
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"country": country,
			"apiKey":  c.apiKey,
		}).
		SetResult(&out).
		SetError(&out).
		Get(headlinesPath)
	if err != nil {
		return nil, fmt.Errorf("news - Headlines - Get: %w", err)
	}
	if resp.IsError() || out.Status != "ok" {
		return nil, fmt.Errorf("news - Headlines - status %d: %s", resp.StatusCode(), out.Message)
	}

	headlines := make([]string, 0, len(out.Articles))
	for _, a := range out.Articles {
		if a.Title != "" {
			headlines = append(headlines, a.Title)
		}
	}
	return headlines, nil
}
