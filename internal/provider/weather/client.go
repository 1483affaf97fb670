// Package weather queries current conditions from OpenWeatherMap.
package weather

import (
	"context"
	"fmt"
	"time"

	"github.com/Raimguhinov/briefing-go/internal/provider"
	"github.com/go-resty/resty/v2"
)

const currentPath = "/data/2.5/weather"

// Report is the current weather of a city.
type Report struct {
	City               string
	Description        string
	TemperatureCelsius float64
}

type response struct {
	Name    string `json:"name"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main *struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
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

// Lookup returns the current weather for city. The API only serves current
// conditions, so date is accepted for interface symmetry and must be today.
func (c *Client) Lookup(ctx context.Context, city string, _ time.Time) (Report, error) {
	var out response
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":     city,
			"appid": c.apiKey,
			"units": "metric",
		}).
		SetResult(&out).
		Get(currentPath)
	if err != nil {
		return Report{}, fmt.Errorf("weather - Lookup - Get: %w", err)
	}
	if resp.IsError() {
		return Report{}, fmt.Errorf("weather - Lookup - status %d", resp.StatusCode())
	}
	if len(out.Weather) == 0 || out.Main == nil {
		return Report{}, fmt.Errorf("weather - Lookup - incomplete payload for %q", city)
	}

	name := out.Name
	if name == "" {
		name = city
	}
	return Report{
		City:               name,
		Description:        out.Weather[0].Description,
		TemperatureCelsius: out.Main.Temp,
	}, nil
}
