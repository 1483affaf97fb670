// Package covid queries daily case counts from the UK coronavirus dashboard API.
package covid

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Raimguhinov/briefing-go/internal/provider"
	"github.com/go-resty/resty/v2"
)

const (
	dataPath   = "/v1/data"
	dateLayout = "2006-01-02"
)

var structure = mustStructure()

func mustStructure() string {
	b, err := json.Marshal(map[string]string{
		"date":                  "date",
		"newCasesByPublishDate": "newCasesByPublishDate",
	})
	if err != nil {
		panic(err)
	}
	return string(b)
}

// Rate is the case count of one day and its change against the day before.
type Rate struct {
	Date  time.Time
	Count int
	Delta int
}

type record struct {
	Date     string `json:"date"`
	NewCases *int   `json:"newCasesByPublishDate"`
}

type response struct {
	Data []record `json:"data"`
}

// Client -.
type Client struct {
	http *resty.Client
}

// New -.
func New(baseURL string, opts provider.Options) *Client {
	return &Client{http: provider.NewClient(baseURL, opts)}
}

// Lookup returns the new cases published for region on date, compared to the
// previous day.
func (c *Client) Lookup(ctx context.Context, region string, date time.Time) (Rate, error) {
	current, err := c.dailyCases(ctx, region, date)
	if err != nil {
		return Rate{}, err
	}
	previous, err := c.dailyCases(ctx, region, date.AddDate(0, 0, -1))
	if err != nil {
		return Rate{}, err
	}
	return Rate{
		Date:  date,
		Count: current,
		Delta: current - previous,
	}, nil
}

func (c *Client) dailyCases(ctx context.Context, region string, date time.Time) (int, error) {
	var out response
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("filters", fmt.Sprintf("areaName=%s;date=%s", region, date.Format(dateLayout))).
		SetQueryParam("structure", structure).
		SetResult(&out).
		Get(dataPath)
	if err != nil {
		return 0, fmt.Errorf("covid - dailyCases - Get: %w", err)
	}
	if resp.StatusCode() == 204 {
		return 0, provider.ErrNoData
	}
	if resp.IsError() {
		return 0, fmt.Errorf("covid - dailyCases - status %d", resp.StatusCode())
	}
	if len(out.Data) == 0 {
		return 0, provider.ErrNoData
	}
	// Some areas answer with several rows; the last one carries the figures.
	last := out.Data[len(out.Data)-1]
	if last.NewCases == nil {
		return 0, fmt.Errorf("covid - dailyCases - %s: missing newCasesByPublishDate", last.Date)
	}
	return *last.NewCases, nil
}
