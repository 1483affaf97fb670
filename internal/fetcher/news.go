package fetcher

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Raimguhinov/briefing-go/pkg/logger"
)

const (
	newsName       = "news"
	newsHistorical = "Historical news data not supported!"
	newsHeadlines  = 3
)

var errNoHeadlines = errors.New("no headlines returned")

// HeadlineLookup is implemented by news.Client.
type HeadlineLookup interface {
	Headlines(ctx context.Context, country string) ([]string, error)
}

// News lists the top headlines of a country.
type News struct {
	gate
	lookup  HeadlineLookup
	country string
}

func NewNews(lookup HeadlineLookup, country string, l *logger.Logger, now func() time.Time) *News {
	return &News{
		gate:    newGate(newsName, newsHistorical, retrieveFailure, l, now),
		lookup:  lookup,
		country: country,
	}
}

func (f *News) Fetch(ctx context.Context, at time.Time) Outcome {
	return f.run(ctx, at, func(ctx context.Context) (string, error) {
		headlines, err := f.lookup.Headlines(ctx, f.country)
		if err != nil {
			return "", err
		}
		if len(headlines) == 0 {
			return "", errNoHeadlines
		}
		if len(headlines) > newsHeadlines {
			headlines = headlines[:newsHeadlines]
		}
		return "Top news headlines:\n" + strings.Join(headlines, "\n"), nil
	})
}
