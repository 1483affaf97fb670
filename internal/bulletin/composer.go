// Package bulletin assembles the text body of alarms and notifications.
package bulletin

import (
	"context"
	"strings"
	"time"

	"github.com/Raimguhinov/briefing-go/internal/briefing"
	"github.com/Raimguhinov/briefing-go/internal/fetcher"
	"github.com/Raimguhinov/briefing-go/pkg/wallclock"
	"golang.org/x/sync/errgroup"
)

const _defaultTimeout = 5 * time.Second

// Composer builds bulletins from the configured fetchers.
type Composer struct {
	infection fetcher.Fetcher
	weather   fetcher.Fetcher
	news      fetcher.Fetcher
	timeout   time.Duration
}

// Option -.
type Option func(*Composer)

// Timeout bounds a whole composition. Segments still missing at the deadline
// degrade to their fetcher's failure text.
func Timeout(d time.Duration) Option {
	return func(c *Composer) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New -.
func New(infection, weather, news fetcher.Fetcher, opts ...Option) *Composer {
	c := &Composer{
		infection: infection,
		weather:   weather,
		news:      news,
		timeout:   _defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose returns the alarm bulletin for at: header, infection rate, then
// weather and news when selected. It always succeeds.
func (c *Composer) Compose(ctx context.Context, at time.Time, flags briefing.Flags) string {
	fetchers := []fetcher.Fetcher{c.infection}
	if flags.Weather {
		fetchers = append(fetchers, c.weather)
	}
	if flags.News {
		fetchers = append(fetchers, c.news)
	}

	segments := append([]string{wallclock.Header(at)}, c.fetchAll(ctx, at, fetchers)...)
	return join(segments)
}

// Notification returns the infection-rate only body of the daily notification.
func (c *Composer) Notification(ctx context.Context, at time.Time) string {
	return join(c.fetchAll(ctx, at, []fetcher.Fetcher{c.infection}))
}

func (c *Composer) fetchAll(ctx context.Context, at time.Time, fetchers []fetcher.Fetcher) []string {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	texts := make([]string, len(fetchers))
	var eg errgroup.Group
	for i, f := range fetchers {
		if f == nil {
			continue
		}
		eg.Go(func() error {
			texts[i] = fetchWithin(ctx, f, at).Text
			return nil
		})
	}
	_ = eg.Wait()

	return texts
}

// fetchWithin returns f's outcome, or its failure outcome if ctx ends first.
func fetchWithin(ctx context.Context, f fetcher.Fetcher, at time.Time) fetcher.Outcome {
	done := make(chan fetcher.Outcome, 1)
	go func() {
		done <- f.Fetch(ctx, at)
	}()

	select {
	case out := <-done:
		return out
	case <-ctx.Done():
		return f.Failed(ctx.Err())
	}
}

func join(segments []string) string {
	var b strings.Builder
	for _, s := range segments {
		if s == "" {
			continue
		}
		b.WriteString(s)
		b.WriteString("\n")
	}
	return b.String()
}
