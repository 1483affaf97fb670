package fetcher

import (
	"context"
	"time"

	"github.com/Raimguhinov/briefing-go/internal/observability/metrics"
	"github.com/Raimguhinov/briefing-go/pkg/logger"
	"github.com/Raimguhinov/briefing-go/pkg/wallclock"
)

// gate holds what every fetcher shares: the today-only rule, the failure
// texts and the outcome accounting.
type gate struct {
	name       string
	historical string
	failure    string
	now        func() time.Time
	log        *logger.Logger
}

func newGate(name, historical, failure string, l *logger.Logger, now func() time.Time) gate {
	if now == nil {
		now = time.Now
	}
	return gate{
		name:       name,
		historical: historical,
		failure:    failure,
		now:        now,
		log:        l.Component("fetcher/" + name),
	}
}

func (g gate) Name() string { return g.name }

// run checks that at is today before calling lookup, and converts the lookup
// result into an Outcome.
func (g gate) run(ctx context.Context, at time.Time, lookup func(context.Context) (string, error)) Outcome {
	if !wallclock.IsToday(at, g.now()) {
		g.log.Warn("historical data requested", "at", wallclock.Format(at))
		return g.record(Outcome{Kind: HistoricalDataUnsupported, Text: g.historical})
	}

	text, err := lookup(ctx)
	if err != nil {
		return g.Failed(err)
	}

	g.log.Debug("segment fetched", "at", wallclock.Format(at))
	return g.record(Outcome{Kind: OK, Text: text})
}

func (g gate) Failed(err error) Outcome {
	g.log.Error("retrieve segment", logger.Err(err))
	return g.record(Outcome{Kind: ErrorRetrieving, Text: g.failure, Err: err})
}

func (g gate) record(o Outcome) Outcome {
	metrics.IncFetch(g.name, o.Kind.String())
	return o
}
