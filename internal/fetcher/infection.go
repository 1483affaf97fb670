package fetcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Raimguhinov/briefing-go/internal/provider"
	"github.com/Raimguhinov/briefing-go/internal/provider/covid"
	"github.com/Raimguhinov/briefing-go/pkg/logger"
	"github.com/Raimguhinov/briefing-go/pkg/wallclock"
)

const (
	infectionName       = "infection_rate"
	infectionHistorical = "Historical infection data not supported!"
	infectionFailure    = "Error accessing API. Check log for more details."
)

// InfectionLookup is implemented by covid.Client.
type InfectionLookup interface {
	Lookup(ctx context.Context, region string, date time.Time) (covid.Rate, error)
}

// InfectionRate reports the daily case increase for a region.
type InfectionRate struct {
	gate
	lookup InfectionLookup
	region string
}

func NewInfectionRate(lookup InfectionLookup, region string, l *logger.Logger, now func() time.Time) *InfectionRate {
	return &InfectionRate{
		gate:   newGate(infectionName, infectionHistorical, infectionFailure, l, now),
		lookup: lookup,
		region: region,
	}
}

// Fetch reports the figures of the day before at, the most recent day the
// statistics are published for.
func (f *InfectionRate) Fetch(ctx context.Context, at time.Time) Outcome {
	out := f.run(ctx, at, func(ctx context.Context) (string, error) {
		rate, err := f.lookup.Lookup(ctx, f.region, wallclock.PreviousDay(at))
		if err != nil {
			return "", err
		}
		return FormatInfectionRate(f.region, rate), nil
	})
	if errors.Is(out.Err, provider.ErrNoData) {
		out.Text = fmt.Sprintf("COVID-19 infection data for %s unavailable through PHE database for given date", f.region)
	}
	return out
}

// FormatInfectionRate renders the infection segment.
func FormatInfectionRate(region string, rate covid.Rate) string {
	direction, delta := "up", rate.Delta
	if delta < 0 {
		direction, delta = "down", -delta
	}
	return fmt.Sprintf(
		"Daily COVID-19 case increase in %s was %d on %s, %s %d from the previous day.",
		region, rate.Count, wallclock.ReportDate(rate.Date), direction, delta,
	)
}
