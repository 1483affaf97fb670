package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/Raimguhinov/briefing-go/internal/provider/weather"
	"github.com/Raimguhinov/briefing-go/pkg/logger"
)

const (
	weatherName       = "weather"
	weatherHistorical = "Historical weather not supported!"
	retrieveFailure   = "Error in retrieving data. Please check log for more information."
)

// WeatherLookup is implemented by weather.Client.
type WeatherLookup interface {
	Lookup(ctx context.Context, city string, date time.Time) (weather.Report, error)
}

// Weather reports the current conditions of a city.
type Weather struct {
	gate
	lookup WeatherLookup
	city   string
}

func NewWeather(lookup WeatherLookup, city string, l *logger.Logger, now func() time.Time) *Weather {
	return &Weather{
		gate:   newGate(weatherName, weatherHistorical, retrieveFailure, l, now),
		lookup: lookup,
		city:   city,
	}
}

func (f *Weather) Fetch(ctx context.Context, at time.Time) Outcome {
	return f.run(ctx, at, func(ctx context.Context) (string, error) {
		report, err := f.lookup.Lookup(ctx, f.city, at)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Weather in %s is %s, %.1fºC", report.City, report.Description, report.TemperatureCelsius), nil
	})
}
