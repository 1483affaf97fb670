// Package fetcher turns provider lookups into bulletin segments. Fetchers
// never return errors: every lookup ends in an Outcome whose Text can be
// shown as is.
package fetcher

import (
	"context"
	"time"
)

type Kind int

const (
	OK Kind = iota
	HistoricalDataUnsupported
	ErrorRetrieving
)

func (k Kind) String() string {
	switch k {
	case OK:
		return "ok"
	case HistoricalDataUnsupported:
		return "historical_unsupported"
	case ErrorRetrieving:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome is the result of one fetch.
type Outcome struct {
	Kind Kind
	Text string
	Err  error
}

// Fetcher produces one bulletin segment for the day of at.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, at time.Time) Outcome
	// Failed is the segment shown when the fetch could not complete.
	Failed(err error) Outcome
}
