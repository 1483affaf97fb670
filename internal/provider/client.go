// Package provider holds the HTTP clients of the external content providers.
package provider

import (
	"errors"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrNoData is returned when a provider answers successfully but has nothing
// for the requested day or area.
var ErrNoData = errors.New("provider: no data")

const (
	_defaultTimeout = 5 * time.Second
	_defaultRetries = 1
)

// Options configures the shared resty client.
type Options struct {
	Timeout time.Duration
	Retries int
}

// NewClient builds the resty client used by every provider.
func NewClient(baseURL string, opts Options) *resty.Client {
	if opts.Timeout <= 0 {
		opts.Timeout = _defaultTimeout
	}
	if opts.Retries < 0 {
		opts.Retries = _defaultRetries
	}
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.Retries).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(time.Second).
		SetHeader("Accept", "application/json")
}
