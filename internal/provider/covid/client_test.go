package covid_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Raimguhinov/briefing-go/internal/provider"
	"github.com/Raimguhinov/briefing-go/internal/provider/covid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/v1/data", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("structure"), "newCasesByPublishDate")

		w.Header().Set("Content-Type", "application/json")
		switch filters := r.URL.Query().Get("filters"); {
		case strings.HasSuffix(filters, "date=2020-11-10"):
			_, _ = w.Write([]byte(`{"data":[{"date":"2020-11-10","newCasesByPublishDate":25}]}`))
		case strings.HasSuffix(filters, "date=2020-11-09"):
			_, _ = w.Write([]byte(`{"data":[{"date":"2020-11-09","newCasesByPublishDate":0},{"date":"2020-11-09","newCasesByPublishDate":36}]}`))
		default:
			t.Errorf("unexpected filters %q", filters)
		}
	}))
	defer srv.Close()

	c := covid.New(srv.URL, provider.Options{Timeout: time.Second})
	rate, err := c.Lookup(context.Background(), "Exeter", time.Date(2020, time.November, 10, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Equal(t, 25, rate.Count)
	assert.Equal(t, -11, rate.Delta)
	assert.EqualValues(t, 2, calls.Load())
}

func TestLookupNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	c := covid.New(srv.URL, provider.Options{Timeout: time.Second})
	_, err := c.Lookup(context.Background(), "Bristol", time.Now())

	assert.ErrorIs(t, err, provider.ErrNoData)
}

func TestLookupServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := covid.New(srv.URL, provider.Options{Timeout: time.Second})
	_, err := c.Lookup(context.Background(), "Exeter", time.Now())

	require.Error(t, err)
	assert.NotErrorIs(t, err, provider.ErrNoData)
}
