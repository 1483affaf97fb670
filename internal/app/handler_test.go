package app_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raimguhinov/briefing-go/internal/app"
	"github.com/Raimguhinov/briefing-go/internal/briefing"
	"github.com/Raimguhinov/briefing-go/internal/config"
	"github.com/Raimguhinov/briefing-go/internal/scheduler"
	"github.com/Raimguhinov/briefing-go/internal/store"
	"github.com/Raimguhinov/briefing-go/internal/store/file"
	"github.com/Raimguhinov/briefing-go/pkg/logger"
)

type cannedComposer struct{}

func (cannedComposer) Compose(context.Context, time.Time, briefing.Flags) string { return "bulletin\n" }

func (cannedComposer) Notification(context.Context, time.Time) string { return "infection\n" }

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := store.Open(context.Background(), file.New(filepath.Join(t.TempDir(), "state.json")), logger.Discard())
	require.NoError(t, err)

	daily, err := scheduler.NewDaily(12, 0)
	require.NoError(t, err)

	sched := scheduler.New(st, cannedComposer{}, logger.Discard(), scheduler.WithDaily(daily))
	t.Cleanup(sched.Close)

	srv := httptest.NewServer(app.SetupRouter(logger.Discard(), sched, daily, &config.Config{}))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string, header http.Header) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestCreateAlarm(t *testing.T) {
	srv := newServer(t)
	body := `{"title":"Wake up","time":"2500-02-20T21:03","weather":true}`

	resp := do(t, http.MethodPost, srv.URL+"/api/v1/alarms", body, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	alarm := decode[briefing.Alarm](t, resp)
	assert.Equal(t, "Wake up", alarm.Title)
	assert.True(t, alarm.IncludeWeather)

	resp = do(t, http.MethodPost, srv.URL+"/api/v1/alarms", body, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/v1/briefing", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	overview := decode[scheduler.Overview](t, resp)
	require.Len(t, overview.Pending, 1)
	assert.Equal(t, "Wake up", overview.Pending[0].Title)
}

func TestCreateAlarmInvalid(t *testing.T) {
	srv := newServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"bad time", `{"title":"x","time":"tomorrow"}`},
		{"bad json", `{"title":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, srv.URL+"/api/v1/alarms", tt.body, nil)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "invalid", decode[map[string]string](t, resp)["code"])
		})
	}
}

func TestDismissAlarmByTitle(t *testing.T) {
	srv := newServer(t)
	resp := do(t, http.MethodPost, srv.URL+"/api/v1/alarms", `{"title":"Wake up","time":"2500-02-20T21:03"}`, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, http.MethodDelete, srv.URL+"/api/v1/alarms/Wake%20up", "", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, http.MethodDelete, srv.URL+"/api/v1/alarms/Wake%20up", "", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	overview := decode[scheduler.Overview](t, do(t, http.MethodGet, srv.URL+"/api/v1/briefing", "", nil))
	assert.Empty(t, overview.Pending)
}

func TestTickFiresPastAlarm(t *testing.T) {
	srv := newServer(t)
	resp := do(t, http.MethodPost, srv.URL+"/api/v1/alarms", `{"title":"Old","time":"1231-02-20T21:03"}`, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	alarm := decode[briefing.Alarm](t, resp)
	assert.Equal(t, "bulletin\n", alarm.Body)

	resp = do(t, http.MethodPost, srv.URL+"/api/v1/tick", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := decode[scheduler.Report](t, resp)
	assert.NotEmpty(t, report.TickID)
	assert.Empty(t, report.Fired)

	overview := decode[scheduler.Overview](t, do(t, http.MethodGet, srv.URL+"/api/v1/briefing", "", nil))
	require.Len(t, overview.Fired, 1)
	assert.Equal(t, "Old", overview.Fired[0].Title)
}

func TestIndexQueryInterface(t *testing.T) {
	srv := newServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/index?alarm=2500-02-20T21:03&two=Later&news=news", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	overview := decode[scheduler.Overview](t, resp)
	require.Len(t, overview.Pending, 1)
	assert.Equal(t, "Later", overview.Pending[0].Title)
	assert.True(t, overview.Pending[0].IncludeNews)
	assert.False(t, overview.Pending[0].IncludeWeather)

	resp = do(t, http.MethodGet, srv.URL+"/index?alarm_item=Later", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[scheduler.Overview](t, resp).Pending)

	resp = do(t, http.MethodGet, srv.URL+"/index?alarm=soon", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCalendarExport(t *testing.T) {
	srv := newServer(t)
	resp := do(t, http.MethodPost, srv.URL+"/api/v1/alarms", `{"title":"Wake up","time":"2500-02-20T21:03"}`, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/v1/alarms.ics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/calendar")
	etag := resp.Header.Get("ETag")
	require.NotEmpty(t, etag)

	resp = do(t, http.MethodGet, srv.URL+"/api/v1/alarms.ics", "", http.Header{"If-None-Match": {etag}})
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)
}

func TestReset(t *testing.T) {
	srv := newServer(t)
	resp := do(t, http.MethodPost, srv.URL+"/api/v1/alarms", `{"title":"Wake up","time":"2500-02-20T21:03"}`, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/api/v1/reset", "", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	overview := decode[scheduler.Overview](t, do(t, http.MethodGet, srv.URL+"/api/v1/briefing", "", nil))
	assert.Empty(t, overview.Pending)
	assert.Empty(t, overview.Fired)
	assert.Empty(t, overview.Notifications)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/metrics", "", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
