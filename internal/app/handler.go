package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Raimguhinov/briefing-go/internal/briefing"
	"github.com/Raimguhinov/briefing-go/internal/calendar"
	"github.com/Raimguhinov/briefing-go/internal/scheduler"
	"github.com/Raimguhinov/briefing-go/pkg/logger"
)

// Engine is the part of the scheduler the HTTP layer drives.
type Engine interface {
	List() scheduler.Overview
	CreateAlarm(ctx context.Context, req scheduler.Request) (briefing.Alarm, bool, error)
	DismissAlarm(ctx context.Context, title string) (bool, error)
	DismissNotification(ctx context.Context, title string) (bool, error)
	Tick(ctx context.Context) (scheduler.Report, error)
	Reset(ctx context.Context) error
}

type handler struct {
	sched Engine
	daily *scheduler.Daily
	log   *logger.Logger
}

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

type tickResponse struct {
	scheduler.Report
	Error string `json:"error,omitempty"`
}

func (h *handler) overview(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.sched.List())
}

func (h *handler) createAlarm(w http.ResponseWriter, r *http.Request) {
	var req scheduler.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, briefing.Wrap(err, briefing.ErrInvalid, "malformed request body"))
		return
	}

	alarm, created, err := h.sched.CreateAlarm(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.writeJSON(w, status, alarm)
}

func (h *handler) dismissAlarm(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sched.DismissAlarm(r.Context(), titleParam(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) dismissNotification(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sched.DismissNotification(r.Context(), titleParam(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) tick(w http.ResponseWriter, r *http.Request) {
	report, err := h.sched.Tick(r.Context())
	if err != nil {
		h.log.Error("tick", "request_id", middleware.GetReqID(r.Context()), logger.Err(err))
		h.writeJSON(w, http.StatusInternalServerError, tickResponse{Report: report, Error: err.Error()})
		return
	}
	h.writeJSON(w, http.StatusOK, tickResponse{Report: report})
}

func (h *handler) reset(w http.ResponseWriter, r *http.Request) {
	if err := h.sched.Reset(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) exportCalendar(w http.ResponseWriter, r *http.Request) {
	overview := h.sched.List()
	feed := calendar.Feed{
		Pending: overview.Pending,
		Fired:   overview.Fired,
	}
	if h.daily != nil {
		opt := h.daily.Option(time.Now())
		feed.Daily = &opt
	}

	data, etag, err := calendar.Marshal(feed)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// index serves the legacy query interface: it applies the dismissals and the
// alarm request carried in the query, runs a tick and returns the overview.
func (h *handler) index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	if title := q.Get("alarm_item"); title != "" {
		if _, err := h.sched.DismissAlarm(ctx, title); err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	if title := q.Get("notif"); title != "" {
		if _, err := h.sched.DismissNotification(ctx, title); err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	if at := q.Get("alarm"); at != "" {
		req := scheduler.Request{
			Title:   q.Get("two"),
			Time:    at,
			Weather: q.Get("weather") != "",
			News:    q.Get("news") != "",
		}
		if _, _, err := h.sched.CreateAlarm(ctx, req); err != nil {
			h.writeError(w, r, err)
			return
		}
	}

	if _, err := h.sched.Tick(ctx); err != nil {
		h.log.Error("tick", "request_id", middleware.GetReqID(ctx), logger.Err(err))
	}
	h.writeJSON(w, http.StatusOK, h.sched.List())
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("encode response", logger.Err(err))
	}
}

func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := briefing.ErrorCode(err)

	status := http.StatusInternalServerError
	if code == briefing.ErrInvalid {
		status = http.StatusBadRequest
	} else {
		h.log.Error("request failed",
			"request_id", middleware.GetReqID(r.Context()),
			"path", r.URL.Path,
			logger.Err(err),
		)
	}

	h.writeJSON(w, status, errorResponse{
		Code:  string(code),
		Error: briefing.ErrorDescription(err),
	})
}

// titleParam returns the decoded {title} segment.
func titleParam(r *http.Request) string {
	title := chi.URLParam(r, "title")
	if r.URL.RawPath == "" {
		return title
	}
	if unescaped, err := url.PathUnescape(title); err == nil {
		return unescaped
	}
	return title
}
