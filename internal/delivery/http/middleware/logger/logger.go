package logger

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Raimguhinov/briefing-go/pkg/logger"
)

// New logs one line per request with its status, size and duration.
func New(log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		log := log.Component("middleware/logger")

		log.Info("logger middleware enabled")

		fn := func(w http.ResponseWriter, r *http.Request) {
			entry := log.With(
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			t1 := time.Now()
			defer func() {
				level := slog.LevelInfo
				if ww.Status() >= http.StatusInternalServerError {
					level = slog.LevelError
				}

				entry.LogAttrs(r.Context(), level,
					fmt.Sprintf("%s %s - %s", r.Method, r.RequestURI, statusText(ww.Status())),
					slog.Int("bytes", ww.BytesWritten()),
					slog.String("duration", time.Since(t1).String()),
				)
			}()

			next.ServeHTTP(ww, r)
		}

		return http.HandlerFunc(fn)
	}
}

func statusText(status int) string {
	switch {
	case status < 200:
		return color.New(color.FgBlue).Sprintf("%03d", status)
	case status < 300:
		return color.New(color.FgGreen).Sprintf("%03d", status)
	case status < 400:
		return color.New(color.FgCyan).Sprintf("%03d", status)
	case status < 500:
		return color.New(color.FgYellow).Sprintf("%03d", status)
	default:
		return color.New(color.FgRed).Sprintf("%03d", status)
	}
}
