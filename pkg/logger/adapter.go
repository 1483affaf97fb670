package logger

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/tracelog"
)

const queryLog = "Query"

// NewTracer adapts the logger to pgx query tracing.
func NewTracer(l *Logger) pgx.QueryTracer {
	return &tracelog.TraceLog{
		Logger:   l,
		LogLevel: tracelog.LogLevelTrace,
	}
}

// Log implements tracelog.Logger. Only query records are forwarded.
func (l *Logger) Log(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	if msg != queryLog {
		return
	}
	attrs := make([]slog.Attr, 0, 2)
	if sql, ok := data["sql"].(string); ok {
		attrs = append(attrs, Query(sql))
	}
	if d, ok := data["time"]; ok {
		attrs = append(attrs, slog.Any("duration", d))
	}
	l.Logger.LogAttrs(ctx, translateLevel(level), "pgx."+msg, attrs...)
}

func translateLevel(level tracelog.LogLevel) slog.Level {
	switch level {
	case tracelog.LogLevelTrace, tracelog.LogLevelDebug, tracelog.LogLevelInfo:
		return slog.LevelDebug
	case tracelog.LogLevelWarn:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
