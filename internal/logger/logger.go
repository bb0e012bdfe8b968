package logger

import (
	"log/slog"
	"os"
)

const RequestIDKey = "request_id"

func New() *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(h)
}

func WithRequestID(l *slog.Logger, requestID string) *slog.Logger {
	if requestID == "" {
		return l
	}
	return l.With(slog.String(RequestIDKey, requestID))
}
