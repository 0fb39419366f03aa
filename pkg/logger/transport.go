package logger

import (
	"log/slog"
	"net/http"
	"time"
)

// Transport logs every outbound HTTP request made through it
type Transport struct {
	next   http.RoundTripper
	logger *slog.Logger
}

// NewTransport wraps next (http.DefaultTransport when nil) with request logging.
// Query strings are never logged since they may carry access tokens.
func NewTransport(logger *slog.Logger, next http.RoundTripper) *Transport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Transport{next: next, logger: logger}
}

// RoundTrip implements http.RoundTripper
func (t *Transport) RoundTrip(r *http.Request) (*http.Response, error) {
	start := time.Now()

	resp, err := t.next.RoundTrip(r)

	// Build base log attributes
	attrs := []slog.Attr{
		slog.String("method", r.Method),
		slog.String("host", r.URL.Host),
		slog.String("path", r.URL.Path),
		slog.Duration("duration", time.Since(start)),
	}

	// Determine log level based on outcome
	level := slog.LevelDebug
	switch {
	case err != nil:
		level = slog.LevelError
		attrs = append(attrs, slog.String("error", err.Error()))
	case resp.StatusCode >= http.StatusBadRequest:
		level = slog.LevelWarn
		attrs = append(attrs, slog.Int("status", resp.StatusCode))
	default:
		attrs = append(attrs, slog.Int("status", resp.StatusCode))
	}

	// Log with constant message - let structured fields tell the story
	t.logger.LogAttrs(r.Context(), level, "HTTP", attrs...)

	return resp, err
}
