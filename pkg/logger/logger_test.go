package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juan-malbeclabs/solana/pkg/logger"
)

// logEntry represents a parsed log entry for testing
type logEntry struct {
	Time     string  `json:"time"`
	Level    string  `json:"level"`
	Msg      string  `json:"msg"`
	Method   string  `json:"method"`
	Host     string  `json:"host"`
	Path     string  `json:"path"`
	Status   int     `json:"status"`
	Duration float64 `json:"duration"` // slog logs duration as nanoseconds (number)
	Error    string  `json:"error,omitempty"`
}

// parseLogEntry parses the last JSON log line
func parseLogEntry(t *testing.T, logOutput string) logEntry {
	t.Helper()

	lines := strings.Split(strings.TrimSpace(logOutput), "\n")
	lastLine := lines[len(lines)-1]

	var entry logEntry
	err := json.Unmarshal([]byte(lastLine), &entry)
	require.NoError(t, err, "Should parse log entry as JSON")

	return entry
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("it writes json with british timestamps", func(t *testing.T) {
		t.Parallel()

		// Arrange
		var buf bytes.Buffer
		log := logger.NewFromConfig(logger.Config{LogLevel: "info", Output: &buf})

		// Act
		log.Info("hello")

		// Assert
		entry := parseLogEntry(t, buf.String())
		assert.Equal(t, "INFO", entry.Level)
		assert.Equal(t, "hello", entry.Msg)
		_, err := time.Parse(logger.BritishTimeFormat, entry.Time)
		assert.NoError(t, err)
	})

	t.Run("it writes text when human friendly", func(t *testing.T) {
		t.Parallel()

		// Arrange
		var buf bytes.Buffer
		log := logger.NewFromConfig(logger.Config{LogLevel: "info", LogHumanFriendly: true, Output: &buf})

		// Act
		log.Info("hello", slog.Int("rows", 3))

		// Assert
		assert.Contains(t, buf.String(), "msg=hello rows=3")
	})

	t.Run("it filters below the configured level", func(t *testing.T) {
		t.Parallel()

		// Arrange
		var buf bytes.Buffer
		log := logger.NewFromConfig(logger.Config{LogLevel: "error", Output: &buf})

		// Act
		log.Info("dropped")

		// Assert
		assert.Empty(t, buf.String())
	})
}

// swaps the process streams, so it must not run in parallel
func TestNewFromConfigDefaultsToStderr(t *testing.T) {
	t.Run("it keeps stdout free for the run summary", func(t *testing.T) {
		// Arrange
		dir := t.TempDir()
		stdout, err := os.Create(filepath.Join(dir, "stdout"))
		require.NoError(t, err)
		stderr, err := os.Create(filepath.Join(dir, "stderr"))
		require.NoError(t, err)

		origStdout, origStderr := os.Stdout, os.Stderr
		os.Stdout, os.Stderr = stdout, stderr
		t.Cleanup(func() { os.Stdout, os.Stderr = origStdout, origStderr })

		log := logger.NewFromConfig(logger.Config{LogLevel: "info"})

		// Act
		log.Info("collecting")
		require.NoError(t, stdout.Close())
		require.NoError(t, stderr.Close())

		// Assert
		written, err := os.ReadFile(filepath.Join(dir, "stdout"))
		require.NoError(t, err)
		assert.Empty(t, written)

		logged, err := os.ReadFile(filepath.Join(dir, "stderr"))
		require.NoError(t, err)
		assert.Equal(t, "collecting", parseLogEntry(t, string(logged)).Msg)
	})
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, logger.ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, logger.ParseLevel("WARN"))
	assert.Equal(t, slog.LevelInfo, logger.ParseLevel("nonsense"))
}

func TestTransport(t *testing.T) {
	t.Parallel()

	t.Run("it logs successful requests at debug level without the query", func(t *testing.T) {
		t.Parallel()

		// Arrange
		var logBuffer bytes.Buffer
		log := slog.New(slog.NewJSONHandler(&logBuffer, &slog.HandlerOptions{Level: slog.LevelDebug}))

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		client := &http.Client{Transport: logger.NewTransport(log, nil)}

		// Act
		resp, err := client.Get(server.URL + "/1.2.3.4/json?token=secret")
		require.NoError(t, err)
		_ = resp.Body.Close()

		// Assert
		entry := parseLogEntry(t, logBuffer.String())
		assert.Equal(t, "DEBUG", entry.Level)
		assert.Equal(t, "HTTP", entry.Msg)
		assert.Equal(t, http.MethodGet, entry.Method)
		assert.Equal(t, "/1.2.3.4/json", entry.Path)
		assert.Equal(t, http.StatusOK, entry.Status)
		assert.Greater(t, entry.Duration, 0.0)
		assert.NotContains(t, logBuffer.String(), "secret")
	})

	t.Run("it logs error statuses at warn level", func(t *testing.T) {
		t.Parallel()

		// Arrange
		var logBuffer bytes.Buffer
		log := slog.New(slog.NewJSONHandler(&logBuffer, &slog.HandlerOptions{Level: slog.LevelInfo}))

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		client := &http.Client{Transport: logger.NewTransport(log, http.DefaultTransport)}

		// Act
		resp, err := client.Get(server.URL + "/x")
		require.NoError(t, err)
		_ = resp.Body.Close()

		// Assert
		entry := parseLogEntry(t, logBuffer.String())
		assert.Equal(t, "WARN", entry.Level)
		assert.Equal(t, http.StatusTooManyRequests, entry.Status)
	})

	t.Run("it logs transport failures at error level", func(t *testing.T) {
		t.Parallel()

		// Arrange
		var logBuffer bytes.Buffer
		log := slog.New(slog.NewJSONHandler(&logBuffer, &slog.HandlerOptions{Level: slog.LevelInfo}))

		failing := roundTripFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		})
		client := &http.Client{Transport: logger.NewTransport(log, failing)}

		// Act
		_, err := client.Get("http://example.invalid/x")

		// Assert
		require.Error(t, err)
		entry := parseLogEntry(t, logBuffer.String())
		assert.Equal(t, "ERROR", entry.Level)
		assert.Equal(t, "connection refused", entry.Error)
		assert.Equal(t, "example.invalid", entry.Host)
	})
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
