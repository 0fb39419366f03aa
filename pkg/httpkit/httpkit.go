package httpkit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// HTTPError interface for HTTP-aware errors with detailed causes
type HTTPError interface {
	HTTPCode() int
	Cause() error
	error
}

// Header constants
const (
	acceptHeader    = "Accept"
	jsonContentType = "application/json"
)

// redactedQuery replaces the query string of URLs quoted in transport errors
const redactedQuery = "REDACTED"

// maxErrorBody bounds how much of an error response is kept as the cause
const maxErrorBody = 512

// Sentinel errors for outbound requests
var (
	ErrRequestCreation = errors.New("creating request")
	ErrRequestFailed   = errors.New("making request")
	ErrDecodeResponse  = errors.New("decoding response")
)

// StatusError is returned when a server answers with a non-200 status
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.Code)
}

// HTTPCode returns the response status code
func (e *StatusError) HTTPCode() int { return e.Code }

// Cause returns the response body the server sent along with the status
func (e *StatusError) Cause() error {
	return errors.New(strings.TrimSpace(e.Body))
}

// GetJSON performs a GET request against endpoint and passes a 200 response body to decode.
// Transport errors never quote the query string, which may carry access tokens.
func GetJSON[T any](ctx context.Context, client *http.Client, endpoint string, decode func(io.Reader) (T, error)) (T, error) {
	var zero T

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return zero, fmt.Errorf("%w: %w", ErrRequestCreation, err)
	}
	req.Header.Set(acceptHeader, jsonContentType)

	resp, err := client.Do(req)
	if err != nil {
		return zero, fmt.Errorf("%w: %w", ErrRequestFailed, withoutQuery(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return zero, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	out, err := decode(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("%w: %w", ErrDecodeResponse, err)
	}
	return out, nil
}

// withoutQuery rebuilds a *url.Error with its query string redacted.
// Other errors are returned unchanged.
func withoutQuery(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}

	u, parseErr := url.Parse(urlErr.URL)
	if parseErr != nil || (u.RawQuery == "" && !u.ForceQuery) {
		return err
	}
	u.RawQuery, u.ForceQuery = redactedQuery, false

	return &url.Error{Op: urlErr.Op, URL: u.String(), Err: urlErr.Err}
}
