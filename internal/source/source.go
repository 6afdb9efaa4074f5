// Package source fetches per-platform download counts for tracked projects.
//
// Each platform is a Source. Sources never retry; a failed fetch surfaces as
// a *FetchError and the caller decides whether to fall back to zero.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/joescharf/modcount/internal/models"
)

// DefaultTimeout is used when no http.Client is supplied.
const DefaultTimeout = 30 * time.Second

// Source returns the download count of a project on one platform.
type Source interface {
	Platform() models.Platform
	Count(ctx context.Context, id string) (uint64, error)
}

// Logger is the subset of output.UI that sources write diagnostics to.
type Logger interface {
	VerboseLog(format string, a ...any)
	Warning(format string, a ...any)
}

type nopLogger struct{}

func (nopLogger) VerboseLog(string, ...any) {}
func (nopLogger) Warning(string, ...any) {}

// FetchError describes a failed count lookup.
type FetchError struct {
	Platform models.Platform
	ID       string
	URL      string
	Status   int // HTTP status, 0 if no response was received
	Err      error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: HTTP %d: %v", e.Platform, e.ID, e.Status, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Platform, e.ID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// request is a prepared GET against a platform endpoint.
type request struct {
	client   *http.Client
	platform models.Platform
	id       string
	url      string
	header   http.Header
}

func (r request) fail(status int, err error) *FetchError {
	return &FetchError{Platform: r.platform, ID: r.id, URL: r.url, Status: status, Err: err}
}

// get performs the request and returns the body of a 2xx response.
func (r request) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, r.fail(0, err)
	}
	for k, vs := range r.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, r.fail(0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, r.fail(resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, r.fail(resp.StatusCode, fmt.Errorf("read body: %w", err))
	}
	return body, nil
}

// getJSON performs the request and decodes the JSON body into v.
func (r request) getJSON(ctx context.Context, v any) error {
	body, err := r.get(ctx)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return r.fail(http.StatusOK, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func defaultClient(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return &http.Client{Timeout: DefaultTimeout}
}
