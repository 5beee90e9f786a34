package translation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrProvider marks failures reported by a translation provider.
var ErrProvider = errors.New("translation provider error")

// Request is one prompt sent to a provider.
type Request struct {
	SystemPrompt string
	UserPrompt   string
}

// Translator sends prompts to a language model.
type Translator interface {
	// Name identifies the provider in cache keys and logs.
	Name() string
	Translate(ctx context.Context, req Request) (string, error)
}

// Option configures an HTTP-backed Translator.
type Option func(*httpClient)

// WithBaseURL points the client at a different endpoint.
func WithBaseURL(url string) Option {
	return func(c *httpClient) { c.baseURL = url }
}

// WithRetry sets the attempt count and the backoff unit between attempts.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(c *httpClient) {
		if attempts > 0 {
			c.maxRetries = attempts
		}
		c.backoff = backoff
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) { c.hc.Timeout = d }
}

// httpClient holds the transport shared by the providers.
type httpClient struct {
	baseURL    string
	maxRetries int
	backoff    time.Duration
	hc         *http.Client
}

func newHTTPClient(baseURL string, opts []Option) httpClient {
	c := httpClient{
		baseURL:    baseURL,
		maxRetries: 3,
		backoff:    2 * time.Second,
		hc: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// withRetry runs call until it succeeds, fails permanently or runs out of attempts.
func (c *httpClient) withRetry(ctx context.Context, call func() (string, error)) (string, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * c.backoff
			log.Warn().Int("attempt", attempt+1).Dur("backoff", backoff).Msg("Retrying translation")
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		result, err := call()
		if err == nil {
			return result, nil
		}
		lastErr = err

		// Don't retry on context cancellation.
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		var retryable *retryableError
		if !errors.As(err, &retryable) {
			return "", err
		}
	}

	return "", fmt.Errorf("translation failed after %d retries: %w", c.maxRetries, lastErr)
}

// postJSON sends body to url and returns the response body of a 200 reply.
func (c *httpClient) postJSON(ctx context.Context, url string, body []byte, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, &retryableError{fmt.Errorf("API call: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &retryableError{fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, &retryableError{fmt.Errorf("%w: retryable error (status %d): %s", ErrProvider, resp.StatusCode, string(respBody))}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: API error (status %d): %s", ErrProvider, resp.StatusCode, string(respBody))
	}

	return respBody, nil
}
