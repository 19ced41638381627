package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

var (
	ErrCircuitOpen = errors.New("circuit breaker open")
	ErrServerError = errors.New("server error")
)

type Response struct {
	StatusCode int
	Body       []byte
}

type Interface interface {
	Get(ctx context.Context, path string) (*Response, error)
}

// Client wraps the outbound HTTP calls to data providers with a timeout,
// bounded retries and a circuit breaker. GetFunc overrides the transport
// entirely; tests use it to stub provider responses.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	breaker    *gobreaker.CircuitBreaker
	GetFunc    func(ctx context.Context, path string) (*Response, error)
}

type Options struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

func New(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}

	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "upstream",
		Timeout: opts.Timeout,
	})

	return &Client{
		baseURL: opts.BaseURL,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		maxRetries: opts.MaxRetries,
		breaker:    breaker,
	}
}

func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	if c.GetFunc != nil {
		return c.GetFunc(ctx, path)
	}

	var fullURL string
	if c.baseURL == "" || strings.HasPrefix(path, "http") {
		fullURL = path // Absolute URLs pass through untouched
	} else {
		fullURL = c.baseURL + path
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		resp, err := c.doOnce(ctx, fullURL)
		if err == nil {
			return resp, nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}

		lastErr = err
		if attempt < c.maxRetries {
			delay := time.Duration(1<<attempt) * 100 * time.Millisecond
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, fullURL string) (*Response, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer func(body io.ReadCloser) {
			_ = body.Close()
		}(resp.Body)

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		// 5xx trips the breaker; other statuses are the caller's problem
		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("%w: %d", ErrServerError, resp.StatusCode)
		}

		return &Response{
			StatusCode: resp.StatusCode,
			Body:       body,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*Response), nil
}
