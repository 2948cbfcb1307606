package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

const maxBodyBytes = 4 << 20

// Credentials supplies the bearer token and is told when the backend rejects it.
type Credentials interface {
	BearerToken(ctx context.Context) string
	Invalidate(ctx context.Context)
}

type Options struct {
	BaseURL     string
	Timeout     time.Duration
	MaxFailures int
	Credentials Credentials
	Logger      zerolog.Logger
	HTTPClient  *http.Client
}

// Client talks to the storefront REST backend. Responses are expected in the
// {success, message, data} envelope; bare JSON bodies are decoded as-is.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	credentials Credentials
	breaker     *gobreaker.CircuitBreaker[*http.Response]
	logger      zerolog.Logger
}

func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	maxFailures := opts.MaxFailures
	if maxFailures <= 0 {
		maxFailures = 5
	}
	logger := opts.Logger

	breaker := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        "storefront-api",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(maxFailures)
		},
		// A caller abandoning its request says nothing about backend health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("api circuit state changed")
		},
	})

	return &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		httpClient:  httpClient,
		credentials: opts.Credentials,
		breaker:     breaker,
		logger:      logger,
	}
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, query url.Values, body, out interface{}) error {
	return c.Do(ctx, http.MethodPatch, path, query, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, nil)
}

type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Do issues exactly one HTTP request; it never retries.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = bytes.NewReader(raw)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := RequestID(ctx)
	req.Header.Set("X-Request-ID", requestID)
	if c.credentials != nil {
		if token := c.credentials.BearerToken(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		return c.httpClient.Do(req)
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("method", method).Str("path", path).Str("request_id", requestID).Msg("api request failed")
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read response: %w", ErrUnreachable, err)
	}
	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Str("request_id", requestID).
		Msg("api request")

	if resp.StatusCode >= http.StatusBadRequest {
		if resp.StatusCode == http.StatusUnauthorized && c.credentials != nil {
			c.credentials.Invalidate(ctx)
		}
		return &Error{Status: resp.StatusCode, Message: extractMessage(raw)}
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Success != nil {
		if !*env.Success {
			return &Error{Status: resp.StatusCode, Message: env.Message}
		}
		if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
			return nil
		}
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
		return nil
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
