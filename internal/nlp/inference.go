// Package nlp provides clients for hosted NLP inference models used during
// symptom analysis: biomedical entity extraction, zero-shot category
// classification, and sentiment-based severity scoring.
package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the hosted inference API base URL.
	DefaultBaseURL = "https://api-inference.huggingface.co"

	// DefaultRequestsPerSecond keeps us under the free-tier rate limit.
	DefaultRequestsPerSecond = 2

	// DefaultMaxResponseBytes caps response body size (4 MB).
	DefaultMaxResponseBytes int64 = 4 * 1024 * 1024

	// Retry policy for model-loading (503) and rate-limit (429) responses.
	inferenceMaxRetries    = 2
	inferenceBaseRetryWait = 1 * time.Second
	inferenceMaxRetryWait  = 20 * time.Second
)

// Client is a shared HTTP client for the hosted inference API with rate
// limiting, bearer auth, and retry on model cold starts.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	MaxBytes   int64
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the inference API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.BaseURL = u }
}

// WithToken sets the API bearer token.
func WithToken(token string) Option {
	return func(c *Client) { c.Token = token }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

// WithRateLimit overrides the requests-per-second limit.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.Limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// NewClient creates an inference API client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		BaseURL:  DefaultBaseURL,
		MaxBytes: DefaultMaxResponseBytes,
		Limiter:  rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), 1),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type loadingResponse struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time"`
}

// Infer posts the payload to the named model and returns the raw response
// body. A 503 means the model is still loading on the hosted side; we wait
// for the advertised warm-up time (capped) and retry.
func (c *Client) Infer(ctx context.Context, modelID string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("nlp: encoding payload: %w", err)
	}

	endpoint, err := url.JoinPath(c.BaseURL, "models", modelID)
	if err != nil {
		return nil, fmt.Errorf("nlp: building URL: %w", err)
	}

	for attempt := 0; attempt <= inferenceMaxRetries; attempt++ {
		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("nlp: rate limit wait: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("nlp: creating request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.Token != "" {
			req.Header.Set("Authorization", "Bearer "+c.Token)
		}

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("nlp: executing request: %w", err)
		}

		switch resp.StatusCode {
		case http.StatusOK:
			r := io.LimitReader(resp.Body, c.MaxBytes+1)
			data, err := io.ReadAll(r)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("nlp: reading response: %w", err)
			}
			if int64(len(data)) > c.MaxBytes {
				return nil, fmt.Errorf("nlp: response exceeds maximum size of %d bytes", c.MaxBytes)
			}
			return data, nil

		case http.StatusServiceUnavailable:
			// Model cold start. The body carries an estimated warm-up time.
			data, _ := io.ReadAll(io.LimitReader(resp.Body, c.MaxBytes))
			resp.Body.Close()
			if attempt >= inferenceMaxRetries {
				return nil, fmt.Errorf("nlp: model %s still loading after %d retries", modelID, inferenceMaxRetries)
			}
			var loading loadingResponse
			wait := inferenceBaseRetryWait * time.Duration(1<<attempt)
			if json.Unmarshal(data, &loading) == nil && loading.EstimatedTime > 0 {
				wait = time.Duration(loading.EstimatedTime * float64(time.Second))
			}
			if wait > inferenceMaxRetryWait {
				wait = inferenceMaxRetryWait
			}
			if err := sleepWithContext(ctx, wait); err != nil {
				return nil, fmt.Errorf("nlp: model warm-up wait canceled: %w", err)
			}

		case http.StatusTooManyRequests:
			retryAfter := retryAfterDuration(resp.Header.Get("Retry-After"))
			resp.Body.Close()
			if attempt >= inferenceMaxRetries {
				return nil, fmt.Errorf("nlp: inference rate limit exceeded (HTTP 429 after %d retries)", inferenceMaxRetries)
			}
			if retryAfter <= 0 {
				retryAfter = inferenceBaseRetryWait * time.Duration(1<<attempt)
				if retryAfter > inferenceMaxRetryWait {
					retryAfter = inferenceMaxRetryWait
				}
			}
			if err := sleepWithContext(ctx, retryAfter); err != nil {
				return nil, fmt.Errorf("nlp: rate limit retry canceled: %w", err)
			}

		default:
			data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			resp.Body.Close()
			return nil, fmt.Errorf("nlp: model %s returned HTTP %d: %s", modelID, resp.StatusCode, strings.TrimSpace(string(data)))
		}
	}

	return nil, fmt.Errorf("nlp: unreachable request loop")
}

func retryAfterDuration(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs > 0 {
			return time.Duration(secs) * time.Second
		}
		return 0
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
