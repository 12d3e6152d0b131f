package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxBackoff = 8 * time.Second

type ClientConfig struct {
	BaseURL       string
	Organism      string
	Timeout       time.Duration
	Retries       int
	BaseDelay     time.Duration
	RatePerSecond float64
	Burst         int
}

// HTTPClient queries a remote interaction service:
//
//	GET /interactions?a=&b=&organism=  -> {"interacts": bool}
//	GET /active-sites?name=            -> {"sites": [...]}
type HTTPClient struct {
	cfg        ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	logger     *zap.Logger
}

type interactionResponse struct {
	Interacts bool `json:"interacts"`
}

type activeSitesResponse struct {
	Sites []string `json:"sites"`
}

// permanentError marks a response that retrying cannot fix.
type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

func NewHTTPClient(cfg ClientConfig, logger *zap.Logger) *HTTPClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Retries <= 0 {
		cfg.Retries = 3
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = 400 * time.Millisecond
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "interaction-oracle",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && ratio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})

	return &HTTPClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		breaker:    breaker,
		logger:     logger,
	}
}

func (c *HTTPClient) QueryBinding(ctx context.Context, a, b string) (bool, error) {
	q := url.Values{}
	q.Set("a", a)
	q.Set("b", b)
	if c.cfg.Organism != "" {
		q.Set("organism", c.cfg.Organism)
	}
	var out interactionResponse
	if err := c.getJSON(ctx, "/interactions", q, &out); err != nil {
		return false, err
	}
	return out.Interacts, nil
}

func (c *HTTPClient) ActiveSites(ctx context.Context, name string) ([]string, error) {
	q := url.Values{}
	q.Set("name", name)
	var out activeSitesResponse
	if err := c.getJSON(ctx, "/active-sites", q, &out); err != nil {
		return nil, err
	}
	return out.Sites, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	u := strings.TrimRight(c.cfg.BaseURL, "/") + path + "?" + q.Encode()
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.fetchWithRetry(ctx, u, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

func (c *HTTPClient) fetchWithRetry(ctx context.Context, u string, out any) error {
	var lastErr error
	for attempt := 1; attempt <= c.cfg.Retries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		err := c.fetch(ctx, u, out)
		if err == nil {
			return nil
		}
		lastErr = err
		var perm permanentError
		if errors.As(err, &perm) || attempt == c.cfg.Retries {
			break
		}

		sleep := c.cfg.BaseDelay * time.Duration(1<<(attempt-1))
		if half := int64(sleep / 2); half > 0 {
			sleep += time.Duration(rand.Int63n(half))
		}
		if sleep > maxBackoff {
			sleep = maxBackoff
		}
		c.logger.Debug("oracle request failed, retrying",
			zap.Int("attempt", attempt), zap.String("url", u), zap.Duration("backoff", sleep), zap.Error(err))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
	}
	return fmt.Errorf("oracle request %s failed: %w", u, lastErr)
}

func (c *HTTPClient) fetch(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return permanentError{err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return permanentError{err}
		}
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return permanentError{fmt.Errorf("decode oracle response: %w", err)}
	}
	return nil
}
