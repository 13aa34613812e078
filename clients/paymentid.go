package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/vitwit/w3resolve/logger"
	"github.com/vitwit/w3resolve/utils"
)

const (
	// DefaultPaymentIDAPIURL is the public Payment-ID lookup service.
	DefaultPaymentIDAPIURL = "https://api.paymentid.io"

	defaultRequestTimeout = 10 * time.Second
	defaultRatePerSecond  = 20
)

// PaymentIDConfig configures the Payment-ID API client.
type PaymentIDConfig struct {
	BaseURL            string
	Timeout            time.Duration
	MaxRetries         int
	RateLimitPerSecond float64
	// RetryBackoff is the delay before the first retry; it doubles per attempt.
	RetryBackoff time.Duration
}

var _ PaymentIDLookup = (*PaymentIDClient)(nil)

// PaymentIDClient queries GET <base>/getPaymentIdName/<id>/<typeTag>.
type PaymentIDClient struct {
	config         PaymentIDConfig
	httpClient     *http.Client
	circuitBreaker *gobreaker.CircuitBreaker
	rateLimiter    *rate.Limiter
	logger         logger.Logger
}

// NewPaymentIDClient creates a Payment-ID API client. Zero config fields take
// defaults.
func NewPaymentIDClient(config PaymentIDConfig, log logger.Logger) *PaymentIDClient {
	log = logger.OrNoop(log)

	if config.BaseURL == "" {
		config.BaseURL = DefaultPaymentIDAPIURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Timeout == 0 {
		config.Timeout = defaultRequestTimeout
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.RateLimitPerSecond <= 0 {
		config.RateLimitPerSecond = defaultRatePerSecond
	}
	if config.RetryBackoff == 0 {
		config.RetryBackoff = 200 * time.Millisecond
	}

	cbSettings := gobreaker.Settings{
		Name:        "PaymentIDAPI",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		// a non-zero API code is an answer, not an outage
		IsSuccessful: func(err error) bool {
			return err == nil || isAnswer(err)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Info("payment id circuit breaker state changed", map[string]any{
				"name": name,
				"from": from.String(),
				"to":   to.String(),
			})
		},
	}

	// the request rate is shared by every chain-type branch of a fan-out
	burst := int(config.RateLimitPerSecond)
	if burst < 4 {
		burst = 4
	}

	return &PaymentIDClient{
		config:         config,
		httpClient:     &http.Client{Timeout: config.Timeout},
		circuitBreaker: gobreaker.NewCircuitBreaker(cbSettings),
		rateLimiter:    rate.NewLimiter(rate.Limit(config.RateLimitPerSecond), burst),
		logger:         log,
	}
}

// Lookup implements PaymentIDLookup. It returns the address bound to
// paymentID on the chain type, ErrAPIStatus when the API answers with a
// non-zero code, or ErrNotFound when the address is empty.
func (c *PaymentIDClient) Lookup(ctx context.Context, paymentID, typeTag string) (string, error) {
	endpoint := fmt.Sprintf("/getPaymentIdName/%s/%s", url.PathEscape(paymentID), url.PathEscape(typeTag))

	body, err := c.doRequest(ctx, endpoint)
	if err != nil {
		return "", fmt.Errorf("payment id lookup %s/%s: %w", paymentID, typeTag, err)
	}

	resp, err := utils.ParsePaymentIDResponse(body)
	if err != nil {
		return "", err
	}
	if resp.Code != 0 {
		return "", fmt.Errorf("%w: code %d", ErrAPIStatus, resp.Code)
	}
	if utils.IsEmptyAddress(resp.Address) {
		return "", ErrNotFound
	}
	return resp.Address, nil
}

func (c *PaymentIDClient) doRequest(ctx context.Context, endpoint string) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	body, err := c.circuitBreaker.Execute(func() (interface{}, error) {
		return c.doRequestInternal(ctx, endpoint)
	})
	if err != nil {
		return nil, err
	}
	return body.([]byte), nil
}

func (c *PaymentIDClient) doRequestInternal(ctx context.Context, endpoint string) ([]byte, error) {
	fullURL := c.config.BaseURL + endpoint

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.config.RetryBackoff * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			if ctx.Err() != nil {
				return nil, lastErr
			}
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read body: %w", err)
			continue
		}

		// Retry on 5xx
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error: status %d", resp.StatusCode)
			c.logger.Debug("payment id api server error", map[string]any{
				"endpoint": endpoint,
				"status":   resp.StatusCode,
				"attempt":  attempt,
			})
			continue
		}

		if resp.StatusCode >= 400 {
			apiErr := &APIError{StatusCode: resp.StatusCode}
			var errBody struct {
				Message string `json:"message"`
			}
			if json.Unmarshal(body, &errBody) == nil && errBody.Message != "" {
				apiErr.Message = errBody.Message
			} else {
				apiErr.Message = http.StatusText(resp.StatusCode)
			}
			return nil, apiErr
		}

		return body, nil
	}
	return nil, lastErr
}

// isAnswer reports whether err is a definitive API answer rather than a
// transport or server failure.
func isAnswer(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode < 500 && !apiErr.IsRateLimited()
}
