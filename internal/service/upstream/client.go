package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"syscall"
	"time"

	"Aletheia/internal/domain/models"
	drepo "Aletheia/internal/domain/repository"
	xhttp "Aletheia/pkg/http"
	"Aletheia/pkg/logger"
)

// Config holds upstream client settings.
type Config struct {
	BaseURL        string
	RetryCount     int
	RetryDelay     time.Duration
	RequestTimeout time.Duration
}

// Client calls the prediction service with bounded retry and a fixed
// inter-attempt delay. The long total window (30 x 2s by default) absorbs
// slow upstream cold-start and training cycles.
type Client struct {
	cfg     Config
	http    *xhttp.Client
	logger  *logger.Logger
	metrics drepo.Metrics
}

// New creates an upstream prediction service client.
func New(lgr *logger.Logger, metrics drepo.Metrics, cfg Config) drepo.UpstreamClient {
	if cfg.RetryCount <= 0 {
		cfg.RetryCount = 30
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2000 * time.Millisecond
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	return &Client{
		cfg:     cfg,
		http:    xhttp.NewClient(xhttp.WithTimeout(cfg.RequestTimeout)),
		logger:  lgr,
		metrics: metrics,
	}
}

// FetchPrediction fetches a prediction payload. A payload with
// status="training" is a successful result, not an error. Retries on
// connection refused, 503 and 500; any other failure is fatal.
func (c *Client) FetchPrediction(ctx context.Context, ticker string) (*models.PredictionPayload, error) {
	u := fmt.Sprintf("%s/predict/%s", c.cfg.BaseURL, url.PathEscape(ticker))

	body, err := c.fetchWithRetry(ctx, u, predictRetryable)
	if err != nil {
		return nil, err
	}

	var payload models.PredictionPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode prediction: %w", err)
	}
	return &payload, nil
}

// FetchTickerList fetches the public ticker list. Narrower retry
// predicate: only connection refused and 503.
func (c *Client) FetchTickerList(ctx context.Context) ([]models.TickerSummary, error) {
	u := c.cfg.BaseURL + "/tickers"

	body, err := c.fetchWithRetry(ctx, u, tickersRetryable)
	if err != nil {
		return nil, err
	}

	var list []models.TickerSummary
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("decode ticker list: %w", err)
	}
	return list, nil
}

// fetchWithRetry runs the bounded retry loop. The caller's cancellation is
// deliberately not propagated: a request that started a resolve completes
// its retry budget server-side even if the client goes away.
func (c *Client) fetchWithRetry(ctx context.Context, u string, retryable func(error) bool) ([]byte, error) {
	ctx = context.WithoutCancel(ctx)

	var lastErr error
	for i := 0; i < c.cfg.RetryCount; i++ {
		status, body, err := c.http.Get(ctx, u)
		if err == nil && status >= 200 && status < 300 {
			return body, nil
		}
		if err != nil {
			err = &TransportError{Err: err}
		} else {
			err = &StatusError{Code: status, Body: body}
		}

		if !retryable(err) {
			return nil, err
		}
		lastErr = err

		if i == c.cfg.RetryCount-1 {
			break
		}
		c.metrics.RecordUpstreamRetry()
		c.logger.Warn("upstream unreachable, retrying",
			logger.String("url", u),
			logger.Duration("delay_ms", c.cfg.RetryDelay),
			logger.Int("attempt", i+1),
			logger.Int("budget", c.cfg.RetryCount))
		time.Sleep(c.cfg.RetryDelay)
	}

	return nil, &UnavailableError{Attempts: c.cfg.RetryCount, Last: lastErr}
}

func predictRetryable(err error) bool {
	if connectionRefused(err) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusServiceUnavailable || se.Code == http.StatusInternalServerError
	}
	return false
}

func tickersRetryable(err error) bool {
	if connectionRefused(err) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusServiceUnavailable
	}
	return false
}

func connectionRefused(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED)
}
