// Package fetch retrieves raw detail pages from fundamentus.com.br with the
// politeness controls a scraped upstream requires: a request rate limit, an
// exponential retry for transient failures and a circuit breaker that stops
// hammering the site while it is down.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/time/rate"

	"github.com/adalbertobrant/fundamentalistapro/pkg/models"
)

const (
	detailURLFormat = "https://www.fundamentus.com.br/detalhes.php?papel=%s"

	// The site rejects default Go user agents.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

	requestTimeout = 30 * time.Second
)

// StatusError reports a non-200 upstream response.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Code, e.URL)
}

// FundamentusClient fetches detail pages. Safe for concurrent use.
type FundamentusClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[string]
	retry      RetryConfig
	baseURL    string
}

// NewFundamentusClient builds a client with the standard limits: one request
// per second (burst 2) and a breaker that opens after 5 calls with a failure
// ratio of 0.6 or more.
func NewFundamentusClient() *FundamentusClient {
	settings := gobreaker.Settings{
		Name:        "fundamentus",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && ratio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("[Fetch] circuit breaker %s: %s -> %s", name, from, to)
		},
	}

	return &FundamentusClient{
		httpClient: &http.Client{Timeout: requestTimeout},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 2),
		breaker:    gobreaker.NewCircuitBreaker[string](settings),
		retry:      DefaultRetryConfig,
		baseURL:    detailURLFormat,
	}
}

// DetailURL returns the page address for a Fundamentus symbol.
func (c *FundamentusClient) DetailURL(symbol string) string {
	return fmt.Sprintf(c.baseURL, url.QueryEscape(symbol))
}

// FetchDetailPage downloads and decodes the detail page for a Fundamentus
// symbol, returning UTF-8 HTML.
func (c *FundamentusClient) FetchDetailPage(ctx context.Context, symbol string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	pageURL := c.DetailURL(symbol)
	return c.breaker.Execute(func() (string, error) {
		var html string
		err := WithRetry(ctx, c.retry, func() error {
			var fetchErr error
			html, fetchErr = c.fetchOnce(ctx, pageURL)
			return fetchErr
		}, isPermanent)
		return html, err
	})
}

func (c *FundamentusClient) fetchOnce(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("requesting %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", &StatusError{Code: resp.StatusCode, URL: pageURL}
	}

	// The site serves ISO-8859-1; decode so accented labels match exactly.
	decoded := charmap.ISO8859_1.NewDecoder().Reader(resp.Body)
	body, err := io.ReadAll(decoded)
	if err != nil {
		return "", fmt.Errorf("reading body from %s: %w", pageURL, err)
	}
	return string(body), nil
}

// isPermanent marks errors that a retry cannot fix: client-side 4xx statuses.
// Server 5xx and transport errors stay retryable.
func isPermanent(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 400 && statusErr.Code < 500
	}
	return false
}

// Classify maps a fetch failure to an error category for structured reporting.
func Classify(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return models.ErrCategoryHTTP
	}

	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return models.ErrCategoryTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return models.ErrCategoryTimeout
	}

	return models.ErrCategoryNetwork
}
