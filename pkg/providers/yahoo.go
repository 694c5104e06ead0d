// Package providers fetches market data (price history, news, dividends) from
// external sources. Each concern is served by an ordered provider chain: the
// aggregator walks the chain until one source answers.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/piquette/finance-go/quote"

	"github.com/adalbertobrant/fundamentalistapro/pkg/models"
)

const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// YahooClient talks to the Yahoo Finance chart and search endpoints. The
// chart API requires a session cookie plus a crumb token, both fetched lazily
// and cached for the client's lifetime.
type YahooClient struct {
	httpClient *http.Client
	queryURL   string
	homeURL    string

	mu    sync.Mutex
	crumb string
}

// NewYahooClient builds a client with its own cookie jar.
func NewYahooClient() *YahooClient {
	jar, _ := cookiejar.New(nil)
	return &YahooClient{
		httpClient: &http.Client{Jar: jar, Timeout: 15 * time.Second},
		queryURL:   "https://query1.finance.yahoo.com",
		homeURL:    "https://finance.yahoo.com",
	}
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
			Events struct {
				Dividends map[string]struct {
					Amount float64 `json:"amount"`
					Date   int64   `json:"date"`
				} `json:"dividends"`
			} `json:"events"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// ensureCrumb fetches the session cookie and crumb once. A failed crumb is
// tolerated: the chart endpoint often works without it.
func (c *YahooClient) ensureCrumb(ctx context.Context) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.crumb != "" {
		return c.crumb
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.homeURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", browserUserAgent)
	if resp, err := c.httpClient.Do(req); err == nil {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}

	req, err = http.NewRequestWithContext(ctx, http.MethodGet, c.queryURL+"/v1/test/getcrumb", nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Origin", c.homeURL)
	req.Header.Set("Referer", c.homeURL+"/")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[Providers] yahoo crumb fetch failed: %v", err)
		return ""
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	crumb := strings.TrimSpace(string(body))
	if crumb == "" || strings.Contains(crumb, "html") {
		log.Printf("[Providers] yahoo crumb unusable, continuing without it")
		return ""
	}
	c.crumb = crumb
	return crumb
}

func (c *YahooClient) chart(ctx context.Context, symbol, rng, interval, events string) (*yahooChartResponse, error) {
	params := url.Values{}
	params.Set("range", rng)
	params.Set("interval", interval)
	if events != "" {
		params.Set("events", events)
	}
	if crumb := c.ensureCrumb(ctx); crumb != "" {
		params.Set("crumb", crumb)
	}

	chartURL := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.queryURL, url.PathEscape(symbol), params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, chartURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building chart request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching chart for %s: %w", symbol, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo chart returned status %d for %s", resp.StatusCode, symbol)
	}

	var parsed yahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding chart for %s: %w", symbol, err)
	}
	if parsed.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart error for %s: %s", symbol, parsed.Chart.Error.Description)
	}
	if len(parsed.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo chart returned no result for %s", symbol)
	}
	return &parsed, nil
}

// History returns OHLCV points for a Yahoo symbol. Null samples (halted days)
// decode as zero closes and are skipped.
func (c *YahooClient) History(ctx context.Context, symbol, rng, interval string) ([]models.PricePoint, error) {
	parsed, err := c.chart(ctx, symbol, rng, interval, "")
	if err != nil {
		return nil, err
	}

	result := parsed.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo chart has no quote series for %s", symbol)
	}
	q := result.Indicators.Quote[0]

	points := make([]models.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(q.Close) || q.Close[i] == 0 {
			continue
		}
		point := models.PricePoint{
			Date:  time.Unix(ts, 0).UTC(),
			Close: q.Close[i],
		}
		if i < len(q.Open) {
			point.Open = q.Open[i]
		}
		if i < len(q.High) {
			point.High = q.High[i]
		}
		if i < len(q.Low) {
			point.Low = q.Low[i]
		}
		if i < len(q.Volume) {
			point.Volume = q.Volume[i]
		}
		points = append(points, point)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("yahoo chart returned no usable points for %s", symbol)
	}
	return points, nil
}

// Dividends returns the payout history for a Yahoo symbol, oldest first.
func (c *YahooClient) Dividends(ctx context.Context, symbol string) ([]models.Dividend, error) {
	parsed, err := c.chart(ctx, symbol, "5y", "1mo", "div")
	if err != nil {
		return nil, err
	}

	events := parsed.Chart.Result[0].Events.Dividends
	if len(events) == 0 {
		return nil, fmt.Errorf("yahoo returned no dividends for %s", symbol)
	}

	dividends := make([]models.Dividend, 0, len(events))
	for _, event := range events {
		dividends = append(dividends, models.Dividend{
			Date:   time.Unix(event.Date, 0).UTC().Format("2006-01-02"),
			Amount: event.Amount,
		})
	}
	sort.Slice(dividends, func(i, j int) bool { return dividends[i].Date < dividends[j].Date })
	return dividends, nil
}

type yahooSearchResponse struct {
	News []struct {
		Title               string `json:"title"`
		Publisher           string `json:"publisher"`
		Link                string `json:"link"`
		ProviderPublishTime int64  `json:"providerPublishTime"`
	} `json:"news"`
}

// SearchNews returns headlines mentioning the symbol from the Yahoo search
// endpoint, which needs no crumb.
func (c *YahooClient) SearchNews(ctx context.Context, symbol string, limit int) ([]models.NewsItem, error) {
	if limit <= 0 {
		limit = 10
	}
	params := url.Values{}
	params.Set("q", symbol)
	params.Set("newsCount", fmt.Sprintf("%d", limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.queryURL+"/v1/finance/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building search request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searching news for %s: %w", symbol, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo search returned status %d for %s", resp.StatusCode, symbol)
	}

	var parsed yahooSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding search for %s: %w", symbol, err)
	}

	items := make([]models.NewsItem, 0, len(parsed.News))
	for _, n := range parsed.News {
		if n.Title == "" {
			continue
		}
		items = append(items, models.NewsItem{
			Source:   n.Publisher,
			Datetime: n.ProviderPublishTime,
			Headline: n.Title,
			URL:      n.Link,
		})
	}
	return items, nil
}

// Quote returns the latest market price through the finance-go quote API.
func (c *YahooClient) Quote(symbol string) (float64, error) {
	q, err := quote.Get(symbol)
	if err != nil {
		return 0, fmt.Errorf("fetching quote for %s: %w", symbol, err)
	}
	if q == nil {
		return 0, fmt.Errorf("no quote data for %s", symbol)
	}
	return q.RegularMarketPrice, nil
}
