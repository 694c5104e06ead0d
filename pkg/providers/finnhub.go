package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/adalbertobrant/fundamentalistapro/pkg/models"
)

// FinnhubClient handles communication with the Finnhub REST API.
type FinnhubClient struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewFinnhubClient creates a client. An empty API key is allowed; requests
// will then fail and the aggregator falls through to the next provider.
func NewFinnhubClient(apiKey string) *FinnhubClient {
	return &FinnhubClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://finnhub.io/api/v1",
	}
}

func (c *FinnhubClient) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if c.apiKey == "" {
		return fmt.Errorf("finnhub API key not configured")
	}
	params.Set("token", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("building finnhub request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling finnhub %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("finnhub %s returned status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding finnhub %s response: %w", path, err)
	}
	return nil
}

type finnhubCandleResponse struct {
	Status     string    `json:"s"`
	Timestamps []int64   `json:"t"`
	Open       []float64 `json:"o"`
	High       []float64 `json:"h"`
	Low        []float64 `json:"l"`
	Close      []float64 `json:"c"`
	Volume     []int64   `json:"v"`
}

// Candles returns daily OHLCV points for a symbol in [from, to].
func (c *FinnhubClient) Candles(ctx context.Context, symbol string, from, to time.Time) ([]models.PricePoint, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("resolution", "D")
	params.Set("from", fmt.Sprintf("%d", from.Unix()))
	params.Set("to", fmt.Sprintf("%d", to.Unix()))

	var parsed finnhubCandleResponse
	if err := c.get(ctx, "/stock/candle", params, &parsed); err != nil {
		return nil, err
	}
	if parsed.Status != "ok" {
		return nil, fmt.Errorf("finnhub candles for %s: status %q", symbol, parsed.Status)
	}

	points := make([]models.PricePoint, 0, len(parsed.Timestamps))
	for i, ts := range parsed.Timestamps {
		if i >= len(parsed.Close) {
			break
		}
		point := models.PricePoint{
			Date:  time.Unix(ts, 0).UTC(),
			Close: parsed.Close[i],
		}
		if i < len(parsed.Open) {
			point.Open = parsed.Open[i]
		}
		if i < len(parsed.High) {
			point.High = parsed.High[i]
		}
		if i < len(parsed.Low) {
			point.Low = parsed.Low[i]
		}
		if i < len(parsed.Volume) {
			point.Volume = parsed.Volume[i]
		}
		points = append(points, point)
	}
	return points, nil
}

type finnhubNewsItem struct {
	Datetime int64  `json:"datetime"`
	Headline string `json:"headline"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

// CompanyNews returns headlines for a symbol in [from, to].
func (c *FinnhubClient) CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]models.NewsItem, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("from", from.Format("2006-01-02"))
	params.Set("to", to.Format("2006-01-02"))

	var parsed []finnhubNewsItem
	if err := c.get(ctx, "/company-news", params, &parsed); err != nil {
		return nil, err
	}

	items := make([]models.NewsItem, 0, len(parsed))
	for _, n := range parsed {
		if n.Headline == "" {
			continue
		}
		items = append(items, models.NewsItem{
			Source:   n.Source,
			Datetime: n.Datetime,
			Headline: n.Headline,
			Summary:  n.Summary,
			URL:      n.URL,
		})
	}
	return items, nil
}

type finnhubDividend struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// Dividends returns payout records for a symbol in [from, to].
func (c *FinnhubClient) Dividends(ctx context.Context, symbol string, from, to time.Time) ([]models.Dividend, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("from", from.Format("2006-01-02"))
	params.Set("to", to.Format("2006-01-02"))

	var parsed []finnhubDividend
	if err := c.get(ctx, "/stock/dividend", params, &parsed); err != nil {
		return nil, err
	}

	dividends := make([]models.Dividend, 0, len(parsed))
	for _, d := range parsed {
		if d.Date == "" {
			continue
		}
		dividends = append(dividends, models.Dividend{Date: d.Date, Amount: d.Amount})
	}
	return dividends, nil
}
