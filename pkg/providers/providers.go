package providers

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/adalbertobrant/fundamentalistapro/pkg/core/ticker"
	"github.com/adalbertobrant/fundamentalistapro/pkg/models"
)

// Aggregator walks the provider chain for each concern: price history tries
// Yahoo then Finnhub, dividends try Yahoo then Finnhub, and news accumulates
// from Finnhub, Yahoo search and Google News until the target count is met.
type Aggregator struct {
	yahoo     *YahooClient
	finnhub   *FinnhubClient
	google    *GoogleNewsClient
	newsCount int
}

// NewAggregator wires the default provider chain.
func NewAggregator(finnhubAPIKey string, newsCount int) *Aggregator {
	if newsCount <= 0 {
		newsCount = 7
	}
	return &Aggregator{
		yahoo:     NewYahooClient(),
		finnhub:   NewFinnhubClient(finnhubAPIKey),
		google:    NewGoogleNewsClient(),
		newsCount: newsCount,
	}
}

// rangeDurations maps chart range names to lookback windows for providers
// that take explicit from/to bounds.
var rangeDurations = map[string]time.Duration{
	"1d":  24 * time.Hour,
	"5d":  5 * 24 * time.Hour,
	"1mo": 31 * 24 * time.Hour,
	"3mo": 92 * 24 * time.Hour,
	"6mo": 183 * 24 * time.Hour,
	"1y":  365 * 24 * time.Hour,
	"2y":  2 * 365 * 24 * time.Hour,
	"3y":  3 * 365 * 24 * time.Hour,
	"5y":  5 * 365 * 24 * time.Hour,
}

// History returns OHLCV points for the ticker, Yahoo first.
func (a *Aggregator) History(ctx context.Context, v ticker.Variants, rng, interval string) ([]models.PricePoint, error) {
	points, yahooErr := a.yahoo.History(ctx, v.Yahoo, rng, interval)
	if yahooErr == nil && len(points) > 0 {
		return points, nil
	}
	log.Printf("[Providers] yahoo history failed for %s (%v), trying finnhub", v.Yahoo, yahooErr)

	lookback, ok := rangeDurations[rng]
	if !ok {
		lookback = rangeDurations["1y"]
	}
	to := time.Now()
	points, finnhubErr := a.finnhub.Candles(ctx, v.Finnhub, to.Add(-lookback), to)
	if finnhubErr == nil && len(points) > 0 {
		return points, nil
	}
	return nil, fmt.Errorf("no price history for %s (yahoo: %v; finnhub: %v)", v.Base, yahooErr, finnhubErr)
}

// News collects headlines from the provider chain until the configured count
// is reached, deduplicated by URL and sorted newest first.
func (a *Aggregator) News(ctx context.Context, v ticker.Variants) ([]models.NewsItem, error) {
	var collected []models.NewsItem
	seen := map[string]bool{}

	add := func(items []models.NewsItem) {
		for _, item := range items {
			key := item.URL
			if key == "" {
				key = item.Headline
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			collected = append(collected, item)
		}
	}

	to := time.Now()
	if items, err := a.finnhub.CompanyNews(ctx, v.Finnhub, to.AddDate(0, -1, 0), to); err != nil {
		log.Printf("[Providers] finnhub news failed for %s: %v", v.Finnhub, err)
	} else {
		add(items)
	}

	if len(collected) < a.newsCount {
		if items, err := a.yahoo.SearchNews(ctx, v.Yahoo, a.newsCount); err != nil {
			log.Printf("[Providers] yahoo news failed for %s: %v", v.Yahoo, err)
		} else {
			add(items)
		}
	}

	if len(collected) < a.newsCount {
		query := v.Base + " ações when:7d"
		if items, err := a.google.Search(ctx, query, a.newsCount); err != nil {
			log.Printf("[Providers] google news failed for %q: %v", query, err)
		} else {
			add(items)
		}
	}

	if len(collected) == 0 {
		return nil, fmt.Errorf("no news found for %s", v.Base)
	}

	sort.SliceStable(collected, func(i, j int) bool {
		return collected[i].Datetime > collected[j].Datetime
	})
	if len(collected) > a.newsCount {
		collected = collected[:a.newsCount]
	}
	return collected, nil
}

// Dividends returns the payout history for the ticker, newest first,
// Yahoo first.
func (a *Aggregator) Dividends(ctx context.Context, v ticker.Variants) ([]models.Dividend, error) {
	dividends, yahooErr := a.yahoo.Dividends(ctx, v.Yahoo)
	if yahooErr == nil && len(dividends) > 0 {
		return sortDividends(dividends), nil
	}
	log.Printf("[Providers] yahoo dividends failed for %s (%v), trying finnhub", v.Yahoo, yahooErr)

	to := time.Now()
	dividends, finnhubErr := a.finnhub.Dividends(ctx, v.Finnhub, to.AddDate(-5, 0, 0), to)
	if finnhubErr == nil && len(dividends) > 0 {
		return sortDividends(dividends), nil
	}
	return nil, fmt.Errorf("no dividends for %s (yahoo: %v; finnhub: %v)", v.Base, yahooErr, finnhubErr)
}

// sortDividends orders payouts newest first. ISO dates sort lexically.
func sortDividends(dividends []models.Dividend) []models.Dividend {
	sort.Slice(dividends, func(i, j int) bool { return dividends[i].Date > dividends[j].Date })
	return dividends
}

// Quote returns the latest market price for the ticker.
func (a *Aggregator) Quote(v ticker.Variants) (float64, error) {
	return a.yahoo.Quote(v.Yahoo)
}
