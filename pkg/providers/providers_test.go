package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/adalbertobrant/fundamentalistapro/pkg/core/ticker"
)

const chartJSON = `{
  "chart": {
    "result": [{
      "timestamp": [1700000000, 1700086400, 1700172800],
      "indicators": {
        "quote": [{
          "open":   [10.0, 10.5, null],
          "high":   [10.8, 11.0, null],
          "low":    [9.9, 10.2, null],
          "close":  [10.5, 10.9, null],
          "volume": [1000, 2000, null]
        }]
      },
      "events": {
        "dividends": {
          "1690000000": {"amount": 0.35, "date": 1690000000},
          "1680000000": {"amount": 0.30, "date": 1680000000}
        }
      }
    }],
    "error": null
  }
}`

func yahooTestServer(t *testing.T, chartBody string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/":
			w.Write([]byte("<html>home</html>"))
		case r.URL.Path == "/v1/test/getcrumb":
			w.Write([]byte("abc123"))
		case strings.HasPrefix(r.URL.Path, "/v8/finance/chart/"):
			w.Write([]byte(chartBody))
		default:
			http.NotFound(w, r)
		}
	}))
}

func yahooTestClient(serverURL string) *YahooClient {
	c := NewYahooClient()
	c.queryURL = serverURL
	c.homeURL = serverURL
	return c
}

func TestYahooHistorySkipsNullSamples(t *testing.T) {
	server := yahooTestServer(t, chartJSON)
	defer server.Close()

	points, err := yahooTestClient(server.URL).History(context.Background(), "PETR4.SA", "1mo", "1d")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("points = %d, want 2 (null close skipped)", len(points))
	}
	if points[0].Close != 10.5 || points[1].Close != 10.9 {
		t.Errorf("closes = %f, %f", points[0].Close, points[1].Close)
	}
	if points[0].Volume != 1000 {
		t.Errorf("volume = %d, want 1000", points[0].Volume)
	}
}

func TestYahooDividendsSortedOldestFirst(t *testing.T) {
	server := yahooTestServer(t, chartJSON)
	defer server.Close()

	dividends, err := yahooTestClient(server.URL).Dividends(context.Background(), "PETR4.SA")
	if err != nil {
		t.Fatalf("Dividends: %v", err)
	}
	if len(dividends) != 2 {
		t.Fatalf("dividends = %d, want 2", len(dividends))
	}
	if dividends[0].Date >= dividends[1].Date {
		t.Errorf("dividends not sorted ascending: %v", dividends)
	}
	if dividends[0].Amount != 0.30 {
		t.Errorf("first amount = %f, want 0.30", dividends[0].Amount)
	}
}

func TestYahooChartErrorPropagates(t *testing.T) {
	server := yahooTestServer(t, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
	defer server.Close()

	_, err := yahooTestClient(server.URL).History(context.Background(), "NOPE.SA", "1mo", "1d")
	if err == nil || !strings.Contains(err.Error(), "No data found") {
		t.Errorf("expected upstream error description, got %v", err)
	}
}

func TestFinnhubCandles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("token") != "key123" {
			t.Errorf("token missing from request")
		}
		if r.URL.Path != "/stock/candle" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"s":"ok","t":[1700000000],"o":[10.0],"h":[10.8],"l":[9.9],"c":[10.5],"v":[1000]}`))
	}))
	defer server.Close()

	c := NewFinnhubClient("key123")
	c.baseURL = server.URL

	points, err := c.Candles(context.Background(), "PETR4", testFrom(), testTo())
	if err != nil {
		t.Fatalf("Candles: %v", err)
	}
	if len(points) != 1 || points[0].Close != 10.5 {
		t.Errorf("unexpected points %v", points)
	}
}

func TestFinnhubCandlesNoData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"s":"no_data"}`))
	}))
	defer server.Close()

	c := NewFinnhubClient("key123")
	c.baseURL = server.URL

	if _, err := c.Candles(context.Background(), "XXXX1", testFrom(), testTo()); err == nil {
		t.Error("expected error for no_data status")
	}
}

func TestFinnhubWithoutKeyFailsFast(t *testing.T) {
	c := NewFinnhubClient("")
	if _, err := c.CompanyNews(context.Background(), "PETR4", testFrom(), testTo()); err == nil {
		t.Error("expected error without API key")
	}
}

func TestGoogleNewsSearch(t *testing.T) {
	const rss = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel>
<item>
  <title>Petrobras anuncia dividendos</title>
  <link>https://example.test/a</link>
  <pubDate>Fri, 28 Aug 2026 10:00:00 GMT</pubDate>
  <source url="https://example.test">Exemplo</source>
</item>
<item>
  <title>PETR4 sobe na B3</title>
  <link>https://example.test/b</link>
  <pubDate>Thu, 27 Aug 2026 09:00:00 GMT</pubDate>
  <source url="https://example.test">Exemplo</source>
</item>
</channel></rss>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("hl") != "pt-BR" {
			t.Errorf("hl = %q, want pt-BR", r.URL.Query().Get("hl"))
		}
		w.Write([]byte(rss))
	}))
	defer server.Close()

	c := NewGoogleNewsClient()
	c.baseURL = server.URL

	items, err := c.Search(context.Background(), "PETR4 ações", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if items[0].Headline != "Petrobras anuncia dividendos" || items[0].Source != "Exemplo" {
		t.Errorf("unexpected first item %+v", items[0])
	}
	if items[0].Datetime == 0 {
		t.Error("pubDate should parse to a unix timestamp")
	}
}

func TestAggregatorNewsFallbackAndDedupe(t *testing.T) {
	// Finnhub answers with two headlines, one shared with Yahoo; Yahoo adds
	// one more. Google is never needed once the count is met.
	finnhubServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"datetime": 300, "headline": "A", "source": "fh", "url": "https://n.test/a"},
			{"datetime": 100, "headline": "B", "source": "fh", "url": "https://n.test/b"}
		]`))
	}))
	defer finnhubServer.Close()

	yahooServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v1/finance/search":
			w.Write([]byte(`{"news":[
				{"title": "A", "publisher": "yh", "link": "https://n.test/a", "providerPublishTime": 300},
				{"title": "C", "publisher": "yh", "link": "https://n.test/c", "providerPublishTime": 200}
			]}`))
		default:
			w.Write([]byte("ok"))
		}
	}))
	defer yahooServer.Close()

	finnhub := NewFinnhubClient("key")
	finnhub.baseURL = finnhubServer.URL
	google := NewGoogleNewsClient()
	google.baseURL = "http://127.0.0.1:0" // must not be reached

	a := &Aggregator{
		yahoo:     yahooTestClient(yahooServer.URL),
		finnhub:   finnhub,
		google:    google,
		newsCount: 3,
	}

	items, err := a.News(context.Background(), ticker.Prepare("PETR4"))
	if err != nil {
		t.Fatalf("News: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3 (deduplicated)", len(items))
	}
	// Newest first: A (300), C (200), B (100).
	if items[0].Headline != "A" || items[1].Headline != "C" || items[2].Headline != "B" {
		t.Errorf("unexpected order: %v", items)
	}
}

func TestAggregatorHistoryFallsBackToFinnhub(t *testing.T) {
	yahooServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer yahooServer.Close()

	finnhubServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"s":"ok","t":[1700000000],"o":[10.0],"h":[10.8],"l":[9.9],"c":[10.5],"v":[1000]}`))
	}))
	defer finnhubServer.Close()

	finnhub := NewFinnhubClient("key")
	finnhub.baseURL = finnhubServer.URL

	a := &Aggregator{
		yahoo:     yahooTestClient(yahooServer.URL),
		finnhub:   finnhub,
		google:    NewGoogleNewsClient(),
		newsCount: 7,
	}

	points, err := a.History(context.Background(), ticker.Prepare("PETR4"), "1mo", "1d")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(points) != 1 || points[0].Close != 10.5 {
		t.Errorf("unexpected points %v", points)
	}
}

func testFrom() time.Time { return time.Now().AddDate(0, -1, 0) }
func testTo() time.Time   { return time.Now() }
