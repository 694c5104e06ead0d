package providers

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/adalbertobrant/fundamentalistapro/pkg/models"
)

// GoogleNewsClient reads the Google News RSS feed. It needs no API key, which
// makes it the last-resort news provider.
type GoogleNewsClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewGoogleNewsClient builds the RSS client.
func NewGoogleNewsClient() *GoogleNewsClient {
	return &GoogleNewsClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    "https://news.google.com",
	}
}

type rssFeed struct {
	Channel struct {
		Items []struct {
			Title   string `xml:"title"`
			Link    string `xml:"link"`
			PubDate string `xml:"pubDate"`
			Source  struct {
				Name string `xml:",chardata"`
			} `xml:"source"`
		} `xml:"item"`
	} `xml:"channel"`
}

// Search returns Brazilian Portuguese headlines matching the query.
func (c *GoogleNewsClient) Search(ctx context.Context, query string, limit int) ([]models.NewsItem, error) {
	if limit <= 0 {
		limit = 10
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("hl", "pt-BR")
	params.Set("gl", "BR")
	params.Set("ceid", "BR:pt-419")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/rss/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building rss request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching google news for %q: %w", query, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google news returned status %d for %q", resp.StatusCode, query)
	}

	var feed rssFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decoding rss for %q: %w", query, err)
	}

	items := make([]models.NewsItem, 0, limit)
	for _, item := range feed.Channel.Items {
		if len(items) >= limit {
			break
		}
		if item.Title == "" {
			continue
		}
		items = append(items, models.NewsItem{
			Source:   item.Source.Name,
			Datetime: parsePubDate(item.PubDate),
			Headline: item.Title,
			URL:      item.Link,
		})
	}
	return items, nil
}

// parsePubDate handles the RFC 1123 variants the feed uses. Unknown formats
// yield 0, which sorts last.
func parsePubDate(value string) int64 {
	for _, layout := range []string{time.RFC1123Z, time.RFC1123} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Unix()
		}
	}
	return 0
}
