package feed

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// RSSClient pulls items from a single RSS/Atom endpoint.
type RSSClient struct {
	url        string
	parser     *gofeed.Parser
	httpClient *http.Client
}

func NewRSSClient(url string) *RSSClient {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	parser := gofeed.NewParser()
	parser.Client = httpClient

	return &RSSClient{
		url:        url,
		parser:     parser,
		httpClient: httpClient,
	}
}

func (c *RSSClient) Name() string {
	return "RSS"
}

func (c *RSSClient) Fetch(limit int) ([]Item, error) {
	parsed, err := c.parser.ParseURL(c.url)
	if err != nil {
		return nil, fmt.Errorf("rss fetch %s: %w", c.url, err)
	}

	items := make([]Item, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		if limit > 0 && len(items) >= limit {
			break
		}

		body := entry.Content
		if body == "" {
			body = entry.Description
		}

		publishedAt := time.Time{}
		if entry.PublishedParsed != nil {
			publishedAt = *entry.PublishedParsed
		}

		items = append(items, Item{
			Title:       strings.TrimSpace(entry.Title),
			Body:        strings.TrimSpace(body),
			URL:         entry.Link,
			PublishedAt: publishedAt,
		})
	}

	return items, nil
}
