package feed

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"
)

const rssPayload = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>World News</title>
    <item>
      <title>Parliament passes budget</title>
      <description>The national budget passed after a long session.</description>
      <link>https://example.com/budget</link>
      <pubDate>Mon, 24 Aug 2026 09:00:00 GMT</pubDate>
    </item>
    <item>
      <title>Port workers strike</title>
      <description>Dock workers walked out over pay.</description>
      <link>https://example.com/strike</link>
      <pubDate>Mon, 24 Aug 2026 10:30:00 GMT</pubDate>
    </item>
    <item>
      <title>Observatory spots comet</title>
      <description>Astronomers confirmed a new comet.</description>
      <link>https://example.com/comet</link>
      <pubDate>Mon, 24 Aug 2026 11:15:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

func TestRSSFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(rssPayload))
	}))
	defer srv.Close()

	client := NewRSSClient(srv.URL)

	items, err := client.Fetch(0)

	assert.Equal(t, nil, err)
	assert.Equal(t, 3, len(items))
	assert.Equal(t, "Parliament passes budget", items[0].Title)
	assert.Equal(t, "The national budget passed after a long session.", items[0].Body)
	assert.Equal(t, "https://example.com/budget", items[0].URL)
	assert.Equal(t, 2026, items[0].PublishedAt.Year())
}

func TestRSSFetch_Limit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(rssPayload))
	}))
	defer srv.Close()

	client := NewRSSClient(srv.URL)

	items, err := client.Fetch(2)

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(items))
}

func TestRSSFetch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	srv.Close()

	client := NewRSSClient(srv.URL)

	_, err := client.Fetch(10)
	assert.NotEqual(t, nil, err)
}
