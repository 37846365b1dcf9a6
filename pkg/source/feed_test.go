package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feedtriage/pkg/domain"
)

const reviewsRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/">
	<channel>
		<title>App Reviews</title>
		<link>https://example.com</link>
		<item>
			<title>Crashes on login</title>
			<description>The app crashes &lt;b&gt;every&lt;/b&gt; time I log in</description>
			<guid>r1</guid>
			<pubDate>Mon, 02 Jun 2025 15:04:05 -0700</pubDate>
		</item>
		<item>
			<title>Love it!</title>
			<description>short</description>
			<content:encoded><![CDATA[<p>Search is fast &amp; easy</p>]]></content:encoded>
			<guid>r2</guid>
		</item>
	</channel>
</rss>`

func TestFeedSource_Load(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(reviewsRSS))
	}))
	defer ts.Close()

	src := NewFeedSource([]string{ts.URL}, 5*time.Second)
	recs, err := src.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "Crashes on login. The app crashes every time I log in", recs[0].Raw)
	assert.Equal(t, "Crashes on login. The app crashes every time I log in", recs[0].Normalized)
	assert.Equal(t, "App Reviews", recs[0].Source)
	assert.Equal(t, "2025-06-02", recs[0].Date)

	assert.Equal(t, "Love it! Search is fast & easy", recs[1].Raw)
	assert.Equal(t, "Love it! Search is fast easy", recs[1].Normalized)
	assert.Empty(t, recs[1].Date)
}

func TestFeedSource_LoadFailures(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(reviewsRSS))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer bad.Close()

	t.Run("one feed failed", func(t *testing.T) {
		recs, err := NewFeedSource([]string{bad.URL, good.URL}, time.Second).Load(context.Background())
		require.NoError(t, err)
		assert.Len(t, recs, 2)
	})

	t.Run("all feeds failed", func(t *testing.T) {
		_, err := NewFeedSource([]string{bad.URL}, time.Second).Load(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "all feedback feeds failed")
	})

	t.Run("no feeds", func(t *testing.T) {
		recs, err := NewFeedSource(nil, time.Second).Load(context.Background())
		require.NoError(t, err)
		assert.Empty(t, recs)
	})
}

func TestReviewText(t *testing.T) {
	tests := []struct {
		name string
		item gofeed.Item
		want string
	}{
		{name: "title and description", item: gofeed.Item{Title: "Slow", Description: "pages load slowly"}, want: "Slow. pages load slowly"},
		{name: "title with punctuation", item: gofeed.Item{Title: "Why?", Description: "no dark mode"}, want: "Why? no dark mode"},
		{name: "content preferred", item: gofeed.Item{Title: "Bug", Description: "d", Content: "<p>c</p>"}, want: "Bug. c"},
		{name: "no title", item: gofeed.Item{Description: "only body"}, want: "only body"},
		{name: "no body", item: gofeed.Item{Title: "only title"}, want: "only title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reviewText(&tt.item))
		})
	}
}

type staticSource []domain.FeedbackRecord

func (s staticSource) Load(context.Context) ([]domain.FeedbackRecord, error) { return s, nil }

func TestMulti_Load(t *testing.T) {
	m := Multi{
		staticSource{{Raw: "a"}},
		staticSource{},
		staticSource{{Raw: "b"}, {Raw: "c"}},
	}
	recs, err := m.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{recs[0].Raw, recs[1].Raw, recs[2].Raw})

	empty, err := Multi{}.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, empty)
}
