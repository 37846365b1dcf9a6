package source

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/umputun/feedtriage/pkg/domain"
	"github.com/umputun/feedtriage/pkg/triage"
)

// FeedSource reads customer reviews published as RSS/Atom feeds, e.g. app store review feeds
type FeedSource struct {
	urls    []string
	parser  *gofeed.Parser
	timeout time.Duration
}

// NewFeedSource makes feed source for the given urls, timeout applies to each feed
func NewFeedSource(urls []string, timeout time.Duration) *FeedSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &FeedSource{urls: urls, parser: gofeed.NewParser(), timeout: timeout}
}

// Load fetches all feeds in order. A feed that fails is logged and skipped,
// error is returned only if every feed failed.
func (s *FeedSource) Load(ctx context.Context) ([]domain.FeedbackRecord, error) {
	res := []domain.FeedbackRecord{}
	var failed int
	var lastErr error
	for _, u := range s.urls {
		recs, err := s.fetch(ctx, u)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Printf("[WARN] failed to load feedback feed %s: %v", u, err)
			failed++
			lastErr = err
			continue
		}
		res = append(res, recs...)
	}
	if len(s.urls) > 0 && failed == len(s.urls) {
		return nil, fmt.Errorf("all feedback feeds failed: %w", lastErr)
	}
	return res, nil
}

func (s *FeedSource) fetch(ctx context.Context, feedURL string) ([]domain.FeedbackRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	feed, err := s.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}

	res := make([]domain.FeedbackRecord, 0, len(feed.Items))
	for _, item := range feed.Items {
		rec := triage.NewRecord(reviewText(item))
		rec.Source = feed.Title
		switch {
		case item.PublishedParsed != nil:
			rec.Date = item.PublishedParsed.Format("2006-01-02")
		case item.UpdatedParsed != nil:
			rec.Date = item.UpdatedParsed.Format("2006-01-02")
		}
		res = append(res, rec)
	}
	log.Printf("[DEBUG] loaded %d reviews from %s", len(res), feedURL)
	return res, nil
}

// reviewText joins review title and body, content is preferred over description
func reviewText(item *gofeed.Item) string {
	body := item.Content
	if strings.TrimSpace(body) == "" {
		body = item.Description
	}
	title, body := strings.TrimSpace(item.Title), strings.TrimSpace(triage.StripMarkup(body))
	switch {
	case title == "":
		return body
	case body == "":
		return title
	case strings.HasSuffix(title, ".") || strings.HasSuffix(title, "!") || strings.HasSuffix(title, "?"):
		return title + " " + body
	}
	return title + ". " + body
}

// Multi concatenates records of several sources in order
type Multi []interface {
	Load(ctx context.Context) ([]domain.FeedbackRecord, error)
}

// Load loads all sources, the first error stops loading
func (m Multi) Load(ctx context.Context) ([]domain.FeedbackRecord, error) {
	res := []domain.FeedbackRecord{}
	for _, src := range m {
		recs, err := src.Load(ctx)
		if err != nil {
			return nil, err
		}
		res = append(res, recs...)
	}
	return res, nil
}
