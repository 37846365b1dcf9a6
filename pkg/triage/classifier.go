package triage

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/umputun/feedtriage/pkg/domain"
	"github.com/umputun/feedtriage/pkg/metrics"
)

// LabelRanker ranks candidate labels for the text by confidence
type LabelRanker interface {
	Rank(ctx context.Context, text string, labels []string) ([]domain.LabelScore, error)
}

// Summarizer makes a bounded-length summary of the text
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// candidate label sets, the first word of each label is the level
var (
	UrgencyLabels = []string{"Low urgency", "Medium urgency", "High urgency"}
	ImpactLabels  = []string{"Low impact", "Medium impact", "High impact"}
)

const (
	minTokens      = 3
	shortPrefix    = "Short feedback: "
	shortReason    = "Feedback is too short for reliable classification, assigned low urgency and low impact."
	reasonTemplate = "Classified as %s urgency and %s impact based on the feedback content."
)

// Classifier derives urgency, impact, summary and priority score of normalized feedback.
// Ranker and summarizer are shared read-only and called sequentially.
type Classifier struct {
	ranker     LabelRanker
	summarizer Summarizer
	cache      *lru.Cache[string, domain.ClassificationResult]
}

// NewClassifier makes a classifier. Results are cached by normalized text if cacheSize > 0.
func NewClassifier(ranker LabelRanker, summarizer Summarizer, cacheSize int) (*Classifier, error) {
	if ranker == nil {
		return nil, fmt.Errorf("label ranker is required")
	}
	res := &Classifier{ranker: ranker, summarizer: summarizer}
	if cacheSize > 0 {
		cache, err := lru.New[string, domain.ClassificationResult](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("make classification cache: %w", err)
		}
		res.cache = cache
	}
	return res, nil
}

// Classify returns classification of normalized text. Inputs with less than 3 tokens
// take the short path without calling external models. Ranker errors are returned
// wrapped with domain.ErrModelFailure, summarizer errors fall back to the text itself.
func (c *Classifier) Classify(ctx context.Context, text string) (domain.ClassificationResult, error) {
	if Tokens(text) < minTokens {
		metrics.ClassificationsTotal.WithLabelValues("short").Inc()
		return ShortResult(text), nil
	}

	if c.cache != nil {
		if res, ok := c.cache.Get(text); ok {
			metrics.ClassificationsTotal.WithLabelValues("cached").Inc()
			return res, nil
		}
	}

	urgency, err := c.topLevel(ctx, text, UrgencyLabels)
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("rank urgency: %w", err)
	}
	impact, err := c.topLevel(ctx, text, ImpactLabels)
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("rank impact: %w", err)
	}

	res := domain.ClassificationResult{
		Urgency:       urgency,
		Impact:        impact,
		Summary:       c.summarize(ctx, text),
		Reason:        fmt.Sprintf(reasonTemplate, urgency, impact),
		PriorityScore: PriorityScore(urgency, impact),
	}
	if c.cache != nil {
		c.cache.Add(text, res)
	}
	metrics.ClassificationsTotal.WithLabelValues("full").Inc()
	return res, nil
}

// ShortResult is the fixed classification of degenerate input
func ShortResult(text string) domain.ClassificationResult {
	return domain.ClassificationResult{
		Urgency:       domain.LevelLow,
		Impact:        domain.LevelLow,
		Summary:       shortPrefix + text,
		Reason:        shortReason,
		PriorityScore: PriorityScore(domain.LevelLow, domain.LevelLow),
	}
}

// topLevel asks ranker for the labels and extracts level from the best one
func (c *Classifier) topLevel(ctx context.Context, text string, labels []string) (domain.Level, error) {
	st := time.Now()
	ranked, err := c.ranker.Rank(ctx, text, labels)
	metrics.ModelDuration.WithLabelValues("classifier").Observe(time.Since(st).Seconds())
	if err != nil {
		metrics.ModelFailures.WithLabelValues("classifier").Inc()
		return "", fmt.Errorf("%w: %w", domain.ErrModelFailure, err)
	}
	return levelOf(ranked), nil
}

// levelOf picks the highest scored label, the first one wins on ties.
// Empty or unparseable answers give medium level.
func levelOf(ranked []domain.LabelScore) domain.Level {
	if len(ranked) == 0 {
		return domain.LevelMedium
	}
	best := ranked[0]
	for _, ls := range ranked[1:] {
		if ls.Score > best.Score {
			best = ls
		}
	}
	fields := strings.Fields(best.Label)
	if len(fields) == 0 {
		return domain.LevelMedium
	}
	level, _ := domain.ParseLevel(fields[0])
	return level
}

// summarize never fails, the text itself is used if summarizer is missing or broken
func (c *Classifier) summarize(ctx context.Context, text string) string {
	if c.summarizer == nil {
		return text
	}
	st := time.Now()
	summary, err := c.summarizer.Summarize(ctx, text)
	metrics.ModelDuration.WithLabelValues("summarizer").Observe(time.Since(st).Seconds())
	if err != nil {
		metrics.ModelFailures.WithLabelValues("summarizer").Inc()
		log.Printf("[WARN] summarizer failed, using feedback text as summary: %v", err)
		return text
	}
	if summary = strings.TrimSpace(summary); summary == "" {
		return text
	}
	return summary
}
