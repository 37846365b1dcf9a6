package triage

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/umputun/feedtriage/pkg/domain"
)

// Pipeline runs classification over a batch of feedback records
type Pipeline struct {
	classifier     *Classifier
	sortByPriority bool
}

// NewPipeline makes a batch pipeline. With sortByPriority items are ordered by descending
// priority score, otherwise input order is kept.
func NewPipeline(classifier *Classifier, sortByPriority bool) *Pipeline {
	return &Pipeline{classifier: classifier, sortByPriority: sortByPriority}
}

// Classify normalizes and classifies a single raw text
func (p *Pipeline) Classify(ctx context.Context, raw string) (domain.ClassificationResult, error) {
	return p.classifier.Classify(ctx, NewRecord(raw).Normalized)
}

// Process classifies rows one by one in input order. Any classification error aborts
// the batch, no partial result is returned.
func (p *Pipeline) Process(ctx context.Context, rows []domain.FeedbackRecord) ([]domain.ProcessedItem, error) {
	res := make([]domain.ProcessedItem, 0, len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("process feedback: %w", err)
		}
		text := row.Normalized
		if text == "" && row.Raw != "" {
			text = NewRecord(row.Raw).Normalized
		}
		c, err := p.classifier.Classify(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("classify row %d: %w", i+1, err)
		}
		res = append(res, domain.NewProcessedItem(text, c))
	}

	if p.sortByPriority {
		sort.SliceStable(res, func(i, j int) bool { return res[i].PriorityScore > res[j].PriorityScore })
	}
	log.Printf("[DEBUG] processed %d feedback rows", len(res))
	return res, nil
}
