package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/umputun/feedtriage/pkg/domain"
)

const rankSystemPrompt = `You are a zero-shot text classifier for customer feedback.
Score every candidate label by how well it describes the feedback.
Respond with a JSON array only, one object per candidate label: [{"label": "...", "score": 0.0}].
Scores are probabilities between 0 and 1 and must sum to 1. Use the candidate labels verbatim.`

// Ranker scores candidate labels with a hosted LLM
type Ranker struct {
	completer Completer
}

// NewRanker makes llm-backed label ranker
func NewRanker(c Completer) *Ranker {
	return &Ranker{completer: c}
}

// Rank asks the model to score labels for the text, best label first.
// An answer without usable scores returns an empty ranking, so the caller falls back to medium.
func (r *Ranker) Rank(ctx context.Context, text string, labels []string) ([]domain.LabelScore, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("no candidate labels")
	}

	var sb strings.Builder
	sb.WriteString("Candidate labels:\n")
	for _, l := range labels {
		sb.WriteString(fmt.Sprintf("- %s\n", l))
	}
	sb.WriteString("\nFeedback:\n")
	sb.WriteString(text)
	sb.WriteString("\n\nRespond with a JSON array of label scores.")

	// retry once more on unparsable answers, transport errors are retried by the completer
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		content, err := r.completer.Complete(ctx, rankSystemPrompt, sb.String())
		if err != nil {
			return nil, fmt.Errorf("rank labels: %w", err)
		}
		res, err := parseRanking(content, labels)
		if err == nil {
			return res, nil
		}
		lastErr = err
	}
	log.Printf("[WARN] unparsable ranking, %v", lastErr)
	return []domain.LabelScore{}, nil
}

// parseRanking extracts json array from the answer and keeps only candidate labels
func parseRanking(content string, labels []string) ([]domain.LabelScore, error) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start == -1 || end == -1 || start >= end {
		return nil, fmt.Errorf("no json array found in response")
	}

	var scores []domain.LabelScore
	if err := json.Unmarshal([]byte(content[start:end+1]), &scores); err != nil {
		return nil, fmt.Errorf("failed to parse json array response: %w", err)
	}

	known := make(map[string]string, len(labels))
	for _, l := range labels {
		known[strings.ToLower(strings.TrimSpace(l))] = l
	}

	seen := make(map[string]bool, len(labels))
	res := make([]domain.LabelScore, 0, len(labels))
	for _, s := range scores {
		label, ok := known[strings.ToLower(strings.TrimSpace(s.Label))]
		if !ok || seen[label] {
			continue
		}
		seen[label] = true
		// ensure score is in valid range
		switch {
		case s.Score < 0:
			s.Score = 0
		case s.Score > 1:
			s.Score = 1
		}
		res = append(res, domain.LabelScore{Label: label, Score: s.Score})
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("no candidate labels in response")
	}

	sort.SliceStable(res, func(i, j int) bool { return res[i].Score > res[j].Score })
	return res, nil
}
