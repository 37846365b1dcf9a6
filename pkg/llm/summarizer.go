package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/umputun/feedtriage/pkg/config"
)

// Summarizer writes short abstractive summaries with a hosted LLM
type Summarizer struct {
	completer Completer
	bounds    config.SummaryConfig
}

// NewSummarizer makes llm-backed summarizer with summary length bounds in words
func NewSummarizer(c Completer, bounds config.SummaryConfig) *Summarizer {
	return &Summarizer{completer: c, bounds: bounds}
}

// Summarize returns one or two sentence summary of the feedback
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	system := "You summarize customer feedback for a product team. " +
		"Write the summary directly about the problem or request, never start with phrases like \"The feedback\" or \"The customer says\". " +
		"Respond with the summary text only, without quotes or markdown."
	if s.bounds.MaxLength > 0 {
		system += fmt.Sprintf(" Use between %d and %d words.", s.bounds.MinLength, s.bounds.MaxLength)
	}

	content, err := s.completer.Complete(ctx, system, "Summarize this feedback:\n\n"+text)
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}
	return strings.Trim(strings.TrimSpace(content), `"`), nil
}
