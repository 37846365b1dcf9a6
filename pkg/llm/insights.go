package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/umputun/feedtriage/pkg/domain"
)

// default system prompt for insight generation
const defaultInsightsPrompt = `You are a product analyst who turns raw customer feedback into actionable insights.
Group related complaints and requests, then list the most important themes first.
For every insight write one bullet line starting with "- " that names the problem, how many
feedback entries mention it, and a concrete suggested action.
Mention security, data loss, payment and crash issues before cosmetic ones.
Do not repeat feedback verbatim and do not add an introduction or conclusion.`

// maxInsightChars limits single feedback entry in the prompt
const maxInsightChars = 500

// InsightGenerator produces prioritized insights for a batch of feedback
type InsightGenerator struct {
	completer Completer
	systemMsg string
}

// NewInsightGenerator makes insight generator, empty system prompt selects the default one
func NewInsightGenerator(c Completer, systemPrompt string) *InsightGenerator {
	if systemPrompt == "" {
		systemPrompt = defaultInsightsPrompt
	}
	return &InsightGenerator{completer: c, systemMsg: systemPrompt}
}

// Insights returns bullet list of insights for the feedback batch
func (g *InsightGenerator) Insights(ctx context.Context, feedback []string) (string, error) {
	prompt := g.buildPrompt(feedback)
	if prompt == "" {
		return "", fmt.Errorf("insights: %w", domain.ErrInputMissing)
	}

	content, err := g.completer.Complete(ctx, g.systemMsg, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: insights: %w", domain.ErrModelFailure, err)
	}
	return strings.TrimSpace(content), nil
}

// buildPrompt lists non-empty feedback entries, returns empty string if nothing to analyze
func (g *InsightGenerator) buildPrompt(feedback []string) string {
	var sb strings.Builder
	n := 0
	for _, f := range feedback {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if len([]rune(f)) > maxInsightChars {
			f = string([]rune(f)[:maxInsightChars]) + "..."
		}
		n++
		sb.WriteString(fmt.Sprintf("%d. %s\n", n, f))
	}
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("Customer feedback (%d entries):\n\n%s\nGenerate prioritized insights.", n, sb.String())
}
