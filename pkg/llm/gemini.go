package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/umputun/feedtriage/pkg/config"
)

// geminiClient talks to the Gemini API
type geminiClient struct {
	cli *genai.Client
	cfg config.LLMConfig
}

func newGemini(ctx context.Context, cfg config.LLMConfig) (*geminiClient, error) {
	cc := &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI}
	if cfg.Endpoint != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}
	cli, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}
	return &geminiClient{cli: cli, cfg: cfg}, nil
}

// Complete generates content with system instruction and joins text parts of the first candidate
func (g *geminiClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	gcfg := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(g.cfg.MaxTokens), //nolint:gosec // bounded by config
		Temperature:     genai.Ptr(float32(g.cfg.Temperature)),
	}
	if system != "" {
		gcfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	resp, err := g.cli.Models.GenerateContent(ctx, g.cfg.Model,
		[]*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: prompt}}}}, gcfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errEmptyAnswer
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	if sb.Len() == 0 {
		return "", errEmptyAnswer
	}
	return sb.String(), nil
}
