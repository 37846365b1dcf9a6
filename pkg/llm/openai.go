package llm

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/umputun/feedtriage/pkg/config"
)

// openAI talks to OpenAI-compatible chat completion endpoints
type openAI struct {
	client *openai.Client
	cfg    config.LLMConfig
}

func newOpenAI(cfg config.LLMConfig) *openAI {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}
	return &openAI{client: openai.NewClientWithConfig(clientConfig), cfg: cfg}
}

// Complete sends system and user messages as a single chat completion
func (o *openAI) Complete(ctx context.Context, system, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       o.cfg.Model,
		Temperature: float32(o.cfg.Temperature),
		MaxTokens:   o.cfg.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errEmptyAnswer
	}
	return resp.Choices[0].Message.Content, nil
}
