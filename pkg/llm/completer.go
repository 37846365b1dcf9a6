// Package llm provides hosted LLM completions for label ranking, summaries and insights.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-pkgz/repeater/v2"

	"github.com/umputun/feedtriage/pkg/config"
)

// Completer returns model answer for system and user prompts
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// errEmptyAnswer returned when the provider answered without text
var errEmptyAnswer = errors.New("no response from llm")

// NewCompleter makes completer for configured provider, wrapped with per-attempt timeout and retries
func NewCompleter(ctx context.Context, cfg config.LLMConfig) (Completer, error) {
	var base Completer
	switch strings.ToLower(cfg.Provider) {
	case "", "openai":
		base = newOpenAI(cfg)
	case "anthropic":
		base = newAnthropic(cfg)
	case "gemini":
		g, err := newGemini(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("make gemini client: %w", err)
		}
		base = g
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
	return NewRetrying(base, cfg.Timeout, cfg.Retries, cfg.RetryDelay), nil
}

// Retrying wraps completer with capped retries and per-attempt timeout
type Retrying struct {
	next    Completer
	timeout time.Duration
	retries int
	delay   time.Duration
}

// NewRetrying makes retrying completer, zero timeout disables the per-attempt limit
func NewRetrying(next Completer, timeout time.Duration, retries int, delay time.Duration) *Retrying {
	if retries < 1 {
		retries = 1
	}
	if delay <= 0 {
		delay = time.Second
	}
	return &Retrying{next: next, timeout: timeout, retries: retries, delay: delay}
}

// Complete calls wrapped completer until it succeeds or attempts are exhausted
func (r *Retrying) Complete(ctx context.Context, system, prompt string) (string, error) {
	var res string
	attempt := 0
	retrier := repeater.NewBackoff(r.retries, r.delay, repeater.WithMaxDelay(30*time.Second))
	err := retrier.Do(ctx, func() error {
		attempt++
		actx, cancel := ctx, context.CancelFunc(func() {})
		if r.timeout > 0 {
			actx, cancel = context.WithTimeout(ctx, r.timeout)
		}
		defer cancel()

		answer, err := r.next.Complete(actx, system, prompt)
		if err != nil {
			log.Printf("[DEBUG] llm attempt %d/%d failed: %v", attempt, r.retries, err)
			return err
		}
		res = answer
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("llm request failed after %d attempts: %w", attempt, err)
	}
	return res, nil
}
