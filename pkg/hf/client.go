// Package hf implements label ranking and summarization on top of the Hugging Face inference API.
package hf

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-pkgz/repeater/v2"

	"github.com/umputun/feedtriage/pkg/config"
	"github.com/umputun/feedtriage/pkg/domain"
)

// errRejected marks responses which are not worth retrying
var errRejected = errors.New("request rejected")

// Client calls zero-shot classification and summarization models
type Client struct {
	httpClient *http.Client
	cfg        config.HFConfig
	summary    config.SummaryConfig
}

// New makes hf client for given models and summary bounds
func New(cfg config.HFConfig, summary config.SummaryConfig) *Client {
	if cfg.Retries < 1 {
		cfg.Retries = 1
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = time.Second
	}
	return &Client{
		httpClient: &http.Client{},
		cfg:        cfg,
		summary:    summary,
	}
}

type zeroShotRequest struct {
	Inputs     string `json:"inputs"`
	Parameters struct {
		CandidateLabels []string `json:"candidate_labels"`
	} `json:"parameters"`
	Options requestOptions `json:"options"`
}

type summaryRequest struct {
	Inputs     string `json:"inputs"`
	Parameters struct {
		MinLength int `json:"min_length,omitempty"`
		MaxLength int `json:"max_length,omitempty"`
	} `json:"parameters"`
	Options requestOptions `json:"options"`
}

type requestOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

// Rank scores candidate labels for the text, best label first
func (c *Client) Rank(ctx context.Context, text string, labels []string) ([]domain.LabelScore, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("no candidate labels")
	}
	req := zeroShotRequest{Inputs: text, Options: requestOptions{WaitForModel: true}}
	req.Parameters.CandidateLabels = labels

	body, err := c.call(ctx, c.cfg.ClassifierModel, req)
	if err != nil {
		return nil, fmt.Errorf("zero-shot classification: %w", err)
	}

	res, err := parseRanking(body)
	if err != nil {
		return nil, fmt.Errorf("zero-shot classification: %w", err)
	}
	return res, nil
}

// Summarize returns abstractive summary of the text
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	req := summaryRequest{Inputs: text, Options: requestOptions{WaitForModel: true}}
	req.Parameters.MinLength = c.summary.MinLength
	req.Parameters.MaxLength = c.summary.MaxLength

	body, err := c.call(ctx, c.cfg.SummarizerModel, req)
	if err != nil {
		return "", fmt.Errorf("summarization: %w", err)
	}

	var resp []struct {
		SummaryText string `json:"summary_text"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("summarization: failed to parse response: %w", err)
	}
	if len(resp) == 0 {
		return "", fmt.Errorf("summarization: empty response")
	}
	return strings.TrimSpace(resp[0].SummaryText), nil
}

// call posts the payload to the model, retrying on transport errors, 429 and 5xx
func (c *Client) call(ctx context.Context, model string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	url := strings.TrimSuffix(c.cfg.Endpoint, "/") + "/" + model

	var body []byte
	retrier := repeater.NewBackoff(c.cfg.Retries, c.cfg.RetryDelay, repeater.WithMaxDelay(30*time.Second))
	err = retrier.Do(ctx, func() error {
		var attemptErr error
		body, attemptErr = c.attempt(ctx, url, data)
		if attemptErr != nil && !errors.Is(attemptErr, errRejected) {
			log.Printf("[DEBUG] hf request to %s failed, will retry: %v", model, attemptErr)
		}
		return attemptErr
	}, errRejected)
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) attempt(ctx context.Context, url string, data []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", errRejected, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		// includes 503 while the model is loading
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, apiError(body))
	default:
		return nil, fmt.Errorf("%w: status %d: %s", errRejected, resp.StatusCode, apiError(body))
	}
}

// parseRanking accepts both {labels, scores} and [{label, score}] shapes
func parseRanking(body []byte) ([]domain.LabelScore, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty response")
	}

	var res []domain.LabelScore
	if trimmed[0] == '[' {
		var pairs []struct {
			Label string  `json:"label"`
			Score float64 `json:"score"`
		}
		if err := json.Unmarshal(trimmed, &pairs); err != nil {
			return nil, fmt.Errorf("failed to parse label list: %w", err)
		}
		for _, p := range pairs {
			res = append(res, domain.LabelScore{Label: p.Label, Score: p.Score})
		}
	} else {
		var classic struct {
			Labels []string  `json:"labels"`
			Scores []float64 `json:"scores"`
		}
		if err := json.Unmarshal(trimmed, &classic); err != nil {
			return nil, fmt.Errorf("failed to parse labels and scores: %w", err)
		}
		if len(classic.Labels) != len(classic.Scores) {
			return nil, fmt.Errorf("labels and scores mismatch, %d != %d", len(classic.Labels), len(classic.Scores))
		}
		for i, l := range classic.Labels {
			res = append(res, domain.LabelScore{Label: l, Score: classic.Scores[i]})
		}
	}

	if len(res) == 0 {
		return nil, fmt.Errorf("no labels in response")
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].Score > res[j].Score })
	return res, nil
}

// apiError extracts error message from api response
func apiError(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
