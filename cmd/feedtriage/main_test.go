package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feedtriage/pkg/config"
	"github.com/umputun/feedtriage/pkg/delivery"
	"github.com/umputun/feedtriage/pkg/hf"
	"github.com/umputun/feedtriage/pkg/llm"
	"github.com/umputun/feedtriage/pkg/service"
	"github.com/umputun/feedtriage/pkg/source"
)

func TestRun_MissingConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: "non-existent-config.yml"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")
}

func TestRun_InvalidConfig(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "invalid-config.yml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("invalid: yaml: content: ["), 0o600))

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: cfgFile})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load config")
}

func TestRun_EnvFile(t *testing.T) {
	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("FEEDTRIAGE_TEST_BACKEND=unknown\n"), 0o600))
	cfgFile := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("models:\n  backend: ${FEEDTRIAGE_TEST_BACKEND}\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("FEEDTRIAGE_TEST_BACKEND") })

	err := run(context.Background(), Opts{Config: cfgFile, EnvFile: envFile})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend", "value from env file reached config validation")
}

func TestRun_ServerStartStop(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("DB_PATH", tmpDir)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- run(ctx, Opts{Config: "testdata/test_config.yml", EnvFile: filepath.Join(tmpDir, "missing.env")})
	}()

	// wait for server to start
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://127.0.0.1:18765/ping")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	resp, err := http.Get("http://127.0.0.1:18765/api/v1/quote")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Listen to your customers.")

	// short feedback takes the local path, no model calls
	resp2, err := http.Get("http://127.0.0.1:18765/classify?text=Great+app")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)

	cancel()
	select {
	case err := <-serverErr:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server shutdown timeout")
	}
	_, err = os.Stat(filepath.Join(tmpDir, "feedtriage.db"))
	assert.NoError(t, err, "history database created")
}

func TestSecrets(t *testing.T) {
	cfg := &config.Config{}
	cfg.Models.HF.Token = "hf-token"
	cfg.LLM.APIKey = "llm-key"
	cfg.Delivery.SMTP.Password = "smtp-pass"
	assert.Equal(t, []string{"hf-token", "llm-key", "smtp-pass"}, secrets(cfg))
	assert.Empty(t, secrets(&config.Config{}))
}

func TestMakeScheduler(t *testing.T) {
	cfg := &config.Config{}
	cfg.Schedule.Cron = "0 9 * * 1"
	cfg.Schedule.Timezone = "UTC"
	cfg.Schedule.Format = "md"
	cfg.Schedule.EmailTo = "team@example.com"
	cfg.Delivery.SMTP.From = "bot@example.com"

	svc := service.NewTriageService(service.Params{})
	slack, mailer := delivery.NewSlack(time.Second), delivery.NewMailer(cfg.Delivery.SMTP)

	sched, err := makeScheduler(cfg, svc, slack, mailer)
	require.NoError(t, err)
	assert.NotNil(t, sched)

	cfg.Schedule.Timezone = "Mars/Olympus"
	_, err = makeScheduler(cfg, svc, slack, mailer)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timezone")

	cfg.Schedule.Timezone = "Local"
	cfg.Schedule.Cron = "not a cron"
	_, err = makeScheduler(cfg, svc, slack, mailer)
	require.Error(t, err)
}

type countingCompleter struct{ calls int }

func (c *countingCompleter) Complete(context.Context, string, string) (string, error) {
	c.calls++
	return `[{"label":"high urgency","score":0.9}]`, nil
}

func TestMakeModels(t *testing.T) {
	t.Run("llm backend shares completer", func(t *testing.T) {
		completer := &countingCompleter{}
		cfg := &config.Config{Models: config.ModelsConfig{Backend: "llm"}}
		ranker, summarizer := makeModels(cfg, completer)
		assert.IsType(t, &llm.Ranker{}, ranker)
		assert.IsType(t, &llm.Summarizer{}, summarizer)

		res, err := ranker.Rank(context.Background(), "checkout fails", []string{"high urgency", "low urgency"})
		require.NoError(t, err)
		assert.Equal(t, "high urgency", res[0].Label)
		assert.Equal(t, 1, completer.calls, "ranker calls the completer passed in")
	})

	t.Run("hf backend", func(t *testing.T) {
		cfg := &config.Config{Models: config.ModelsConfig{Backend: "hf"}}
		ranker, summarizer := makeModels(cfg, &countingCompleter{})
		assert.IsType(t, &hf.Client{}, ranker)
		assert.Same(t, ranker, summarizer)
	})
}

func TestFeedbackSource(t *testing.T) {
	_, ok := feedbackSource(config.FeedbackConfig{CSVPath: "testdata/feedback.csv"}).(*source.CSVSource)
	assert.True(t, ok, "csv only without feeds")

	src := feedbackSource(config.FeedbackConfig{CSVPath: "testdata/feedback.csv", Feeds: []string{"http://127.0.0.1:1/rss"}})
	multi, ok := src.(source.Multi)
	require.True(t, ok)
	assert.Len(t, multi, 2)
}

func TestSetupLog(t *testing.T) {
	t.Run("debug mode enabled", func(t *testing.T) {
		setupLog(true, false)
	})
	t.Run("debug mode disabled", func(t *testing.T) {
		setupLog(false, false)
	})
	t.Run("with secrets", func(t *testing.T) {
		setupLog(true, false, "secret1", "secret2")
	})
	t.Run("no color mode", func(t *testing.T) {
		setupLog(false, true)
	})
}
