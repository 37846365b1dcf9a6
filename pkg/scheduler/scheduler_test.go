package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/umputun/feedtriage/pkg/domain"
)

type generatorFunc func(ctx context.Context, format string) (domain.ReportFile, error)

func (f generatorFunc) GenerateReport(ctx context.Context, format string) (domain.ReportFile, error) {
	return f(ctx, format)
}

type slackFunc func(ctx context.Context, webhookURL string, report domain.ReportFile) error

func (f slackFunc) Send(ctx context.Context, webhookURL string, report domain.ReportFile) error {
	return f(ctx, webhookURL, report)
}

type mailFunc func(ctx context.Context, req domain.EmailRequest, report domain.ReportFile) error

func (f mailFunc) Send(ctx context.Context, req domain.EmailRequest, report domain.ReportFile) error {
	return f(ctx, req, report)
}

func okGenerator(t *testing.T, wantFormat string) generatorFunc {
	return func(_ context.Context, format string) (domain.ReportFile, error) {
		assert.Equal(t, wantFormat, format)
		return domain.ReportFile{Name: "weekly_report_2025-06-02." + format, Items: 4}, nil
	}
}

func TestParseSpec(t *testing.T) {
	_, err := ParseSpec("0 9 * * 1")
	require.NoError(t, err)

	_, err = ParseSpec("0 0 9 * * 1")
	require.Error(t, err, "seconds field is not supported")

	_, err = ParseSpec("every monday")
	require.Error(t, err)
}

func TestNew(t *testing.T) {
	_, err := New(Config{Spec: "0 9 * * 1"}, nil, nil, nil)
	require.Error(t, err)

	_, err = New(Config{Spec: "bad"}, okGenerator(t, "md"), nil, nil)
	require.Error(t, err)

	s, err := New(Config{Spec: "0 9 * * 1"}, okGenerator(t, "md"), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "md", s.cfg.Format)
	assert.Equal(t, time.Local, s.cfg.Location)
}

func TestScheduler_RunOnce(t *testing.T) {
	var slackURL string
	var mailed domain.EmailRequest
	s, err := New(Config{
		Spec:         "0 9 * * 1",
		Format:       "json",
		SlackWebhook: "https://hooks.slack.com/services/T/B/X",
		Email:        domain.EmailRequest{From: "bot@example.com", To: "team@example.com", Subject: "Weekly Feedback Report"},
	}, okGenerator(t, "json"),
		slackFunc(func(_ context.Context, url string, r domain.ReportFile) error {
			slackURL = url
			assert.Equal(t, "weekly_report_2025-06-02.json", r.Name)
			return nil
		}),
		mailFunc(func(_ context.Context, req domain.EmailRequest, r domain.ReportFile) error {
			mailed = req
			return nil
		}))
	require.NoError(t, err)

	require.NoError(t, s.RunOnce(context.Background()))
	assert.Equal(t, "https://hooks.slack.com/services/T/B/X", slackURL)
	assert.Equal(t, "team@example.com", mailed.To)
	assert.Equal(t, "Weekly feedback report with 4 issues is attached.", mailed.Body)
}

func TestScheduler_RunOnceErrors(t *testing.T) {
	t.Run("generation failure skips delivery", func(t *testing.T) {
		delivered := false
		s, err := New(Config{Spec: "0 9 * * 1", SlackWebhook: "http://hook"},
			generatorFunc(func(context.Context, string) (domain.ReportFile, error) {
				return domain.ReportFile{}, domain.ErrModelFailure
			}),
			slackFunc(func(context.Context, string, domain.ReportFile) error { delivered = true; return nil }), nil)
		require.NoError(t, err)

		err = s.RunOnce(context.Background())
		require.ErrorIs(t, err, domain.ErrModelFailure)
		assert.False(t, delivered)
	})

	t.Run("one delivery failure does not block other", func(t *testing.T) {
		mailed := false
		s, err := New(Config{Spec: "0 9 * * 1", SlackWebhook: "http://hook", Email: domain.EmailRequest{To: "a@example.com"}},
			okGenerator(t, "md"),
			slackFunc(func(context.Context, string, domain.ReportFile) error {
				return errors.Join(domain.ErrDeliveryFailure, errors.New("403"))
			}),
			mailFunc(func(context.Context, domain.EmailRequest, domain.ReportFile) error { mailed = true; return nil }))
		require.NoError(t, err)

		err = s.RunOnce(context.Background())
		require.ErrorIs(t, err, domain.ErrDeliveryFailure)
		assert.True(t, mailed)
	})
}

func TestScheduler_StartStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	s, err := New(Config{Spec: "0 9 * * 1", Location: time.UTC}, okGenerator(t, "md"), nil, nil)
	require.NoError(t, err)

	s.Start(context.Background())
	s.Start(context.Background()) // second start is a no-op
	s.Stop()
}
