package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/feedtriage/pkg/domain"
)

func TestSlack_Send(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/services/T0/B0/XYZ", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	report := domain.ReportFile{Name: "weekly_report_2025-06-02.md", Content: []byte("# Weekly Feedback Report")}
	err := NewSlack(time.Second).Send(context.Background(), server.URL+"/services/T0/B0/XYZ", report)
	require.NoError(t, err)
	assert.Equal(t, "*Weekly Feedback Report:*\n```# Weekly Feedback Report```", got["text"])
}

func TestSlack_SendFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("invalid_token"))
	}))
	defer server.Close()

	err := NewSlack(time.Second).Send(context.Background(), server.URL, domain.ReportFile{Content: []byte("x")})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDeliveryFailure)
}

func TestSlack_SendNoWebhook(t *testing.T) {
	err := NewSlack(0).Send(context.Background(), " ", domain.ReportFile{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDeliveryFailure)
	assert.ErrorIs(t, err, domain.ErrInputMissing)
}

func TestSlackText(t *testing.T) {
	assert.Equal(t, "*Weekly Feedback Report:*\n```[]```", SlackText([]byte("[]")))

	long := SlackText([]byte(strings.Repeat("x", slackTextLimit*2)))
	assert.Len(t, long, slackTextLimit)
	assert.True(t, strings.HasSuffix(long, "\n...```"))

	for _, r := range []string{"é", "отзыв", "💳"} {
		t.Run(r, func(t *testing.T) {
			text := SlackText([]byte(strings.Repeat(r, slackTextLimit)))
			assert.True(t, utf8.ValidString(text), "truncated on a rune boundary")
			assert.LessOrEqual(t, len(text), slackTextLimit)
			assert.True(t, strings.HasSuffix(text, "\n...```"))
		})
	}
}
