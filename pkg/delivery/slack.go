// Package delivery sends generated reports to slack and email.
package delivery

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/slack-go/slack"

	"github.com/umputun/feedtriage/pkg/domain"
	"github.com/umputun/feedtriage/pkg/metrics"
)

// slackTextLimit is max size of webhook message text accepted by slack
const slackTextLimit = 40000

// Slack posts reports to incoming webhooks
type Slack struct {
	httpClient *http.Client
}

// NewSlack makes slack sender with request timeout
func NewSlack(timeout time.Duration) *Slack {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Slack{httpClient: &http.Client{Timeout: timeout}}
}

// Send posts report content as a code block to the webhook
func (s *Slack) Send(ctx context.Context, webhookURL string, report domain.ReportFile) (err error) {
	defer func() { metrics.Deliveries.WithLabelValues("slack", metrics.DeliveryStatus(err)).Inc() }()

	if strings.TrimSpace(webhookURL) == "" {
		return fmt.Errorf("%w: slack webhook url is %w", domain.ErrDeliveryFailure, domain.ErrInputMissing)
	}

	msg := &slack.WebhookMessage{Text: SlackText(report.Content)}
	if err := slack.PostWebhookCustomHTTPContext(ctx, webhookURL, s.httpClient, msg); err != nil {
		return fmt.Errorf("%w: post slack webhook: %w", domain.ErrDeliveryFailure, err)
	}
	log.Printf("[INFO] report %s sent to slack", report.Name)
	return nil
}

// SlackText formats report content for slack message
func SlackText(content []byte) string {
	body := string(content)
	overhead := len("*Weekly Feedback Report:*\n``````")
	if len(body)+overhead > slackTextLimit {
		n := slackTextLimit - overhead - len("\n...")
		for n > 0 && !utf8.RuneStart(body[n]) {
			n--
		}
		body = body[:n] + "\n..."
	}
	return "*Weekly Feedback Report:*\n```" + body + "```"
}
