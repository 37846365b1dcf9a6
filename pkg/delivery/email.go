package delivery

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/umputun/feedtriage/pkg/config"
	"github.com/umputun/feedtriage/pkg/domain"
	"github.com/umputun/feedtriage/pkg/metrics"
)

// sendFunc delivers prepared message through smtp relay with sender credentials
type sendFunc func(ctx context.Context, req domain.EmailRequest, msg *mail.Msg) error

// Mailer sends reports as email attachments
type Mailer struct {
	host    string
	port    int
	timeout time.Duration
	send    sendFunc
	now     func() time.Time
}

// NewMailer makes mailer for smtp relay with PLAIN auth and opportunistic STARTTLS
func NewMailer(cfg config.SMTPConfig) *Mailer {
	m := &Mailer{host: cfg.Host, port: cfg.Port, timeout: cfg.Timeout, now: time.Now}
	if m.timeout <= 0 {
		m.timeout = 30 * time.Second
	}
	m.send = m.sendSMTP
	return m
}

// Send mails the report as attachment with plain text body
func (m *Mailer) Send(ctx context.Context, req domain.EmailRequest, report domain.ReportFile) (err error) {
	defer func() { metrics.Deliveries.WithLabelValues("email", metrics.DeliveryStatus(err)).Inc() }()

	if req.From == "" || req.To == "" {
		return fmt.Errorf("%w: sender and recipient are %w", domain.ErrDeliveryFailure, domain.ErrInputMissing)
	}

	msg, err := m.buildMessage(req, report)
	if err != nil {
		return fmt.Errorf("%w: build message: %w", domain.ErrDeliveryFailure, err)
	}
	if err := m.send(ctx, req, msg); err != nil {
		return fmt.Errorf("%w: send email to %s: %w", domain.ErrDeliveryFailure, req.To, err)
	}
	log.Printf("[INFO] report %s emailed to %s", report.Name, req.To)
	return nil
}

// buildMessage makes message with text body and the report attached, if any
func (m *Mailer) buildMessage(req domain.EmailRequest, report domain.ReportFile) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(req.From); err != nil {
		return nil, fmt.Errorf("sender %q: %w", req.From, err)
	}
	if err := msg.To(req.To); err != nil {
		return nil, fmt.Errorf("recipient %q: %w", req.To, err)
	}
	msg.Subject(req.Subject)
	msg.SetDateWithValue(m.now())
	msg.SetBodyString(mail.TypeTextPlain, req.Body)
	if report.Name != "" {
		if err := msg.AttachReader(report.Name, bytes.NewReader(report.Content)); err != nil {
			return nil, fmt.Errorf("attach %s: %w", report.Name, err)
		}
	}
	return msg, nil
}

// sendSMTP dials the relay, upgrades to tls if offered and sends the message
func (m *Mailer) sendSMTP(ctx context.Context, req domain.EmailRequest, msg *mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(m.port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(m.timeout),
	}
	if req.Password != "" {
		opts = append(opts, mail.WithSMTPAuth(mail.SMTPAuthPlain), mail.WithUsername(req.From),
			mail.WithPassword(req.Password))
	}
	client, err := mail.NewClient(m.host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}
