// Package scheduler runs periodic weekly report generation and delivery.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/umputun/feedtriage/pkg/domain"
)

// ReportGenerator generates report in requested format
type ReportGenerator interface {
	GenerateReport(ctx context.Context, format string) (domain.ReportFile, error)
}

// SlackSender posts report to slack webhook
type SlackSender interface {
	Send(ctx context.Context, webhookURL string, report domain.ReportFile) error
}

// EmailSender mails report as attachment
type EmailSender interface {
	Send(ctx context.Context, req domain.EmailRequest, report domain.ReportFile) error
}

// Config holds scheduler configuration
type Config struct {
	Spec         string         // 5-field cron expression
	Location     *time.Location // time zone of Spec, local if nil
	Format       string
	SlackWebhook string // empty disables slack delivery
	Email        domain.EmailRequest
	JobTimeout   time.Duration
}

// Scheduler generates and delivers the weekly report on a cron schedule
type Scheduler struct {
	cfg       Config
	reports   ReportGenerator
	slack     SlackSender
	mailer    EmailSender
	cron      *cron.Cron
	ctx       context.Context
	cancel    context.CancelFunc
	startOnce sync.Once
}

// ParseSpec validates 5-field cron expression
func ParseSpec(spec string) (cron.Schedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(strings.TrimSpace(spec))
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return sched, nil
}

// New makes scheduler, slack and mailer may be nil if the delivery is not used
func New(cfg Config, reports ReportGenerator, slack SlackSender, mailer EmailSender) (*Scheduler, error) {
	if reports == nil {
		return nil, errors.New("report generator is required")
	}
	sched, err := ParseSpec(cfg.Spec)
	if err != nil {
		return nil, err
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Format == "" {
		cfg.Format = string(domain.FormatMarkdown)
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 30 * time.Minute
	}

	s := &Scheduler{cfg: cfg, reports: reports, slack: slack, mailer: mailer}
	s.cron = cron.New(cron.WithLocation(cfg.Location), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	s.cron.Schedule(sched, cron.FuncJob(s.job))
	return s, nil
}

// Start begins the scheduler
func (s *Scheduler) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		s.ctx, s.cancel = context.WithCancel(ctx)
		s.cron.Start()
		next := s.cron.Entries()[0].Schedule.Next(time.Now().In(s.cfg.Location))
		log.Printf("[INFO] report scheduler started, spec %q, next run at %s", s.cfg.Spec, next.Format(time.RFC3339))
	})
}

// Stop gracefully stops the scheduler and waits for the running job
func (s *Scheduler) Stop() {
	log.Printf("[INFO] stopping report scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	<-s.cron.Stop().Done()
	log.Printf("[INFO] report scheduler stopped")
}

func (s *Scheduler) job() {
	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.JobTimeout)
	defer cancel()
	if err := s.RunOnce(ctx); err != nil {
		log.Printf("[ERROR] scheduled report failed: %v", err)
	}
}

// RunOnce generates the report and delivers it to all configured destinations.
// Delivery failures are collected, one failed destination does not block others.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	file, err := s.reports.GenerateReport(ctx, s.cfg.Format)
	if err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	var errs []error
	if s.cfg.SlackWebhook != "" && s.slack != nil {
		if err := s.slack.Send(ctx, s.cfg.SlackWebhook, file); err != nil {
			errs = append(errs, err)
		}
	}
	if s.cfg.Email.To != "" && s.mailer != nil {
		req := s.cfg.Email
		if req.Body == "" {
			req.Body = fmt.Sprintf("Weekly feedback report with %d issues is attached.", file.Items)
		}
		if err := s.mailer.Send(ctx, req, file); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("deliver report %s: %w", file.Name, errors.Join(errs...))
	}
	log.Printf("[INFO] scheduled report %s generated and delivered", file.Name)
	return nil
}
