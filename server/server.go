package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/feedtriage/pkg/config"
	"github.com/umputun/feedtriage/pkg/domain"
	"github.com/umputun/feedtriage/pkg/metrics"
	"github.com/umputun/feedtriage/pkg/quote"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/triage.go -pkg mocks -skip-ensure -fmt goimports . Triage
//go:generate moq -out mocks/slack.go -pkg mocks -skip-ensure -fmt goimports . SlackSender
//go:generate moq -out mocks/email.go -pkg mocks -skip-ensure -fmt goimports . EmailSender

// Server represents HTTP server instance
type Server struct {
	config  ConfigProvider
	triage  Triage
	slack   SlackSender
	mailer  EmailSender
	quotes  *quote.Rotator
	version string
	debug   bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Triage interface for feedback classification and reports
type Triage interface {
	Classify(ctx context.Context, text string) (domain.ClassificationResult, error)
	Feedback(ctx context.Context) ([]domain.FeedbackRecord, error)
	GenerateReport(ctx context.Context, format string) (domain.ReportFile, error)
	Insights(ctx context.Context) (string, error)
	LoadReport(name string) (domain.ReportFile, error)
	RecentReports(ctx context.Context, limit int) ([]domain.ReportRun, error)
	RecentClassifications(ctx context.Context, limit int) ([]domain.ClassificationRun, error)
}

// SlackSender posts report to slack webhook
type SlackSender interface {
	Send(ctx context.Context, webhookURL string, report domain.ReportFile) error
}

// EmailSender mails report as attachment
type EmailSender interface {
	Send(ctx context.Context, req domain.EmailRequest, report domain.ReportFile) error
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
	GetDeliveryConfig() config.DeliveryConfig
}

// Deps holds server dependencies
type Deps struct {
	Config ConfigProvider
	Triage Triage
	Slack  SlackSender
	Mailer EmailSender
	Quotes *quote.Rotator
}

// New initializes a new server instance
func New(deps Deps, version string, debug bool) *Server {
	if deps.Quotes == nil {
		deps.Quotes = quote.NewRotator(nil)
	}
	s := &Server{
		config:  deps.Config,
		triage:  deps.Triage,
		slack:   deps.Slack,
		mailer:  deps.Mailer,
		quotes:  deps.Quotes,
		version: version,
		debug:   debug,
		router:  routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		s.lock.Lock()
		defer s.lock.Unlock()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("feedtriage", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /{$}", s.rootHandler)
	s.router.HandleFunc("GET /health", s.healthHandler)
	s.router.HandleFunc("GET /feedback", s.feedbackHandler)
	s.router.HandleFunc("GET /classify", s.classifyHandler)
	s.router.HandleFunc("GET /generate_report", s.generateReportHandler)
	s.router.HandleFunc("GET /send_slack", s.sendSlackHandler)
	s.router.HandleFunc("GET /send_email", s.sendEmailHandler)
	s.router.Handle("GET /metrics", metrics.Handler())

	// API routes
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("GET /insights", s.insightsHandler)
		r.HandleFunc("GET /quote", s.quoteHandler)
		r.HandleFunc("GET /reports", s.reportsHandler)
		r.HandleFunc("GET /reports/{name}", s.reportFileHandler)
		r.HandleFunc("GET /classifications", s.classificationsHandler)
	})
}
