// Package service ties feedback source, triage pipeline, reports and history together.
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/umputun/feedtriage/pkg/domain"
	"github.com/umputun/feedtriage/pkg/metrics"
)

// Triager classifies single feedback and batches of rows
type Triager interface {
	Classify(ctx context.Context, raw string) (domain.ClassificationResult, error)
	Process(ctx context.Context, rows []domain.FeedbackRecord) ([]domain.ProcessedItem, error)
}

// FeedbackSource loads feedback rows
type FeedbackSource interface {
	Load(ctx context.Context) ([]domain.FeedbackRecord, error)
}

// ReportWriter builds and reads report files
type ReportWriter interface {
	Build(items []domain.ProcessedItem, format string) (domain.ReportFile, error)
	Read(name string) (domain.ReportFile, error)
}

// Archiver keeps copies of generated reports
type Archiver interface {
	Store(ctx context.Context, file domain.ReportFile) (string, error)
}

// ClassificationStore keeps history of classify answers
type ClassificationStore interface {
	SaveClassification(ctx context.Context, run domain.ClassificationRun) error
	RecentClassifications(ctx context.Context, limit int) ([]domain.ClassificationRun, error)
}

// ReportStore keeps history of generated reports
type ReportStore interface {
	SaveReport(ctx context.Context, run domain.ReportRun) error
	RecentReports(ctx context.Context, limit int) ([]domain.ReportRun, error)
}

// InsightGenerator produces insights for a batch of feedback
type InsightGenerator interface {
	Insights(ctx context.Context, feedback []string) (string, error)
}

// Params defines dependencies of TriageService, Archive, histories and Insights are optional
type Params struct {
	Pipeline        Triager
	Source          FeedbackSource
	Reports         ReportWriter
	Archive         Archiver
	Classifications ClassificationStore
	ReportHistory   ReportStore
	Insights        InsightGenerator
	InsightsLimit   int // max feedback rows sent to insight generator, 0 for all
}

// TriageService is the application layer used by http handlers and scheduler
type TriageService struct {
	deps        Params
	reportGroup singleflight.Group
	newID       func() string
	now         func() time.Time
}

// NewTriageService makes service with given dependencies
func NewTriageService(p Params) *TriageService {
	return &TriageService{
		deps:  p,
		newID: func() string { return uuid.NewString() },
		now:   time.Now,
	}
}

// Classify classifies single feedback text and records the answer in history
func (s *TriageService) Classify(ctx context.Context, text string) (domain.ClassificationResult, error) {
	if text == "" {
		return domain.ClassificationResult{}, fmt.Errorf("classify: feedback text is %w", domain.ErrInputMissing)
	}

	res, err := s.deps.Pipeline.Classify(ctx, text)
	if err != nil {
		return domain.ClassificationResult{}, fmt.Errorf("classify: %w", err)
	}

	if s.deps.Classifications != nil {
		run := domain.ClassificationRun{ID: s.newID(), Feedback: text, Result: res, CreatedAt: s.now()}
		if err := s.deps.Classifications.SaveClassification(ctx, run); err != nil {
			log.Printf("[WARN] failed to save classification %s: %v", run.ID, err)
		}
	}
	return res, nil
}

// Feedback returns loaded feedback rows
func (s *TriageService) Feedback(ctx context.Context) ([]domain.FeedbackRecord, error) {
	rows, err := s.deps.Source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load feedback: %w", err)
	}
	return rows, nil
}

// GenerateReport classifies all feedback and writes the weekly report in requested format.
// Concurrent calls for the same format share a single generation.
func (s *TriageService) GenerateReport(ctx context.Context, format string) (domain.ReportFile, error) {
	f, err := domain.ParseFormat(format)
	if err != nil {
		return domain.ReportFile{}, err
	}

	// generation is shared, so it should not be canceled by the first caller going away
	sharedCtx := context.WithoutCancel(ctx)
	v, err, shared := s.reportGroup.Do(string(f), func() (any, error) {
		return s.generate(sharedCtx, f)
	})
	if err != nil {
		return domain.ReportFile{}, err
	}
	if shared {
		log.Printf("[DEBUG] report generation for %s shared between callers", f)
	}
	return v.(domain.ReportFile), nil
}

func (s *TriageService) generate(ctx context.Context, f domain.Format) (domain.ReportFile, error) {
	st := time.Now()
	rows, err := s.Feedback(ctx)
	if err != nil {
		return domain.ReportFile{}, err
	}

	items, err := s.deps.Pipeline.Process(ctx, rows)
	if err != nil {
		return domain.ReportFile{}, fmt.Errorf("process feedback: %w", err)
	}

	file, err := s.deps.Reports.Build(items, string(f))
	if err != nil {
		return domain.ReportFile{}, fmt.Errorf("build report: %w", err)
	}
	file.ID = s.newID()
	metrics.ReportsGenerated.WithLabelValues(string(f)).Inc()

	if s.deps.Archive != nil {
		key, err := s.deps.Archive.Store(ctx, file)
		if err != nil {
			log.Printf("[WARN] failed to archive report %s: %v", file.Name, err)
		} else {
			file.ArchiveKey = key
		}
	}

	if s.deps.ReportHistory != nil {
		run := domain.ReportRun{ID: file.ID, Name: file.Name, Format: file.Format, Items: file.Items,
			ArchiveKey: file.ArchiveKey, CreatedAt: file.GeneratedAt}
		if err := s.deps.ReportHistory.SaveReport(ctx, run); err != nil {
			log.Printf("[WARN] failed to save report history %s: %v", file.Name, err)
		}
	}

	log.Printf("[INFO] report %s generated with %d items in %v", file.Name, file.Items, time.Since(st).Round(time.Millisecond))
	return file, nil
}

// LoadReport reads previously generated report file by name
func (s *TriageService) LoadReport(name string) (domain.ReportFile, error) {
	file, err := s.deps.Reports.Read(name)
	if err != nil {
		return domain.ReportFile{}, fmt.Errorf("load report: %w", err)
	}
	return file, nil
}

// Insights generates prioritized insights for loaded feedback
func (s *TriageService) Insights(ctx context.Context) (string, error) {
	if s.deps.Insights == nil {
		return "", fmt.Errorf("insights: llm is %w", domain.ErrNotConfigured)
	}

	rows, err := s.Feedback(ctx)
	if err != nil {
		return "", err
	}
	if s.deps.InsightsLimit > 0 && len(rows) > s.deps.InsightsLimit {
		rows = rows[:s.deps.InsightsLimit]
	}

	texts := make([]string, 0, len(rows))
	for _, r := range rows {
		texts = append(texts, r.Raw)
	}
	return s.deps.Insights.Insights(ctx, texts)
}

// RecentReports returns latest generated reports, empty if history is not kept
func (s *TriageService) RecentReports(ctx context.Context, limit int) ([]domain.ReportRun, error) {
	if s.deps.ReportHistory == nil {
		return []domain.ReportRun{}, nil
	}
	return s.deps.ReportHistory.RecentReports(ctx, limit)
}

// RecentClassifications returns latest classify answers, empty if history is not kept
func (s *TriageService) RecentClassifications(ctx context.Context, limit int) ([]domain.ClassificationRun, error) {
	if s.deps.Classifications == nil {
		return []domain.ClassificationRun{}, nil
	}
	return s.deps.Classifications.RecentClassifications(ctx, limit)
}
