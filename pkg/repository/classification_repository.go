package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/feedtriage/pkg/domain"
)

// ClassificationRepository stores answers of the classify endpoint
type ClassificationRepository struct {
	db *sqlx.DB
}

// NewClassificationRepository creates a new classification repository
func NewClassificationRepository(db *sqlx.DB) *ClassificationRepository {
	return &ClassificationRepository{db: db}
}

// classificationRow is a database row of classifications table
type classificationRow struct {
	ID            string    `db:"id"`
	Feedback      string    `db:"feedback"`
	Urgency       string    `db:"urgency"`
	Impact        string    `db:"impact"`
	Summary       string    `db:"summary"`
	Reason        string    `db:"reason"`
	PriorityScore int       `db:"priority_score"`
	CreatedAt     time.Time `db:"created_at"`
}

// SaveClassification inserts classification run, retrying on lock errors
func (r *ClassificationRepository) SaveClassification(ctx context.Context, run domain.ClassificationRun) error {
	if run.ID == "" {
		return fmt.Errorf("save classification: empty id")
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	err := newRetrier().Do(ctx, func() error {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO classifications (id, feedback, urgency, impact, summary, reason, priority_score, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, run.Feedback, string(run.Result.Urgency), string(run.Result.Impact),
			run.Result.Summary, run.Result.Reason, run.Result.PriorityScore, run.CreatedAt.UTC())
		return classifyWriteErr(err)
	}, errCritical)
	if err != nil {
		return fmt.Errorf("save classification: %w", err)
	}
	return nil
}

// RecentClassifications returns latest classifications, newest first
func (r *ClassificationRepository) RecentClassifications(ctx context.Context, limit int) ([]domain.ClassificationRun, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []classificationRow
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT id, feedback, urgency, impact, summary, reason, priority_score, created_at
		FROM classifications
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("get recent classifications: %w", err)
	}

	res := make([]domain.ClassificationRun, 0, len(rows))
	for _, row := range rows {
		res = append(res, row.toDomain())
	}
	return res, nil
}

func (row classificationRow) toDomain() domain.ClassificationRun {
	urgency, _ := domain.ParseLevel(row.Urgency)
	impact, _ := domain.ParseLevel(row.Impact)
	return domain.ClassificationRun{
		ID:       row.ID,
		Feedback: row.Feedback,
		Result: domain.ClassificationResult{
			Urgency:       urgency,
			Impact:        impact,
			Summary:       row.Summary,
			Reason:        row.Reason,
			PriorityScore: row.PriorityScore,
		},
		CreatedAt: row.CreatedAt,
	}
}
