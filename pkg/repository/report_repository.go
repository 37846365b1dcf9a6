package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/feedtriage/pkg/domain"
)

// ReportRepository stores history of generated reports
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// reportRow is a database row of reports table
type reportRow struct {
	ID         string    `db:"id"`
	FileName   string    `db:"file_name"`
	Format     string    `db:"format"`
	Items      int       `db:"items"`
	ArchiveKey string    `db:"archive_key"`
	CreatedAt  time.Time `db:"created_at"`
}

// SaveReport inserts report run, retrying on lock errors
func (r *ReportRepository) SaveReport(ctx context.Context, run domain.ReportRun) error {
	if run.ID == "" {
		return fmt.Errorf("save report: empty id")
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	err := newRetrier().Do(ctx, func() error {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO reports (id, file_name, format, items, archive_key, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			run.ID, run.Name, string(run.Format), run.Items, run.ArchiveKey, run.CreatedAt.UTC())
		return classifyWriteErr(err)
	}, errCritical)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

// RecentReports returns latest report runs, newest first
func (r *ReportRepository) RecentReports(ctx context.Context, limit int) ([]domain.ReportRun, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows []reportRow
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT id, file_name, format, items, COALESCE(archive_key, '') AS archive_key, created_at
		FROM reports
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("get recent reports: %w", err)
	}

	res := make([]domain.ReportRun, 0, len(rows))
	for _, row := range rows {
		res = append(res, domain.ReportRun{
			ID:         row.ID,
			Name:       row.FileName,
			Format:     domain.Format(row.Format),
			Items:      row.Items,
			ArchiveKey: row.ArchiveKey,
			CreatedAt:  row.CreatedAt,
		})
	}
	return res, nil
}
