// Package source loads customer feedback rows from csv files.
package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/umputun/feedtriage/pkg/domain"
	"github.com/umputun/feedtriage/pkg/triage"
)

// CSVSource reads feedback from a csv file with a header row
type CSVSource struct {
	path   string
	column string
}

// NewCSVSource makes csv source, column is the name of feedback column, "feedback" by default
func NewCSVSource(path, column string) *CSVSource {
	if column == "" {
		column = "feedback"
	}
	return &CSVSource{path: path, column: column}
}

// Load reads all rows in file order. Missing file gives empty result, rows without
// feedback column are returned as empty feedback.
func (s *CSVSource) Load(ctx context.Context) ([]domain.FeedbackRecord, error) {
	fh, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("[WARN] feedback file %s not found", s.path)
		return []domain.FeedbackRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open feedback file: %w", err)
	}
	defer fh.Close()
	return s.read(ctx, fh)
}

func (s *CSVSource) read(ctx context.Context, r io.Reader) ([]domain.FeedbackRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []domain.FeedbackRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	idx := columns(header)

	res := []domain.FeedbackRecord{}
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		rec := triage.NewRecord(cell(row, idx, s.column))
		rec.Source = cell(row, idx, "source")
		rec.Date = cell(row, idx, "date")
		res = append(res, rec)
	}
	return res, nil
}

// columns maps lower-cased header names to positions
func columns(header []string) map[string]int {
	res := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, ok := res[h]; !ok {
			res[h] = i
		}
	}
	return res
}

func cell(row []string, idx map[string]int, name string) string {
	i, ok := idx[strings.ToLower(name)]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
