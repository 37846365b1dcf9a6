package domain

import (
	"fmt"
	"strings"
	"time"
)

// Format is a report serialization format
type Format string

// supported report formats
const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
)

// ParseFormat converts user supplied format name, case-insensitive
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("%w %q, choose 'json' or 'md'", ErrUnsupportedFormat, s)
}

// Ext returns file extension for the format, without dot
func (f Format) Ext() string {
	return string(f)
}

// Report is the weekly report document
type Report struct {
	WeekOf    string          `json:"week_of"`
	TopIssues []ProcessedItem `json:"top_issues"`
}

// ReportFile describes a generated report persisted on disk
type ReportFile struct {
	ID          string
	Name        string
	Path        string
	Format      Format
	Items       int
	Content     []byte
	GeneratedAt time.Time
	ArchiveKey  string
}

// ReportRun is a stored record of a report generation
type ReportRun struct {
	ID         string    `json:"id"`
	Name       string    `json:"file"`
	Format     Format    `json:"format"`
	Items      int       `json:"items"`
	ArchiveKey string    `json:"archive_key,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// EmailRequest holds parameters of a report email
type EmailRequest struct {
	From     string
	Password string
	To       string
	Subject  string
	Body     string
}
