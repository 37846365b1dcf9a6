// Package report serializes processed feedback to weekly report files and archives them.
package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/umputun/feedtriage/pkg/domain"
)

const (
	filePrefix = "weekly_report_"
	dateLayout = "2006-01-02"
)

// Builder makes report documents and writes them to the output directory
type Builder struct {
	outputDir string
	now       func() time.Time
}

// NewBuilder makes a report builder writing files to outputDir, current directory if empty
func NewBuilder(outputDir string) *Builder {
	if outputDir == "" {
		outputDir = "."
	}
	return &Builder{outputDir: outputDir, now: time.Now}
}

// FileName returns report file name for the given date and format
func FileName(date time.Time, format domain.Format) string {
	return fmt.Sprintf("%s%s.%s", filePrefix, date.Format(dateLayout), format.Ext())
}

// Build serializes items in the requested format and writes the report file,
// overwriting a file with the same name. Unsupported format fails before anything is written.
func (b *Builder) Build(items []domain.ProcessedItem, format string) (domain.ReportFile, error) {
	f, err := domain.ParseFormat(format)
	if err != nil {
		return domain.ReportFile{}, err
	}

	now := b.now()
	date := now.Format(dateLayout)
	if items == nil {
		items = []domain.ProcessedItem{}
	}

	var content []byte
	switch f {
	case domain.FormatJSON:
		if content, err = renderJSON(domain.Report{WeekOf: date, TopIssues: items}); err != nil {
			return domain.ReportFile{}, err
		}
	case domain.FormatMarkdown:
		content = renderMarkdown(date, items)
	}

	if err = os.MkdirAll(b.outputDir, 0o750); err != nil {
		return domain.ReportFile{}, fmt.Errorf("make report dir: %w", err)
	}
	name := FileName(now, f)
	path := filepath.Join(b.outputDir, name)
	if err = os.WriteFile(path, content, 0o644); err != nil { //nolint:gosec // report is not sensitive
		return domain.ReportFile{}, fmt.Errorf("write report %s: %w", path, err)
	}

	return domain.ReportFile{
		Name:        name,
		Path:        path,
		Format:      f,
		Items:       len(items),
		Content:     content,
		GeneratedAt: now,
	}, nil
}

// Read loads previously generated report by its file name
func (b *Builder) Read(name string) (domain.ReportFile, error) {
	if name == "" || filepath.Base(name) != name || !strings.HasPrefix(name, filePrefix) {
		return domain.ReportFile{}, fmt.Errorf("report %q: %w", name, domain.ErrNotFound)
	}
	f, err := domain.ParseFormat(strings.TrimPrefix(filepath.Ext(name), "."))
	if err != nil {
		return domain.ReportFile{}, err
	}
	path := filepath.Join(b.outputDir, name)
	content, err := os.ReadFile(path) //nolint:gosec // name is checked to be a plain report file name
	if errors.Is(err, fs.ErrNotExist) {
		return domain.ReportFile{}, fmt.Errorf("report %q: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return domain.ReportFile{}, fmt.Errorf("read report %s: %w", path, err)
	}
	st, err := os.Stat(path)
	if err != nil {
		return domain.ReportFile{}, fmt.Errorf("stat report %s: %w", path, err)
	}
	return domain.ReportFile{Name: name, Path: path, Format: f, Content: content, GeneratedAt: st.ModTime()}, nil
}

func renderJSON(r domain.Report) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return data, nil
}

func renderMarkdown(date string, items []domain.ProcessedItem) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# Weekly Feedback Report (%s)\n\n", date)
	buf.WriteString("| Issue | Urgency | Impact | Summary | Reason |\n")
	buf.WriteString("|-------|--------|-------|---------|--------|\n")
	for _, item := range items {
		fmt.Fprintf(&buf, "| %s | %s | %s | %s | %s |\n", escapeCell(item.Issue), escapeCell(string(item.Urgency)),
			escapeCell(string(item.Impact)), escapeCell(item.Summary), escapeCell(item.Reason))
	}
	return buf.Bytes()
}

var cellReplacer = strings.NewReplacer("|", `\|`, "\r\n", "<br>", "\n", "<br>", "\r", "<br>")

// escapeCell keeps the table intact for values with pipes and line breaks
func escapeCell(s string) string {
	return cellReplacer.Replace(s)
}
