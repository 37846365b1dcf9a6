package domain

import (
	"fmt"
	"strings"
	"time"
)

// Level represents urgency or impact level of a feedback
type Level string

// supported levels
const (
	LevelLow    Level = "Low"
	LevelMedium Level = "Medium"
	LevelHigh   Level = "High"
)

// ParseLevel converts free-form classifier output to a Level.
// Anything unrecognized yields LevelMedium with ok=false.
func ParseLevel(s string) (level Level, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return LevelLow, true
	case "medium":
		return LevelMedium, true
	case "high":
		return LevelHigh, true
	}
	return LevelMedium, false
}

// Score returns numeric weight of the level, Low=1, Medium=2, High=3
func (l Level) Score() int {
	switch l {
	case LevelLow:
		return 1
	case LevelHigh:
		return 3
	default:
		return 2
	}
}

// FeedbackRecord is a single piece of customer feedback
type FeedbackRecord struct {
	Raw        string `json:"feedback"`
	Normalized string `json:"normalized"`
	Source     string `json:"source,omitempty"`
	Date       string `json:"date,omitempty"`
}

// ClassificationResult holds derived attributes of a feedback
type ClassificationResult struct {
	Urgency       Level  `json:"urgency"`
	Impact        Level  `json:"impact"`
	Summary       string `json:"summary"`
	Reason        string `json:"reason"`
	PriorityScore int    `json:"priority_score"`
}

// ProcessedItem is a classified feedback as it goes into a report
type ProcessedItem struct {
	Issue         string `json:"issue"`
	Urgency       Level  `json:"urgency"`
	Impact        Level  `json:"impact"`
	Summary       string `json:"summary"`
	Reason        string `json:"reason"`
	Priority      string `json:"priority"`
	PriorityScore int    `json:"priority_score"`
}

// NewProcessedItem combines normalized text and its classification
func NewProcessedItem(issue string, c ClassificationResult) ProcessedItem {
	return ProcessedItem{
		Issue:         issue,
		Urgency:       c.Urgency,
		Impact:        c.Impact,
		Summary:       c.Summary,
		Reason:        c.Reason,
		Priority:      fmt.Sprintf("%s / %s", c.Urgency, c.Impact),
		PriorityScore: c.PriorityScore,
	}
}

// LabelScore is a single candidate label with its confidence
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// ClassificationRun is a stored answer of the classify endpoint
type ClassificationRun struct {
	ID        string               `json:"id"`
	Feedback  string               `json:"feedback"`
	Result    ClassificationResult `json:"classification"`
	CreatedAt time.Time            `json:"created_at"`
}
