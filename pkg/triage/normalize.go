// Package triage implements feedback classification pipeline: text normalization,
// label classification, priority scoring and summarization.
package triage

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"

	"github.com/umputun/feedtriage/pkg/domain"
)

var markupPolicy = bluemonday.StrictPolicy()

// Normalize removes all characters except letters, digits, underscore, whitespace and ",.!?",
// collapses whitespace runs to a single space and trims the result.
func Normalize(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) || r == '_' {
			return r
		}
		switch r {
		case ',', '.', '!', '?':
			return r
		}
		return -1
	}, s)
	return strings.Join(strings.Fields(cleaned), " ")
}

// Tokens returns number of whitespace-delimited tokens
func Tokens(s string) int {
	return len(strings.Fields(s))
}

// StripMarkup removes html tags from user supplied text, entities are decoded back
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	return html.UnescapeString(markupPolicy.Sanitize(s))
}

// NewRecord makes a normalized feedback record from raw user input
func NewRecord(raw string) domain.FeedbackRecord {
	return domain.FeedbackRecord{Raw: raw, Normalized: Normalize(StripMarkup(raw))}
}
