package triage

import "github.com/umputun/feedtriage/pkg/domain"

// PriorityScore sums weights of urgency and impact, the result is always in [2..6]
func PriorityScore(urgency, impact domain.Level) int {
	return urgency.Score() + impact.Score()
}
