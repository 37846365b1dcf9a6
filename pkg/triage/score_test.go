package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/umputun/feedtriage/pkg/domain"
)

func TestPriorityScore(t *testing.T) {
	levels := []domain.Level{domain.LevelLow, domain.LevelMedium, domain.LevelHigh}
	weights := map[domain.Level]int{domain.LevelLow: 1, domain.LevelMedium: 2, domain.LevelHigh: 3}

	for _, u := range levels {
		for _, i := range levels {
			score := PriorityScore(u, i)
			assert.Equal(t, weights[u]+weights[i], score, "%s/%s", u, i)
			assert.GreaterOrEqual(t, score, 2)
			assert.LessOrEqual(t, score, 6)
		}
	}
}
