// Package quote rotates motivational quotes shown to the product team.
package quote

import "sync/atomic"

// defaultQuotes used when none configured
var defaultQuotes = []string{
	"Your most unhappy customers are your greatest source of learning.",
	"We see our customers as invited guests to a party, and we are the hosts.",
	"The goal as a company is to have customer service that is not just the best, but legendary.",
	"Feedback is the breakfast of champions.",
	"If you do build a great experience, customers tell each other about that.",
}

// Rotator returns quotes in round-robin order, safe for concurrent use
type Rotator struct {
	quotes []string
	next   atomic.Uint64
}

// NewRotator makes rotator for quotes, default quotes used if the list is empty
func NewRotator(quotes []string) *Rotator {
	res := make([]string, 0, len(quotes))
	for _, q := range quotes {
		if q != "" {
			res = append(res, q)
		}
	}
	if len(res) == 0 {
		res = append(res, defaultQuotes...)
	}
	return &Rotator{quotes: res}
}

// Next returns the next quote, wrapping around at the end of the list
func (r *Rotator) Next() string {
	idx := r.next.Add(1) - 1
	return r.quotes[idx%uint64(len(r.quotes))]
}
