// Package dedup filters a batch of postings down to the ones a user has not
// been notified about yet.
package dedup

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/StanGar30/freelance-bot-ai/internal/job"
)

// Filter returns the postings whose identity is absent from the notified set,
// preserving batch order. It never mutates the set: identities are marked only
// on notification, by the session. Filtering the same batch twice against an
// unmodified set yields the same result.
func Filter(notified mapset.Set[job.Identity], postings []job.Posting) []job.Posting {
	fresh := make([]job.Posting, 0, len(postings))
	for _, p := range postings {
		if notified.Contains(p.Identity()) {
			continue
		}
		fresh = append(fresh, p)
	}
	return fresh
}
