// Package relevance scores postings against a skill list via the language
// oracle and parses the structured verdict out of the free-text response.
package relevance

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/StanGar30/freelance-bot-ai/internal/ai"
	"github.com/StanGar30/freelance-bot-ai/internal/job"
)

const (
	// QualifyThreshold is the minimum score that triggers a notification.
	QualifyThreshold = 7

	// ScoreInterval bounds oracle throughput: one scoring call per interval.
	ScoreInterval = 20 * time.Second

	defaultReason = "No reason"
)

var integerPattern = regexp.MustCompile(`\d+`)

type Scorer struct {
	oracle  ai.Oracle
	limiter Limiter
	log     *zap.Logger
}

func New(oracle ai.Oracle, limiter Limiter, log *zap.Logger) *Scorer {
	return &Scorer{oracle: oracle, limiter: limiter, log: log}
}

// Score asks the oracle for a relevance verdict on one posting. Oracle and
// parse failures never surface as errors: the posting simply scores 0 and the
// failure is logged.
func (s *Scorer) Score(ctx context.Context, posting job.Posting, skills []string) job.Verdict {
	verdict := job.Verdict{Posting: posting, Reason: defaultReason}

	if err := s.limiter.Wait(ctx); err != nil {
		return verdict
	}

	raw, err := s.oracle.ScoreRelevance(ctx, skills, posting.Title, posting.Description, posting.PriceText)
	if err != nil {
		s.log.Warn("relevance call failed",
			zap.String("source", posting.Source),
			zap.String("title", posting.Title),
			zap.Error(err),
		)
		return verdict
	}

	score, reason, found := parseVerdict(raw)
	if !found {
		s.log.Warn("no relevance score in oracle response",
			zap.String("source", posting.Source),
			zap.String("title", posting.Title),
		)
	}
	verdict.Score = score
	verdict.Reason = reason
	return verdict
}

// Qualifying reports whether the verdict meets the notification threshold.
func Qualifying(v job.Verdict) bool {
	return v.Score >= QualifyThreshold
}

// parseVerdict extracts the first integer after a "Relevance:" prefix and the
// trimmed text after a "Reason:" prefix. Missing parts fall back to 0 and
// "No reason".
func parseVerdict(raw string) (score int, reason string, found bool) {
	reason = defaultReason
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Relevance:"):
			if m := integerPattern.FindString(line); m != "" {
				if n, err := strconv.Atoi(m); err == nil {
					score = n
					found = true
				}
			}
		case strings.HasPrefix(line, "Reason:"):
			reason = strings.TrimSpace(strings.TrimPrefix(line, "Reason:"))
		}
	}
	return score, reason, found
}
