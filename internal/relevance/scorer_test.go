package relevance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/StanGar30/freelance-bot-ai/internal/job"
)

type fakeOracle struct {
	resp  string
	err   error
	calls int
}

func (f *fakeOracle) ScoreRelevance(ctx context.Context, skills []string, title, description, price string) (string, error) {
	f.calls++
	return f.resp, f.err
}

func (f *fakeOracle) ExtractSkills(ctx context.Context, query string) (string, error) {
	return "", nil
}

type nopLimiter struct{}

func (nopLimiter) Wait(ctx context.Context) error { return ctx.Err() }

var testPosting = job.Posting{
	Source:      "FL.ru",
	Title:       "Telegram bot",
	Description: "Build a bot",
	PriceText:   "5000 руб.",
}

func newTestScorer(oracle *fakeOracle) *Scorer {
	return New(oracle, nopLimiter{}, zap.NewNop())
}

func TestScoreParsesStructuredVerdict(t *testing.T) {
	s := newTestScorer(&fakeOracle{resp: "Relevance: 8\nReason: Strong skills match"})

	v := s.Score(context.Background(), testPosting, []string{"Go", "Telegram"})

	assert.Equal(t, 8, v.Score)
	assert.Equal(t, "Strong skills match", v.Reason)
	assert.True(t, Qualifying(v))
}

func TestScoreDefaultsWhenRelevanceLineMissing(t *testing.T) {
	s := newTestScorer(&fakeOracle{resp: "This job looks great for you"})

	v := s.Score(context.Background(), testPosting, []string{"Go"})

	assert.Equal(t, 0, v.Score)
	assert.Equal(t, "No reason", v.Reason)
	assert.False(t, Qualifying(v))
}

func TestScoreDefaultsWhenScoreUnparseable(t *testing.T) {
	s := newTestScorer(&fakeOracle{resp: "Relevance: [score]\nReason: left the template in"})

	v := s.Score(context.Background(), testPosting, []string{"Go"})

	assert.Equal(t, 0, v.Score)
	assert.Equal(t, "left the template in", v.Reason)
}

func TestScoreTreatsOracleFailureAsNonQualifying(t *testing.T) {
	s := newTestScorer(&fakeOracle{err: errors.New("model overloaded")})

	v := s.Score(context.Background(), testPosting, []string{"Go"})

	assert.Equal(t, 0, v.Score)
	assert.False(t, Qualifying(v))
}

func TestQualifyingThreshold(t *testing.T) {
	assert.False(t, Qualifying(job.Verdict{Score: 6}))
	assert.True(t, Qualifying(job.Verdict{Score: 7}))
	assert.True(t, Qualifying(job.Verdict{Score: 10}))
}

func TestIntervalLimiterPacesCalls(t *testing.T) {
	limiter := NewIntervalLimiter(40 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Wait(ctx))
	}

	// first call is free, the next two wait one interval each
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestIntervalLimiterObservesCancellation(t *testing.T) {
	limiter := NewIntervalLimiter(time.Minute)

	require.NoError(t, limiter.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := limiter.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
