package session

import (
	"context"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"

	"github.com/StanGar30/freelance-bot-ai/internal/dedup"
	"github.com/StanGar30/freelance-bot-ai/internal/job"
	"github.com/StanGar30/freelance-bot-ai/internal/relevance"
	"github.com/StanGar30/freelance-bot-ai/internal/source"
)

// Start begins one search run for the user. Rejected without touching state
// when a run is active or the profile is not ready to search. On accept the
// notified set is reset (a new run considers all live postings fair game
// again) and the pipeline runs in its own goroutine until completion or stop.
func (m *Manager) Start(userID int64) error {
	m.mu.Lock()
	p := m.ensureLocked(userID)

	if p.state == Running {
		m.mu.Unlock()
		return ErrAlreadyRunning
	}
	if len(p.Skills) == 0 {
		m.mu.Unlock()
		return ErrNoSkills
	}

	var selected []source.Descriptor
	for _, name := range m.selectedNamesLocked(p) {
		if d, ok := m.registry.Get(name); ok {
			selected = append(selected, d)
		}
	}
	if len(selected) == 0 {
		m.mu.Unlock()
		return ErrNoSources
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.state = Running
	p.cancel = cancel
	p.gen++
	// fresh start: a new set, so a still-draining previous run cannot leak
	// identities into this one
	p.notified = mapset.NewSet[job.Identity]()

	gen := p.gen
	skills := append([]string(nil), p.Skills...)
	minPrice := p.MinPrice
	notified := p.notified
	m.mu.Unlock()

	go m.run(ctx, gen, userID, selected, skills, minPrice, notified)
	return nil
}

// Stop requests cancellation of the user's active run. The pipeline observes
// it between sources and between postings, never preemptively.
func (m *Manager) Stop(userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[userID]
	if !ok || p.state != Running {
		return ErrNotRunning
	}

	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.state = Idle
	return nil
}

// run executes one full pipeline pass: scrape every selected source
// sequentially, dedup, then score and deliver in scrape order. No error below
// this level terminates the run; the session always returns to Idle.
func (m *Manager) run(ctx context.Context, gen uint64, userID int64, sources []source.Descriptor, skills []string, minPrice int, notified mapset.Set[job.Identity]) {
	defer m.finish(userID, gen)
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("search run aborted",
				zap.Int64("user_id", userID),
				zap.Any("panic", r),
			)
		}
	}()

	var collected []job.Posting
	for _, src := range sources {
		if ctx.Err() != nil {
			return
		}
		batch := m.scraper.Scrape(ctx, src, minPrice)
		collected = append(collected, batch...)
	}

	fresh := dedup.Filter(notified, collected)
	m.log.Info("postings ready for scoring",
		zap.Int64("user_id", userID),
		zap.Int("scraped", len(collected)),
		zap.Int("fresh", len(fresh)),
	)

	for _, posting := range fresh {
		if ctx.Err() != nil {
			return
		}

		// a batch can carry the same posting twice across sources/pages
		id := posting.Identity()
		if notified.Contains(id) {
			continue
		}

		verdict := m.scorer.Score(ctx, posting, skills)
		if !relevance.Qualifying(verdict) {
			continue
		}

		if err := m.notifier.Deliver(userID, verdict); err != nil {
			m.log.Warn("delivery failed",
				zap.Int64("user_id", userID),
				zap.String("url", posting.URL),
				zap.Error(err),
			)
		}
		// marked even on failed delivery: no re-delivery within the run
		notified.Add(id)
	}
}

// finish returns the session to Idle whatever ended the run.
func (m *Manager) finish(userID int64, gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[userID]
	if !ok || p.gen != gen {
		return
	}
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.state = Idle
}
