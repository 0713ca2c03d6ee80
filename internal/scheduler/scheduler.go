// Package scheduler re-triggers a user's search at their notification
// interval. It is a surrounding layer over the session manager: each tick is
// an ordinary Start call and a tick landing on a still-running session is
// simply skipped.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Scheduler struct {
	cron  *cron.Cron
	start func(userID int64) error
	log   *zap.Logger

	mu      sync.Mutex
	entries map[int64]cron.EntryID
}

// New creates a Scheduler that invokes start on every tick of a user's entry.
func New(start func(userID int64) error, log *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		start:   start,
		log:     log,
		entries: make(map[int64]cron.EntryID),
	}
}

func (s *Scheduler) Run() {
	s.cron.Start()
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// Schedule registers (or replaces) the user's recurring search entry.
func (s *Scheduler) Schedule(userID int64, every time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.entries[userID]; ok {
		s.cron.Remove(id)
		delete(s.entries, userID)
	}

	spec := fmt.Sprintf("@every %s", every)
	id, err := s.cron.AddFunc(spec, func() {
		if err := s.start(userID); err != nil {
			s.log.Debug("scheduled search skipped",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
		}
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.entries[userID] = id
	s.log.Info("recurring search scheduled",
		zap.Int64("user_id", userID),
		zap.Duration("every", every),
	)
	return nil
}

// Cancel removes the user's recurring entry, if any.
func (s *Scheduler) Cancel(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.entries[userID]; ok {
		s.cron.Remove(id)
		delete(s.entries, userID)
	}
}

// Scheduled reports whether the user has a recurring entry.
func (s *Scheduler) Scheduled(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[userID]
	return ok
}
