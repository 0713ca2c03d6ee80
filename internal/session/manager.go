// Package session owns per-user search state: the profile store, the
// Idle/Running state machine and the scrape→dedup→score→notify pipeline.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"

	"github.com/StanGar30/freelance-bot-ai/internal/job"
	"github.com/StanGar30/freelance-bot-ai/internal/source"
)

var (
	ErrAlreadyRunning = errors.New("search is already running")
	ErrNotRunning     = errors.New("search is not running")
	ErrNoSkills       = errors.New("no skills configured")
	ErrNoSources      = errors.New("no sources selected")
	ErrMinInterval    = errors.New("interval must be at least 5 minutes")
)

const (
	MinInterval     = 5 * time.Minute
	defaultInterval = 30 * time.Minute
)

// State of one user's search session.
type State int

const (
	Idle State = iota
	Running
)

// Profile is one user's search configuration and run state. All access goes
// through the Manager.
type Profile struct {
	UserID   int64
	Skills   []string
	Selected mapset.Set[string]
	MinPrice int
	Interval time.Duration

	notified mapset.Set[job.Identity]
	state    State
	cancel   context.CancelFunc
	// generation of the current run; a drained stale run must not reset
	// state owned by a newer one
	gen uint64
}

// Settings is a read-only snapshot of a profile for display.
type Settings struct {
	Skills   []string
	Sources  []string
	MinPrice int
	Interval time.Duration
	Running  bool
}

// Scraper yields one source's postings; failures degrade to a short batch.
type Scraper interface {
	Scrape(ctx context.Context, src source.Descriptor, minPrice int) []job.Posting
}

// Scorer produces a relevance verdict for one posting.
type Scorer interface {
	Score(ctx context.Context, posting job.Posting, skills []string) job.Verdict
}

// Notifier delivers a qualifying posting to the user's chat. Delivery
// failures are not retried within a run.
type Notifier interface {
	Deliver(userID int64, verdict job.Verdict) error
}

// Manager is the session-scoped profile store. It replaces any ambient
// per-user global: every read and write goes through its methods.
type Manager struct {
	mu       sync.Mutex
	profiles map[int64]*Profile

	registry *source.Registry
	scraper  Scraper
	scorer   Scorer
	notifier Notifier
	log      *zap.Logger
}

func NewManager(registry *source.Registry, scraper Scraper, scorer Scorer, log *zap.Logger) *Manager {
	return &Manager{
		profiles: make(map[int64]*Profile),
		registry: registry,
		scraper:  scraper,
		scorer:   scorer,
		log:      log,
	}
}

// SetNotifier wires the chat transport. Must be called before Start; the
// transport itself depends on the manager, hence the late binding.
func (m *Manager) SetNotifier(n Notifier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifier = n
}

// Ensure creates the user's profile on first interaction. New profiles start
// with every catalog source selected.
func (m *Manager) Ensure(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureLocked(userID)
}

func (m *Manager) ensureLocked(userID int64) *Profile {
	if p, ok := m.profiles[userID]; ok {
		return p
	}
	p := &Profile{
		UserID:   userID,
		Selected: mapset.NewSet(m.registry.Names()...),
		Interval: defaultInterval,
		notified: mapset.NewSet[job.Identity](),
	}
	m.profiles[userID] = p
	return p
}

func (m *Manager) SetSkills(userID int64, skills []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureLocked(userID).Skills = append([]string(nil), skills...)
}

func (m *Manager) SetMinPrice(userID int64, price int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureLocked(userID).MinPrice = price
}

func (m *Manager) SetInterval(userID int64, interval time.Duration) error {
	if interval < MinInterval {
		return ErrMinInterval
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureLocked(userID).Interval = interval
	return nil
}

// ToggleSource flips one source's selection and reports whether it is now
// selected.
func (m *Manager) ToggleSource(userID int64, name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.ensureLocked(userID)
	if p.Selected.Contains(name) {
		p.Selected.Remove(name)
		return false
	}
	p.Selected.Add(name)
	return true
}

func (m *Manager) Settings(userID int64) Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.ensureLocked(userID)
	return Settings{
		Skills:   append([]string(nil), p.Skills...),
		Sources:  m.selectedNamesLocked(p),
		MinPrice: p.MinPrice,
		Interval: p.Interval,
		Running:  p.state == Running,
	}
}

func (m *Manager) Running(userID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	return ok && p.state == Running
}

// selectedNamesLocked returns selected sources in catalog order so scrape
// order is deterministic.
func (m *Manager) selectedNamesLocked(p *Profile) []string {
	var names []string
	for _, name := range m.registry.Names() {
		if p.Selected.Contains(name) {
			names = append(names, name)
		}
	}
	return names
}
