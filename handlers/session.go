package handlers

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"pavingquotes/services"
)

// DefaultSessionTTL is how long an untouched editing session is kept.
const DefaultSessionTTL = 12 * time.Hour

// QuoteSession is one open quote editor: the estimate being priced and its
// live editing state.
type QuoteSession struct {
	ID       string
	Estimate services.Estimate
	State    *services.QuoteState

	lastUsed atomic.Int64
}

func (s *QuoteSession) touch(now time.Time) {
	s.lastUsed.Store(now.UnixNano())
}

func (s *QuoteSession) idleSince() time.Time {
	return time.Unix(0, s.lastUsed.Load())
}

// QuoteSessions holds the open editing sessions of this process, keyed by a
// random id. Sessions idle for longer than the TTL are dropped when new ones open.
type QuoteSessions struct {
	mu       sync.Mutex
	sessions map[string]*QuoteSession
	ttl      time.Duration
	now      func() time.Time
}

// NewQuoteSessions creates an empty registry.
func NewQuoteSessions(ttl time.Duration) *QuoteSessions {
	return &QuoteSessions{
		sessions: make(map[string]*QuoteSession),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Open starts a session over freshly built items.
func (r *QuoteSessions) Open(est services.Estimate, items []services.QuoteItem, markupPercentage float64) *QuoteSession {
	s := &QuoteSession{
		ID:       uuid.NewString(),
		Estimate: est,
		State:    services.NewQuoteState(items, markupPercentage),
	}
	s.touch(r.now())
	s.State.Subscribe(func(services.QuoteSnapshot) {
		s.touch(r.now())
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneLocked()
	r.sessions[s.ID] = s
	return s
}

// Get returns the session with id.
func (r *QuoteSessions) Get(id string) (*QuoteSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Close drops a session.
func (r *QuoteSessions) Close(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len is the number of open sessions.
func (r *QuoteSessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *QuoteSessions) pruneLocked() {
	if r.ttl <= 0 {
		return
	}
	cutoff := r.now().Add(-r.ttl)
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			delete(r.sessions, id)
		}
	}
}
