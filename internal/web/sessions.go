package web

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/abhisek/carescreen/internal/metrics"
	"github.com/abhisek/carescreen/internal/wizard"
)

const (
	cookieName    = "carescreen_session"
	sweepInterval = time.Minute
)

// entry is one browser session. mu serializes every interaction with the
// wizard; lastSeen belongs to the store and is guarded by sessionStore.mu.
type entry struct {
	mu      sync.Mutex
	session *wizard.Session
	notice  string // shown once on the next render

	lastSeen time.Time
}

// sessionStore keeps browser sessions in memory, keyed by session ID.
type sessionStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
	now     func() time.Time
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{
		entries: make(map[string]*entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// create starts a new session on the Home page.
func (st *sessionStore) create() *entry {
	e := &entry{session: wizard.New()}

	st.mu.Lock()
	defer st.mu.Unlock()
	e.lastSeen = st.now()
	st.entries[e.session.ID] = e
	metrics.ActiveSessions.Set(float64(len(st.entries)))
	return e
}

// get returns the live session for id and marks it as seen. A session idle
// for longer than the TTL is dropped and reported as missing even when the
// janitor has not reached it yet.
func (st *sessionStore) get(id string) (*entry, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	e, ok := st.entries[id]
	if !ok {
		return nil, false
	}
	now := st.now()
	if now.Sub(e.lastSeen) > st.ttl {
		delete(st.entries, id)
		metrics.ActiveSessions.Set(float64(len(st.entries)))
		return nil, false
	}
	e.lastSeen = now
	return e, true
}

func (st *sessionStore) remove(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.entries, id)
	metrics.ActiveSessions.Set(float64(len(st.entries)))
}

// Sweep drops every session idle for longer than the TTL as of now and
// returns how many were removed.
func (st *sessionStore) Sweep(now time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, e := range st.entries {
		if now.Sub(e.lastSeen) > st.ttl {
			delete(st.entries, id)
			removed++
		}
	}
	metrics.ActiveSessions.Set(float64(len(st.entries)))
	return removed
}

// Len returns the number of sessions held.
func (st *sessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.entries)
}

// janitor sweeps expired sessions until ctx is cancelled.
func (st *sessionStore) janitor(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.Sweep(st.now()); n > 0 {
				logger.Debug("expired sessions swept", "removed", n, "remaining", st.Len())
			}
		}
	}
}
