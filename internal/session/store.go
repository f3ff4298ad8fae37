package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/regionmap/internal/region"
)

// ErrNotFound is returned for unknown or expired session IDs.
var ErrNotFound = eris.New("session: not found")

// Store is a concurrent-safe LRU of sessions with idle expiration.
type Store struct {
	ds   *region.Dataset
	opts Options

	mu          sync.RWMutex
	entries     map[string]*storeEntry
	order       []string // LRU order: front=oldest, back=newest
	maxSessions int
	ttl         time.Duration
	now         func() time.Time

	created atomic.Int64
	evicted atomic.Int64
	expired atomic.Int64
	misses  atomic.Int64
}

type storeEntry struct {
	session  *Session
	lastSeen time.Time
}

// StoreStats contains store statistics.
type StoreStats struct {
	Sessions    int   `json:"sessions"`
	MaxSessions int   `json:"max_sessions"`
	Created     int64 `json:"created"`
	Evicted     int64 `json:"evicted"`
	Expired     int64 `json:"expired"`
	Misses      int64 `json:"misses"`
}

// NewStore creates a Store holding at most maxSessions sessions, each
// expiring after ttl without use.
func NewStore(ds *region.Dataset, maxSessions int, ttl time.Duration, opts Options) *Store {
	return &Store{
		ds:          ds,
		opts:        opts,
		entries:     make(map[string]*storeEntry),
		maxSessions: maxSessions,
		ttl:         ttl,
		now:         time.Now,
	}
}

// Create starts a new session, evicting the least recently used one if the
// store is full.
func (st *Store) Create(width int) *Session {
	s := New(uuid.NewString(), st.ds, width, st.opts)

	st.mu.Lock()
	defer st.mu.Unlock()

	for len(st.entries) >= st.maxSessions && len(st.order) > 0 {
		oldest := st.order[0]
		st.order = st.order[1:]
		delete(st.entries, oldest)
		st.evicted.Add(1)
		zap.L().Debug("session: evicted", zap.String("session_id", oldest))
	}

	st.entries[s.ID] = &storeEntry{session: s, lastSeen: st.now()}
	st.order = append(st.order, s.ID)
	st.created.Add(1)
	return s
}

// Get returns a live session and marks it used.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	entry, ok := st.entries[id]
	if !ok {
		st.misses.Add(1)
		return nil, eris.Wrapf(ErrNotFound, "id %s", id)
	}

	now := st.now()
	if now.Sub(entry.lastSeen) > st.ttl {
		delete(st.entries, id)
		st.removeFromOrder(id)
		st.expired.Add(1)
		st.misses.Add(1)
		return nil, eris.Wrapf(ErrNotFound, "id %s expired", id)
	}

	entry.lastSeen = now
	st.removeFromOrder(id)
	st.order = append(st.order, id)
	return entry.session, nil
}

// Delete ends a session.
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.entries[id]; !ok {
		return eris.Wrapf(ErrNotFound, "id %s", id)
	}
	delete(st.entries, id)
	st.removeFromOrder(id)
	return nil
}

// Sweep drops every expired session and returns how many were removed.
func (st *Store) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	var remaining []string
	removed := 0
	for _, id := range st.order {
		if now.Sub(st.entries[id].lastSeen) > st.ttl {
			delete(st.entries, id)
			removed++
			continue
		}
		remaining = append(remaining, id)
	}
	st.order = remaining
	st.expired.Add(int64(removed))
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (st *Store) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				zap.L().Debug("session: swept expired sessions", zap.Int("count", n))
			}
		}
	}
}

// Stats returns store statistics.
func (st *Store) Stats() StoreStats {
	st.mu.RLock()
	sessions := len(st.entries)
	maxSessions := st.maxSessions
	st.mu.RUnlock()

	return StoreStats{
		Sessions:    sessions,
		MaxSessions: maxSessions,
		Created:     st.created.Load(),
		Evicted:     st.evicted.Load(),
		Expired:     st.expired.Load(),
		Misses:      st.misses.Load(),
	}
}

// removeFromOrder removes an id from the LRU order slice.
func (st *Store) removeFromOrder(id string) {
	for i, k := range st.order {
		if k == id {
			st.order = append(st.order[:i], st.order[i+1:]...)
			return
		}
	}
}
