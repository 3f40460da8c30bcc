package futurewindow

import (
	"context"
	"log"
	"sync"
	"time"
)

// sessionEntry pairs a session with its single-writer lock.
type sessionEntry struct {
	mu      sync.Mutex
	session *Session
}

// registry is the in-memory map of live sessions. Sessions are independent;
// the registry lock only guards the map itself.
type registry struct {
	mu          sync.Mutex
	entries     map[string]*sessionEntry
	cancelSweep context.CancelFunc
}

func newRegistry() *registry {
	return &registry{entries: make(map[string]*sessionEntry)}
}

func (r *registry) put(s *Session) {
	now := time.Now()
	s.CreatedAt = now
	s.LastActiveAt = now

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[s.ID] = &sessionEntry{session: s}
}

func (r *registry) get(id string) (*sessionEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.entries[id]
	return entry, ok
}

func (r *registry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

func (r *registry) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// sweep drops sessions idle longer than ttl and returns how many were
// removed. There is no resumption contract: an expired session is gone, only
// its audit rows remain in the store.
func (r *registry) sweep(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, entry := range r.entries {
		// LastActiveAt is written under the entry lock; a session whose lock
		// is held has a turn in flight and is active by definition.
		if !entry.mu.TryLock() {
			continue
		}
		idle := entry.session.LastActiveAt.Before(cutoff)
		entry.mu.Unlock()
		if idle {
			delete(r.entries, id)
			removed++
		}
	}
	return removed
}

func (r *registry) stopSweep() {
	if r.cancelSweep != nil {
		r.cancelSweep()
	}
}

// startSweepWorker runs a background goroutine that periodically expires
// idle sessions from the registry.
func (e *Engine) startSweepWorker() {
	ctx, cancel := context.WithCancel(context.Background())
	e.registry.cancelSweep = cancel

	go func() {
		ticker := time.NewTicker(e.config.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if removed := e.registry.sweep(e.config.SessionTTL); removed > 0 {
					log.Printf("[futurewindow] Session sweep: %d expired", removed)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}
