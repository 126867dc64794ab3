package store

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry maps session IDs to their stores. Stores are created lazily on
// first use and evicted after sitting idle longer than the TTL; eviction is
// the end of the session, so everything not exported is gone.
type Registry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Store
	ttl      time.Duration
	stopChan chan struct{}
	stopOnce sync.Once
}

func NewRegistry(ttl time.Duration) *Registry {
	r := &Registry{
		sessions: make(map[uuid.UUID]*Store),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}
	go r.sweep()
	return r
}

// Get returns the session's store, creating it on first use.
func (r *Registry) Get(sessionID uuid.UUID) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		s = New()
		r.sessions[sessionID] = s
	}
	return s
}

// Remove drops a session's store immediately.
func (r *Registry) Remove(sessionID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) Stop() {
	r.stopOnce.Do(func() { close(r.stopChan) })
}

func (r *Registry) sweep() {
	ticker := time.NewTicker(r.ttl / 4)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopChan:
			return
		case <-ticker.C:
			r.mu.Lock()
			evicted := 0
			for id, s := range r.sessions {
				if time.Since(s.LastSeen()) > r.ttl {
					delete(r.sessions, id)
					evicted++
				}
			}
			r.mu.Unlock()
			if evicted > 0 {
				log.Printf("Evicted %d idle session(s)", evicted)
			}
		}
	}
}
