package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GoSim-25-26J-441/soapgen/internal/logging"
	"github.com/GoSim-25-26J-441/soapgen/internal/submission"
)

var ErrSessionNotFound = errors.New("session not found")

// Registry holds one submission controller per UI session.
type Registry struct {
	generator submission.Generator
	ttl       time.Duration
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*submission.Controller
}

func NewRegistry(gen submission.Generator, ttl time.Duration) *Registry {
	return &Registry{
		generator: gen,
		ttl:       ttl,
		now:       time.Now,
		sessions:  make(map[string]*submission.Controller),
	}
}

// Start opens a new session with a fresh controller.
func (r *Registry) Start(ctx context.Context) (string, *submission.Controller) {
	id := uuid.New().String()
	c := submission.NewController(r.generator, submission.WithSessionID(id))

	r.mu.Lock()
	r.sessions[id] = c
	r.mu.Unlock()

	logging.New(ctx).WithSession(id).LogInfo("session_start", "opened")
	return id, c
}

func (r *Registry) Get(id string) (*submission.Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return c, nil
}

// End tears a session down. A submission still in flight finishes against
// the detached controller and its result is dropped with it.
func (r *Registry) End(ctx context.Context, id string) error {
	r.mu.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	logging.New(ctx).WithSession(id).LogInfo("session_end", "closed")
	return nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep ends sessions idle for longer than the TTL and returns how many it
// removed. Pending sessions are kept.
func (r *Registry) Sweep(ctx context.Context) int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	var expired []string
	for id, c := range r.sessions {
		if c.Pending() {
			continue
		}
		if c.LastUsed().Before(cutoff) {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	if len(expired) > 0 {
		logging.New(ctx).LogInfof("session_sweep", "expired=%d remaining=%d", len(expired), r.Len())
	}
	return len(expired)
}
