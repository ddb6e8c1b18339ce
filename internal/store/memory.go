// internal/store/memory.go
//
// In-memory session registry.
// Maps opaque session ids to live games for the HTTP layer.
//
// Characteristics:
//   - Explicit object; each server (or test) owns its own Registry.
//   - Concurrency-safe via RWMutex; per-game mutation is serialized by the game itself.
//   - Ids come from an injectable IDGenerator (random UUIDs by default).
//   - Idle sessions are evicted by Sweep/Run once they exceed the TTL.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/server/internal/game"
	"github.com/robalobadob/wordle/server/internal/words"
)

var (
	// ErrNotFound is returned for unknown or evicted session ids.
	ErrNotFound = errors.New("store: session not found")
	// ErrIDCollision is returned when the generator keeps producing ids already in use.
	ErrIDCollision = errors.New("store: could not allocate a unique session id")
)

// maxIDTries bounds how often Create retries a colliding id.
const maxIDTries = 8

// IDGenerator produces session identifiers.
type IDGenerator interface {
	NewID() string
}

// IDFunc adapts a plain function to IDGenerator.
type IDFunc func() string

func (f IDFunc) NewID() string { return f() }

// UUIDGenerator issues random (v4) UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string { return uuid.NewString() }

// Meta carries labels about how a session was started.
type Meta struct {
	Dictionary string // dictionary name
	Daily      bool   // secret chosen by the daily picker
}

// Session is one registered game.
type Session struct {
	ID        string
	Meta      Meta
	Game      *game.Game
	CreatedAt time.Time

	lastAccess time.Time // guarded by Registry.mu
}

// Registry owns session lifetimes.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ids      IDGenerator
	ttl      time.Duration
	now      func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithIDGenerator replaces the default UUID generator.
func WithIDGenerator(g IDGenerator) Option { return func(r *Registry) { r.ids = g } }

// WithTTL sets how long a session may sit idle before Sweep evicts it.
// Zero disables idle eviction.
func WithTTL(d time.Duration) Option { return func(r *Registry) { r.ttl = d } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(r *Registry) { r.now = now } }

// NewRegistry constructs an empty Registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		sessions: make(map[string]*Session),
		ids:      UUIDGenerator{},
		now:      time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Create starts a game over dict and registers it under a fresh id.
func (r *Registry) Create(dict *words.Dictionary, opts game.Options, meta Meta) (*Session, error) {
	g, err := game.New(dict, opts)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := 0; i < maxIDTries; i++ {
		id := r.ids.NewID()
		if id == "" {
			continue
		}
		if _, taken := r.sessions[id]; taken {
			continue
		}
		now := r.now()
		s := &Session{ID: id, Meta: meta, Game: g, CreatedAt: now, lastAccess: now}
		r.sessions[id] = s
		return s, nil
	}
	return nil, ErrIDCollision
}

// Get looks up a session by id and marks it as recently used.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	s.lastAccess = r.now()
	return s, nil
}

// Remove deletes a session. It reports whether the id was present.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	return ok
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep evicts sessions idle for longer than the TTL as of now.
// It returns how many were removed.
func (r *Registry) Sweep(now time.Time) int {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if now.Sub(s.lastAccess) > r.ttl {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is cancelled.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if r.ttl <= 0 || interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := r.Sweep(r.now()); n > 0 {
				log.Debug().Int("evicted", n).Int("live", r.Len()).Msg("swept idle sessions")
			}
		}
	}
}
