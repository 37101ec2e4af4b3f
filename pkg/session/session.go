package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/budgetwise/budgetwise/internal/utils"
	"github.com/budgetwise/budgetwise/pkg/expense"
	"github.com/budgetwise/budgetwise/pkg/registry"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrSessionNotFound = errors.New("session not found")
var ErrTooManySessions = errors.New("too many open sessions")

// Session is one planning session. The registry it owns is only reachable through Do, which runs
// operations one at a time.
type Session struct {
	Id       uuid.UUID
	mu       sync.Mutex
	registry *registry.Registry
	lastSeen time.Time
}

// Do runs fn with exclusive access to the session's registry.
func (s *Session) Do(fn func(r *registry.Registry) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.registry)
}

type Config struct {
	MaxSessions int
	IdleTimeout time.Duration
}

type Store struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	clock    utils.Clock
	config   Config
	onCreate []func(*Session, *registry.Registry)
}

func NewStore(clock utils.Clock, config Config) *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*Session),
		clock:    clock,
		config:   config,
	}
}

// OnCreate registers a hook that runs for every new session before it becomes visible.
func (st *Store) OnCreate(hook func(*Session, *registry.Registry)) {
	st.onCreate = append(st.onCreate, hook)
}

func (st *Store) Create(settings expense.BudgetSettings) (*Session, error) {
	r, err := registry.NewRegistry(settings, st.clock)
	if err != nil {
		return nil, err
	}
	s := &Session{
		Id:       uuid.New(),
		registry: r,
		lastSeen: st.clock.Now(),
	}
	for _, hook := range st.onCreate {
		hook(s, r)
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.config.MaxSessions > 0 && len(st.sessions) >= st.config.MaxSessions {
		log.Warnf("refusing new session, %d sessions already open", len(st.sessions))
		return nil, ErrTooManySessions
	}
	st.sessions[s.Id] = s
	log.Debugf("session %s created", s.Id)
	return s, nil
}

// Get returns the session and marks it as recently used.
func (st *Store) Get(id uuid.UUID) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.lastSeen = st.clock.Now()
	return s, nil
}

func (st *Store) Delete(id uuid.UUID) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	log.Debugf("session %s deleted", id)
	return true
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Evict drops sessions that have not been used for longer than the idle timeout and returns how
// many were dropped. A zero timeout keeps sessions forever.
func (st *Store) Evict() int {
	if st.config.IdleTimeout <= 0 {
		return 0
	}
	cutoff := st.clock.Now().Add(-st.config.IdleTimeout)

	st.mu.Lock()
	defer st.mu.Unlock()
	evicted := 0
	for id, s := range st.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(st.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		log.Infof("evicted %d idle sessions", evicted)
	}
	return evicted
}

// RunEviction calls Evict every interval until ctx is done.
func (st *Store) RunEviction(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.Evict()
		}
	}
}
