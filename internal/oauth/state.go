package oauth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/davidldv/taskforge/internal/model"
)

// StateTTL bounds how long a pending handshake may take.
const StateTTL = 10 * time.Minute

// StateStore tracks anti-forgery states for in-flight handshakes. States are
// single-use and expire after StateTTL. The store is in-process only; this
// service does not run distributed.
type StateStore struct {
	mu     sync.Mutex
	states map[string]stateEntry
	now    func() time.Time
}

type stateEntry struct {
	provider  model.Provider
	expiresAt time.Time
}

// NewStateStore creates an empty state store.
func NewStateStore() *StateStore {
	return &StateStore{
		states: make(map[string]stateEntry),
		now:    time.Now,
	}
}

// Create records a fresh random state for the provider and returns it.
func (s *StateStore) Create(provider model.Provider) (string, error) {
	state, err := randomState()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpired()
	s.states[state] = stateEntry{provider: provider, expiresAt: s.now().Add(StateTTL)}

	return state, nil
}

// Consume validates that the state belongs to the provider and has not
// expired, removing it either way so it cannot be replayed.
func (s *StateStore) Consume(provider model.Provider, state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.states[state]
	delete(s.states, state)

	if !ok || entry.provider != provider {
		return fmt.Errorf("unknown state")
	}
	if entry.expiresAt.Before(s.now()) {
		return fmt.Errorf("state expired")
	}

	return nil
}

// evictExpired drops stale entries; called with the lock held.
func (s *StateStore) evictExpired() {
	now := s.now()
	for state, entry := range s.states {
		if entry.expiresAt.Before(now) {
			delete(s.states, state)
		}
	}
}

func randomState() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
