package oauth

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"linkmcp/pkg/logging"
)

// StateStore provides thread-safe storage for OAuth state parameters.
// Each state is single-use and expires, so a callback presenting an
// unknown, reused, or stale state is rejected (CSRF protection).
type StateStore struct {
	mu     sync.Mutex
	states map[string]time.Time

	stateExpiry time.Duration
	stopCleanup chan struct{}
	stopOnce    sync.Once
}

// NewStateStore creates a state store with a 10 minute state lifetime and
// starts a background cleanup goroutine.
func NewStateStore() *StateStore {
	ss := &StateStore{
		states:      make(map[string]time.Time),
		stateExpiry: 10 * time.Minute,
		stopCleanup: make(chan struct{}),
	}

	go ss.cleanupLoop()

	return ss
}

// Generate creates a fresh high-entropy state value and registers it.
func (ss *StateStore) Generate() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	state := base64.RawURLEncoding.EncodeToString(raw)

	ss.mu.Lock()
	ss.states[state] = time.Now()
	ss.mu.Unlock()

	logging.Debug("OAuth", "Generated authorization state")
	return state, nil
}

// Consume validates a state value from a callback. The state is removed
// on success so it cannot be replayed. Returns false for unknown, reused,
// or expired states.
func (ss *StateStore) Consume(state string) bool {
	if state == "" {
		return false
	}

	ss.mu.Lock()
	defer ss.mu.Unlock()

	createdAt, ok := ss.states[state]
	if !ok {
		logging.Warn("OAuth", "Callback presented unknown state")
		return false
	}
	delete(ss.states, state)

	if time.Since(createdAt) > ss.stateExpiry {
		logging.Warn("OAuth", "Callback presented expired state (age=%v)", time.Since(createdAt))
		return false
	}
	return true
}

// Stop stops the background cleanup goroutine.
func (ss *StateStore) Stop() {
	ss.stopOnce.Do(func() { close(ss.stopCleanup) })
}

func (ss *StateStore) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ss.cleanup()
		case <-ss.stopCleanup:
			return
		}
	}
}

func (ss *StateStore) cleanup() {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	count := 0
	for state, createdAt := range ss.states {
		if time.Since(createdAt) > ss.stateExpiry {
			delete(ss.states, state)
			count++
		}
	}

	if count > 0 {
		logging.Debug("OAuth", "Cleaned up %d expired states", count)
	}
}
