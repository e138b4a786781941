package services

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"agristore/internal/models"

	"github.com/google/uuid"
)

// SessionStore maps opaque session identifiers to conversation state.
// Get mints a fresh session when the id is empty or unknown; Save persists
// mutations for backends that need it (the in-memory store does not).
type SessionStore interface {
	Get(id string) (*models.Session, error)
	Save(sess *models.Session) error
}

// MemorySessionStore is the default store: an unbounded in-process map for
// the process lifetime. Records are identity-stable so the dialogue engine
// mutates session state in place.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
}

// NewMemorySessionStore creates an empty in-memory session store
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]*models.Session),
	}
}

// Get returns the existing session for a known id, or registers and returns
// a fresh one under a newly minted id.
func (s *MemorySessionStore) Get(id string) (*models.Session, error) {
	if id != "" {
		s.mu.RLock()
		sess, ok := s.sessions[id]
		s.mu.RUnlock()
		if ok {
			return sess, nil
		}
	}

	sess := NewSession()
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess, nil
}

// Save is a no-op: callers hold the live record.
func (s *MemorySessionStore) Save(_ *models.Session) error {
	return nil
}

// Count returns the number of registered sessions.
func (s *MemorySessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// NewSession mints a fresh session record with a unique opaque id.
func NewSession() *models.Session {
	return &models.Session{
		ID:       newSessionID(),
		History:  []models.ChatMessage{},
		LastPath: "/",
		State: models.SessionState{
			LastIntent:     "",
			AgentRequested: false,
		},
	}
}

func newSessionID() string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:6]
	return fmt.Sprintf("sess_%d_%s", time.Now().UnixMilli(), suffix)
}
