package exam

import (
	"sync"
	"time"
)

// Session is the server-held authoritative record of one in-flight exam
// attempt, answer key included.
type Session struct {
	LevelID   string
	StartedAt time.Time
	Questions []Question
}

// SessionStore keeps at most one in-flight exam per user, in memory only.
// A second Put for the same user silently replaces the first session, so a
// user double-starting an exam in two tabs abandons the earlier answer key.
// Sessions that are never submitted live until process restart; there is no
// TTL eviction.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[uint]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[uint]*Session)}
}

func (s *SessionStore) Put(userID uint, session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = session
}

func (s *SessionStore) Get(userID uint) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[userID]
	return session, ok
}

func (s *SessionStore) Remove(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
