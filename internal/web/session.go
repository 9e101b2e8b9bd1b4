package web

import (
	"sync"
	"time"

	"github.com/firstat/fasttab/pkg/fasttab"
	"github.com/firstat/fasttab/pkg/fasttab/models"
	"github.com/google/uuid"
)

// Session is one browser's working state: the loaded table, the last
// selection and the last processing result. mu serializes work on it.
type Session struct {
	ID string

	mu        sync.Mutex
	table     *models.Table
	selection fasttab.Selection
	result    *fasttab.Result
	lastSeen  time.Time
}

// SessionStore keeps sessions in memory. Idle sessions expire after ttl
// and are swept whenever the store is accessed.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates a store whose sessions expire after ttl of
// inactivity.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the live session with the given id and marks it used.
func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)
	sess, ok := s.sessions[id]
	if ok {
		sess.lastSeen = now
	}
	return sess, ok
}

// Create starts a new empty session.
func (s *SessionStore) Create() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)
	sess := &Session{ID: uuid.NewString(), lastSeen: now}
	s.sessions[sess.ID] = sess
	return sess
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep(s.now())
	return len(s.sessions)
}

func (s *SessionStore) sweep(now time.Time) {
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.sessions, id)
		}
	}
}
