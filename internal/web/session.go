package web

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/shopadmin/internal/dashboard"
	"github.com/yourusername/shopadmin/internal/storefront"
)

const (
	sessionCookie = "shopadmin_session"
	sessionKey    = "session"
	sessionIdle   = 30 * time.Minute
)

// session is one browser's view state: its own store, dashboard controller
// and storefront list.
type session struct {
	id         string
	controller *dashboard.Controller
	storefront *storefront.List
	mountOnce  sync.Once
	lastSeen   time.Time
}

type sessionFactory func(id string) *session

// sessionStore keeps sessions in memory and drops those idle for longer
// than idle.
type sessionStore struct {
	mu      sync.Mutex
	byID    map[string]*session
	idle    time.Duration
	factory sessionFactory
	now     func() time.Time
}

func newSessionStore(idle time.Duration, factory sessionFactory) *sessionStore {
	return &sessionStore{
		byID:    make(map[string]*session),
		idle:    idle,
		factory: factory,
		now:     time.Now,
	}
}

// acquire returns the session for id, creating a new one under a fresh id
// when id is unknown or expired. created reports whether that happened.
func (s *sessionStore) acquire(id string) (sess *session, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if sess, ok := s.byID[id]; ok && now.Sub(sess.lastSeen) <= s.idle {
		sess.lastSeen = now
		return sess, false
	}

	s.pruneLocked(now)
	sess = s.factory(uuid.NewString())
	sess.lastSeen = now
	s.byID[sess.id] = sess
	return sess, true
}

func (s *sessionStore) pruneLocked(now time.Time) {
	for id, sess := range s.byID {
		if now.Sub(sess.lastSeen) > s.idle {
			delete(s.byID, id)
		}
	}
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}
