package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/horizonenergysouth/horizon-crm/internal/entity"
)

// Store holds admin sessions in process memory. Logout or an idle timeout
// removes a session, and a restart removes everything.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entity.AdminSession
	idleTTL  time.Duration
}

func NewStore(idleTTL time.Duration) *Store {
	s := &Store{
		sessions: make(map[string]*entity.AdminSession),
		idleTTL:  idleTTL,
	}
	go s.cleanup()
	return s
}

func (s *Store) Create() *entity.AdminSession {
	now := time.Now()
	sess := &entity.AdminSession{
		Token:     uuid.New().String(),
		CreatedAt: now,
		LastSeen:  now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.Token] = sess
	return sess
}

// Validate looks the token up and refreshes its idle timer. Expired sessions
// are treated as absent.
func (s *Store) Validate(token string) (*entity.AdminSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return nil, false
	}
	if time.Since(sess.LastSeen) > s.idleTTL {
		delete(s.sessions, token)
		return nil, false
	}
	sess.LastSeen = time.Now()
	return sess, true
}

func (s *Store) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

func (s *Store) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.Lock()
		for token, sess := range s.sessions {
			if time.Since(sess.LastSeen) > s.idleTTL {
				delete(s.sessions, token)
			}
		}
		s.mu.Unlock()
	}
}
