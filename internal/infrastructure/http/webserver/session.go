package webserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/recipeverse/web/internal/infrastructure/config"
	"github.com/recipeverse/web/internal/ports/inbound"
	"go.uber.org/zap"
)

const cleanupInterval = 10 * time.Minute

// Session ties a browser cookie to one cook session
type Session struct {
	ID        string
	Cook      inbound.CookSession
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SessionStore manages browser sessions in memory
type SessionStore struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	factory  inbound.CookSessionFactory
	config   config.ServerConfig
	logger   *zap.Logger
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

// NewSessionStore creates a new session store and starts expiry cleanup
func NewSessionStore(cfg config.ServerConfig, factory inbound.CookSessionFactory, logger *zap.Logger) *SessionStore {
	store := &SessionStore{
		sessions: make(map[string]*Session),
		factory:  factory,
		config:   cfg,
		logger:   logger.Named("session-store"),
		now:      time.Now,
		stop:     make(chan struct{}),
	}

	go store.cleanupExpired()

	return store
}

// Get retrieves the session named by the request cookie
func (s *SessionStore) Get(r *http.Request) (*Session, bool) {
	cookie, err := r.Cookie(s.config.SessionCookie)
	if err != nil {
		return nil, false
	}

	s.mu.RLock()
	session, exists := s.sessions[cookie.Value]
	s.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if s.now().After(session.ExpiresAt) {
		s.Delete(cookie.Value)
		return nil, false
	}

	return session, true
}

// New creates a session with a fresh cook session
func (s *SessionStore) New() *Session {
	now := s.now()
	session := &Session{
		ID:        uuid.NewString(),
		Cook:      s.factory.NewSession(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.SessionTTL),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return session
}

// Transient returns a fresh session that is never stored
func (s *SessionStore) Transient() *Session {
	now := s.now()
	return &Session{
		Cook:      s.factory.NewSession(),
		CreatedAt: now,
		ExpiresAt: now,
	}
}

// Save sets the session cookie
func (s *SessionStore) Save(w http.ResponseWriter, session *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.SessionCookie,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Expires:  session.ExpiresAt,
		MaxAge:   int(session.ExpiresAt.Sub(s.now()).Seconds()),
	})
}

// Delete removes a session
func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// Len returns the number of live sessions
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the cleanup goroutine
func (s *SessionStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// cleanupExpired removes expired sessions periodically
func (s *SessionStore) cleanupExpired() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.purge()
		}
	}
}

func (s *SessionStore) purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Debug("Cleaned up expired sessions", zap.Int("count", removed))
	}
	return removed
}
