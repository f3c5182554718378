package services

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/rpl-hospital/carebot-backend/internal/models"
	"github.com/rpl-hospital/carebot-backend/internal/storage"
)

// Default session position: the main menu, waiting for the first input.
const (
	DefaultFlow = "main-menu"
	DefaultStep = "start"
)

// Session is the per-user conversation state the flow engine reads and writes
type Session struct {
	Phone        string            `json:"phone"`
	Flow         string            `json:"flow"`
	Step         string            `json:"step"`
	Name         string            `json:"name"`
	Context      map[string]string `json:"context"`
	LastActivity time.Time         `json:"last_activity"`
}

// NewDefaultSession builds a pristine session at the main menu
func NewDefaultSession(phone string) *Session {
	return &Session{
		Phone:        phone,
		Flow:         DefaultFlow,
		Step:         DefaultStep,
		Context:      make(map[string]string),
		LastActivity: time.Now(),
	}
}

// Reset returns the session to the main menu and drops collected context.
// The patient name survives so later flows can keep greeting by name.
func (s *Session) Reset() {
	s.Flow = DefaultFlow
	s.Step = DefaultStep
	s.Context = make(map[string]string)
}

// SessionStore keeps one live session per phone number with a sliding TTL.
// Sessions are cached in memory and written through to durable storage so
// conversation state survives a restart. A storage failure is logged and the
// caller sees a default session instead of an error.
type SessionStore struct {
	store storage.Store
	ttl   time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
	done     chan struct{}
}

// NewSessionStore creates a session store with the given sliding TTL
func NewSessionStore(store storage.Store, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	ss := &SessionStore{
		store:    store,
		ttl:      ttl,
		sessions: make(map[string]*Session),
		done:     make(chan struct{}),
	}

	// Periodically drop expired sessions from the cache
	go ss.cleanupExpiredSessions()

	return ss
}

// Get returns the live session for the phone number, or a fresh default
// session when none exists, the stored one has expired, or storage fails.
func (ss *SessionStore) Get(phone string) *Session {
	ss.mu.RLock()
	cached, ok := ss.sessions[phone]
	ss.mu.RUnlock()

	if ok {
		if time.Since(cached.LastActivity) < ss.ttl {
			return cloneSession(cached)
		}
		// Expired in cache; fall through to a default session
		ss.mu.Lock()
		delete(ss.sessions, phone)
		ss.mu.Unlock()
		return NewDefaultSession(phone)
	}

	if ss.store == nil {
		return NewDefaultSession(phone)
	}

	record, err := ss.store.GetSession(phone)
	if err != nil {
		// Missing or unreadable record degrades to a default session
		return NewDefaultSession(phone)
	}
	if time.Now().After(record.ExpiresAt) {
		return NewDefaultSession(phone)
	}

	sess := &Session{
		Phone:        phone,
		Flow:         record.Flow,
		Step:         record.Step,
		Name:         record.PatientName,
		Context:      make(map[string]string),
		LastActivity: record.ExpiresAt.Add(-ss.ttl),
	}
	if record.Context != "" {
		if err := json.Unmarshal([]byte(record.Context), &sess.Context); err != nil {
			log.Printf("⚠️  Corrupt session context for %s: %v", phone, err)
			return NewDefaultSession(phone)
		}
	}

	ss.mu.Lock()
	ss.sessions[phone] = cloneSession(sess)
	ss.mu.Unlock()

	return sess
}

// Set persists the session with a refreshed sliding TTL
func (ss *SessionStore) Set(phone string, sess *Session) {
	sess.Phone = phone
	sess.LastActivity = time.Now()
	if sess.Context == nil {
		sess.Context = make(map[string]string)
	}

	ss.mu.Lock()
	ss.sessions[phone] = cloneSession(sess)
	ss.mu.Unlock()

	if ss.store == nil {
		return
	}

	ctxJSON, err := json.Marshal(sess.Context)
	if err != nil {
		log.Printf("⚠️  Failed to encode session context for %s: %v", phone, err)
		ctxJSON = []byte("{}")
	}

	record := &models.ChatSession{
		Phone:       phone,
		Flow:        sess.Flow,
		Step:        sess.Step,
		PatientName: sess.Name,
		Context:     string(ctxJSON),
		ExpiresAt:   sess.LastActivity.Add(ss.ttl),
	}
	if err := ss.store.SaveSession(record); err != nil {
		// Deliberately tolerated: the cached copy still serves this process
		log.Printf("⚠️  Failed to persist session for %s: %v", phone, err)
	}
}

// Clear removes the session outright (cancel command, emergency reset)
func (ss *SessionStore) Clear(phone string) {
	ss.mu.Lock()
	delete(ss.sessions, phone)
	ss.mu.Unlock()

	if ss.store == nil {
		return
	}
	if err := ss.store.DeleteSession(phone); err != nil {
		log.Printf("⚠️  Failed to delete session record for %s: %v", phone, err)
	}
}

// ActiveCount reports live cached sessions (for the health endpoint)
func (ss *SessionStore) ActiveCount() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	count := 0
	for _, s := range ss.sessions {
		if time.Since(s.LastActivity) < ss.ttl {
			count++
		}
	}
	return count
}

// cleanupExpiredSessions runs periodically to clean up expired cache entries
func (ss *SessionStore) cleanupExpiredSessions() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ss.done:
			return
		case <-ticker.C:
			ss.mu.Lock()
			for phone, sess := range ss.sessions {
				if time.Since(sess.LastActivity) >= ss.ttl {
					delete(ss.sessions, phone)
					log.Printf("Cleaned up expired session for %s", phone)
				}
			}
			ss.mu.Unlock()
		}
	}
}

// Stop halts the background cleanup goroutine
func (ss *SessionStore) Stop() {
	close(ss.done)
}

func cloneSession(s *Session) *Session {
	copied := *s
	copied.Context = make(map[string]string, len(s.Context))
	for k, v := range s.Context {
		copied.Context[k] = v
	}
	return &copied
}
