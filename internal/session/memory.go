package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps session values in process memory, keyed by a random
// session id carried in a plain cookie. Values vanish on restart, so this
// backing suits tests and single-node dev setups.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	ttl     time.Duration
}

type memoryEntry struct {
	values    map[string]string
	expiresAt time.Time
}

// NewMemoryStore creates an in-memory session store whose sessions expire
// after ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*memoryEntry),
		ttl:     ttl,
	}
	go s.cleanup()
	return s
}

// Open returns the session identified by the request's session cookie,
// minting a new id when the cookie is absent or the session has expired.
func (m *MemoryStore) Open(r *http.Request) (Session, error) {
	if c, err := r.Cookie(SessionCookieName); err == nil {
		m.mu.Lock()
		e, ok := m.entries[c.Value]
		if ok && time.Now().Before(e.expiresAt) {
			m.mu.Unlock()
			return &memorySession{store: m, id: c.Value}, nil
		}
		delete(m.entries, c.Value)
		m.mu.Unlock()
	}

	id := uuid.New().String()
	m.mu.Lock()
	m.entries[id] = &memoryEntry{
		values:    make(map[string]string),
		expiresAt: time.Now().Add(m.ttl),
	}
	m.mu.Unlock()
	return &memorySession{store: m, id: id}, nil
}

// cleanup runs periodically to drop expired sessions.
func (m *MemoryStore) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		m.mu.Lock()
		for id, e := range m.entries {
			if now.After(e.expiresAt) {
				delete(m.entries, id)
			}
		}
		m.mu.Unlock()
	}
}

type memorySession struct {
	store *MemoryStore
	id    string
}

func (s *memorySession) Get(key string) (string, bool) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	e, ok := s.store.entries[s.id]
	if !ok {
		return "", false
	}
	v, ok := e.values[key]
	return v, ok
}

func (s *memorySession) Set(key, value string) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	e, ok := s.store.entries[s.id]
	if !ok {
		// Session expired mid-request; recreate it so the write sticks.
		e = &memoryEntry{
			values:    make(map[string]string),
			expiresAt: time.Now().Add(s.store.ttl),
		}
		s.store.entries[s.id] = e
	}
	e.values[key] = value
}

func (s *memorySession) Delete(key string) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	if e, ok := s.store.entries[s.id]; ok {
		delete(e.values, key)
	}
}

func (s *memorySession) Save(w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    s.id,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   int(s.store.ttl.Seconds()),
	})
	return nil
}
