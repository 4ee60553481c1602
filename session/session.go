package session

import (
	"sync"

	"github.com/samber/mo"
)

// Session represents one piece of content accepted by the engine. The entry
// list is guarded because the event handler and the selection flow both
// refresh it; it is replaced wholesale on every refresh so readers never
// observe a half-updated list.
type Session struct {
	ID   string
	Name string

	mu      sync.RWMutex
	entries []Entry
}

// SetEntries publishes a new entry list, replacing the previous one.
func (s *Session) SetEntries(entries []Entry) {
	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
}

// EntryList returns a snapshot of the current entries.
func (s *Session) EntryList() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Entry(nil), s.entries...)
}

// Manager tracks the single active session. At most one session is active
// for playback purposes at a time; adding content replaces it.
type Manager struct {
	mu     sync.RWMutex
	active *Session
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{}
}

// Replace installs s as the active session, discarding the previous one.
func (m *Manager) Replace(s *Session) {
	m.mu.Lock()
	m.active = s
	m.mu.Unlock()
}

// Active returns the current session, if any.
func (m *Manager) Active() mo.Option[*Session] {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.active == nil {
		return mo.None[*Session]()
	}
	return mo.Some(m.active)
}
