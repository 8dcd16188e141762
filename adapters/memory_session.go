package adapters

import (
	"sync"

	"github.com/zaindgr8/inbound-call-agent/domain/entities"
	"github.com/zaindgr8/inbound-call-agent/domain/repositories"
)

// MemorySessionRegistry is an in-memory implementation of SessionRegistry.
// Sessions live only for the duration of their call; nothing is persisted.
type MemorySessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*entities.CallSession // call SID -> session
}

var _ repositories.SessionRegistry = (*MemorySessionRegistry)(nil)

// NewMemorySessionRegistry creates an empty session registry.
func NewMemorySessionRegistry() *MemorySessionRegistry {
	return &MemorySessionRegistry{
		sessions: make(map[string]*entities.CallSession),
	}
}

// GetOrCreate returns the session for callSID, creating it if needed.
// Two connections claiming the same call SID share one session; the
// provider never issues duplicate SIDs, so this is last-write-wins.
func (m *MemorySessionRegistry) GetOrCreate(callSID string) *entities.CallSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	if session, exists := m.sessions[callSID]; exists {
		return session
	}

	session := entities.NewCallSession(callSID)
	m.sessions[callSID] = session
	return session
}

// Get returns the session for callSID, or nil if none exists.
func (m *MemorySessionRegistry) Get(callSID string) *entities.CallSession {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[callSID]
}

// Delete removes the session for callSID.
func (m *MemorySessionRegistry) Delete(callSID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, callSID)
}

// Len reports the number of live sessions.
func (m *MemorySessionRegistry) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
