package session

import "sync"

// Session pairs the analysis view state with its annotation layer.
type Session struct {
	Analysis    *AnalysisState
	Annotations *AnnotationState
}

// Manager tracks live sessions keyed by analysis id.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager returns an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Get returns the session for an analysis id.
func (m *Manager) Get(analysisID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[analysisID]
	return s, ok
}

// GetOrCreate returns the session for an analysis id, creating it on first
// use.
func (m *Manager) GetOrCreate(analysisID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[analysisID]; ok {
		return s
	}
	s := &Session{
		Analysis:    NewAnalysisState(),
		Annotations: NewAnnotationState(),
	}
	m.sessions[analysisID] = s
	return s
}

// Delete drops the session for an analysis id.
func (m *Manager) Delete(analysisID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, analysisID)
}
