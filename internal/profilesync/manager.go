package profilesync

import (
	"sync"

	"github.com/pkg/errors"
)

// Manager owns one Service per signed-in user. Sessions are created lazily
// on first use and live until Cleanup, matching the page-session lifetime
// of the original singleton without sharing state across users.
type Manager struct {
	store     Store
	callbacks func(uid string) Callbacks

	mu       sync.Mutex
	sessions map[string]*Service
}

// NewManager builds a manager. callbacks produces the callback set wired
// into each new session (typically the realtime hub bridge); it may be nil.
func NewManager(store Store, callbacks func(uid string) Callbacks) *Manager {
	return &Manager{
		store:     store,
		callbacks: callbacks,
		sessions:  make(map[string]*Service),
	}
}

// Session returns the user's sync service, initializing one on first use.
// Each session gets its own local KV mirror.
func (m *Manager) Session(uid string) (*Service, error) {
	m.mu.Lock()
	if svc, ok := m.sessions[uid]; ok {
		m.mu.Unlock()
		return svc, nil
	}
	m.mu.Unlock()

	svc := New(m.store, NewMemoryKV())
	var cb Callbacks
	if m.callbacks != nil {
		cb = m.callbacks(uid)
	}
	if err := svc.Initialize(uid, cb); err != nil {
		return nil, errors.Wrapf(err, "initialize sync session for %s", uid)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[uid]; ok {
		// Lost the race; keep the first session.
		svc.Cleanup()
		return existing, nil
	}
	m.sessions[uid] = svc
	return svc, nil
}

// Cleanup tears down a user's session if one exists.
func (m *Manager) Cleanup(uid string) {
	m.mu.Lock()
	svc, ok := m.sessions[uid]
	delete(m.sessions, uid)
	m.mu.Unlock()
	if ok {
		svc.Cleanup()
	}
}
