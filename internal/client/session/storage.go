// Package session is the client-side authentication state machine. It
// reconciles identity across three persistence surfaces -- a durable cookie,
// durable local storage, and tab-scoped transient storage -- and decides on
// each start whether the visitor is authenticated and as whom.
package session

import "sync"

// Storage is the capability interface over one persistence surface. The
// browser build backs it with cookies/localStorage/sessionStorage; tests
// and non-browser contexts use the in-memory implementation.
type Storage interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool)

	// Set stores value under key, replacing any previous value.
	Set(key, value string)

	// Remove deletes key. Removing an absent key is a no-op.
	Remove(key string)
}

// MemoryStorage is a map-backed Storage, safe for concurrent use.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStorage creates an empty in-memory surface.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryStorage) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

func (m *MemoryStorage) Remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
}

// Surfaces bundles the three persistence surfaces the session machine uses.
type Surfaces struct {
	// Cookies survives restarts and is shared across tabs; it carries
	// the identity (userEmail) and the short-lived pendingEmail.
	Cookies Storage

	// Local survives restarts; it caches the last-known profile and the
	// liked-items list.
	Local Storage

	// Tab lives for the current tab only; it carries pendingEmail during
	// profile setup and the loggedOut marker after an explicit logout.
	Tab Storage
}

// NewMemorySurfaces returns Surfaces backed by three independent in-memory
// stores, for tests and non-browser contexts.
func NewMemorySurfaces() Surfaces {
	return Surfaces{
		Cookies: NewMemoryStorage(),
		Local:   NewMemoryStorage(),
		Tab:     NewMemoryStorage(),
	}
}
