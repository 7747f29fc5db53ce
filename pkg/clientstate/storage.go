package clientstate

import (
	"log"
	"sync"
)

// Storage is the persisted client state boundary: best-effort key/value
// strings. Implementations log failures and degrade to "no stored value";
// they never surface errors to the filter engine.
type Storage interface {
	Get(key string) (string, bool)
	Set(key string, value string)
	Delete(key string)
}

// Keys used by the filter engine. The legacy vehicle key predates the
// filter blob and is migrated on first read.
const (
	FiltersKey       = "pf:filters"
	VehicleKey       = "pf:vehicle"
	LegacyVehicleKey = "vehicle_selection"
)

// MigrateLegacyKey copies oldKey to newKey when newKey is absent and
// removes oldKey. Runs once per session, before hydration reads.
func MigrateLegacyKey(s Storage, oldKey, newKey string) {
	if _, ok := s.Get(newKey); ok {
		return
	}
	value, ok := s.Get(oldKey)
	if !ok {
		return
	}
	log.Printf("migrating stored value from %s to %s", oldKey, newKey)
	s.Set(newKey, value)
	s.Delete(oldKey)
}

// Namespaced scopes every key with a prefix so multiple sessions can share
// one backend without clobbering each other's blobs.
func Namespaced(inner Storage, namespace string) Storage {
	return &namespacedStorage{inner: inner, prefix: namespace + ":"}
}

type namespacedStorage struct {
	inner  Storage
	prefix string
}

func (n *namespacedStorage) Get(key string) (string, bool) {
	return n.inner.Get(n.prefix + key)
}

func (n *namespacedStorage) Set(key string, value string) {
	n.inner.Set(n.prefix+key, value)
}

func (n *namespacedStorage) Delete(key string) {
	n.inner.Delete(n.prefix + key)
}

// MemoryStorage is the in-process implementation, used in tests and as the
// fallback when no durable backend is configured.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryStorage) Set(key string, value string) {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
}

func (m *MemoryStorage) Delete(key string) {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
}
