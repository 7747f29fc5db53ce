package location

import (
	"net/url"
	"sync"
)

// Location is the navigable address bar boundary: read the current query
// string, replace it without adding a history entry.
type Location interface {
	QueryParams() url.Values
	ReplaceQuery(rawQuery string)
}

// MemoryLocation backs the engine when there is no real address bar, and
// records the canonical query string so an HTTP client can mirror it.
type MemoryLocation struct {
	mu       sync.RWMutex
	rawQuery string
}

func NewMemoryLocation(rawQuery string) *MemoryLocation {
	return &MemoryLocation{rawQuery: rawQuery}
}

func (l *MemoryLocation) QueryParams() url.Values {
	l.mu.RLock()
	defer l.mu.RUnlock()
	values, err := url.ParseQuery(l.rawQuery)
	if err != nil {
		return url.Values{}
	}
	return values
}

func (l *MemoryLocation) ReplaceQuery(rawQuery string) {
	l.mu.Lock()
	l.rawQuery = rawQuery
	l.mu.Unlock()
}

func (l *MemoryLocation) RawQuery() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.rawQuery
}
