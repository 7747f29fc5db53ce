package tracking

import (
	"net/http"

	"github.com/matst80/part-finder/pkg/types"
)

// Tracking receives shopper behavior events. Implementations must be safe
// to call from request goroutines and must never block the filter engine.
type Tracking interface {
	TrackSession(sessionId string, r *http.Request)
	TrackSearch(sessionId string, state types.FilterState, resultCount int, page int)
	TrackFilterChange(sessionId string, key string, value any)
}
