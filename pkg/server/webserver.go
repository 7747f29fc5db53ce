package server

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/matst80/part-finder/pkg/catalog"
	"github.com/matst80/part-finder/pkg/clientstate"
	"github.com/matst80/part-finder/pkg/common"
	"github.com/matst80/part-finder/pkg/engine"
	"github.com/matst80/part-finder/pkg/location"
	"github.com/matst80/part-finder/pkg/query"
	"github.com/matst80/part-finder/pkg/tracking"
	"github.com/matst80/part-finder/pkg/vehicle"
)

const DefaultSessionTtl = 30 * time.Minute

// WebServer exposes the filter engine over HTTP, one engine per browsing
// session. Sessions are keyed by the sid cookie and share one storage
// backend behind per-session namespaces.
type WebServer struct {
	Repo       catalog.Repository
	Storage    clientstate.Storage
	Tracking   tracking.Tracking
	Options    *vehicle.OptionProvider
	PageSize   int
	SessionTtl time.Duration

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	engine   *engine.Engine
	lastSeen time.Time
}

func NewWebServer(repo catalog.Repository, storage clientstate.Storage, trk tracking.Tracking) *WebServer {
	return &WebServer{
		Repo:       repo,
		Storage:    storage,
		Tracking:   trk,
		PageSize:   query.DefaultPageSize,
		SessionTtl: DefaultSessionTtl,
		sessions:   make(map[string]*session),
	}
}

// session returns the engine for a session id, creating and hydrating one
// on first sight. The first request's query string seeds the engine's
// location, so a shared catalog link hydrates the filters it describes.
func (ws *WebServer) session(sessionId string, r *http.Request) *engine.Engine {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if s, ok := ws.sessions[sessionId]; ok {
		s.lastSeen = time.Now()
		return s.engine
	}

	go noSessions.Inc()
	loc := location.NewMemoryLocation(r.URL.RawQuery)
	e := engine.New(ws.Repo, clientstate.Namespaced(ws.Storage, "s:"+sessionId), loc, engine.Config{
		PageSize: ws.PageSize,
	})
	if ws.Tracking != nil {
		trk := ws.Tracking
		e.OnResult(func(res query.Result) {
			if !res.Loading && res.Error == "" {
				go trk.TrackSearch(sessionId, e.State(), res.Total, res.Page)
			}
		})
	}
	e.Hydrate()
	ws.sessions[sessionId] = &session{engine: e, lastSeen: time.Now()}
	activeSessions.Set(float64(len(ws.sessions)))
	return e
}

// StartJanitor evicts sessions idle past the ttl until the context ends.
func (ws *WebServer) StartJanitor(ctx context.Context) {
	ticker := time.NewTicker(ws.SessionTtl / 2)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				ws.evictStale(now)
			}
		}
	}()
}

func (ws *WebServer) evictStale(now time.Time) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	for id, s := range ws.sessions {
		if now.Sub(s.lastSeen) > ws.SessionTtl {
			s.engine.Close()
			delete(ws.sessions, id)
		}
	}
	activeSessions.Set(float64(len(ws.sessions)))
}

func timed(pattern string, h http.HandlerFunc) http.HandlerFunc {
	observer := requestDuration.WithLabelValues(pattern)
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		h(w, r)
		observer.Observe(time.Since(start).Seconds())
	}
}

func (ws *WebServer) CreateHandler() *http.ServeMux {
	srv := http.NewServeMux()
	trk := ws.Tracking

	srv.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ok")); err != nil {
			log.Printf("health write failed: %v", err)
		}
	})

	srv.HandleFunc("GET /api/state", timed("state", common.JsonHandler(trk, ws.GetState)))
	srv.HandleFunc("/api/filter", timed("filter", common.JsonHandler(trk, ws.SetFilter)))
	srv.HandleFunc("POST /api/filters", timed("filters", common.JsonHandler(trk, ws.SetFilters)))
	srv.HandleFunc("DELETE /api/filter/{key}", timed("filter-remove", common.JsonHandler(trk, ws.RemoveFilter)))
	srv.HandleFunc("POST /api/clear", timed("clear", common.JsonHandler(trk, ws.ClearFilters)))
	srv.HandleFunc("POST /api/search", timed("search", common.JsonHandler(trk, ws.SearchDraft)))
	srv.HandleFunc("POST /api/search/commit", timed("search-commit", common.JsonHandler(trk, ws.CommitSearch)))
	srv.HandleFunc("GET /api/results", timed("results", common.JsonHandler(trk, ws.GetResults)))
	srv.HandleFunc("POST /api/results/next", timed("next-page", common.JsonHandler(trk, ws.NextPage)))
	srv.HandleFunc("GET /api/facets", timed("facets", common.JsonHandler(trk, ws.GetFacets)))
	srv.HandleFunc("GET /api/chips", timed("chips", common.JsonHandler(trk, ws.GetChips)))
	srv.HandleFunc("GET /api/vehicle", timed("vehicle", common.JsonHandler(trk, ws.GetVehicle)))
	srv.HandleFunc("POST /api/vehicle", timed("vehicle-set", common.JsonHandler(trk, ws.SetVehicle)))
	srv.HandleFunc("DELETE /api/vehicle", timed("vehicle-clear", common.JsonHandler(trk, ws.ClearVehicle)))
	srv.HandleFunc("GET /api/vehicle/options/{level}", timed("vehicle-options", common.JsonHandler(trk, ws.VehicleOptions)))

	return srv
}
