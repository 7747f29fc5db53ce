package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/matst80/part-finder/pkg/common/jsoncompat"
	"github.com/matst80/part-finder/pkg/facet"
	"github.com/matst80/part-finder/pkg/query"
	"github.com/matst80/part-finder/pkg/types"
	"github.com/matst80/part-finder/pkg/vehicle"
)

// StateResponse is returned by every mutation so the client can re-render
// without a second round trip. Results arrive asynchronously and are read
// from /api/results.
type StateResponse struct {
	State   types.FilterState `json:"state"`
	Chips   []types.Chip      `json:"chips"`
	Vehicle vehicle.Selection `json:"vehicle"`
	Applied bool              `json:"applied"`
}

func (ws *WebServer) stateResponse(sessionId string, r *http.Request, applied bool) StateResponse {
	e := ws.session(sessionId, r)
	return StateResponse{
		State:   e.State(),
		Chips:   e.Chips(),
		Vehicle: e.Vehicle(),
		Applied: applied,
	}
}

func (ws *WebServer) GetState(w http.ResponseWriter, r *http.Request, sessionId string) (any, error) {
	return ws.stateResponse(sessionId, r, false), nil
}

func (ws *WebServer) SetFilter(w http.ResponseWriter, r *http.Request, sessionId string) (any, error) {
	var req SetFilterRequest
	if err := decodeRequest(r, &req); err != nil {
		return nil, err
	}
	if req.Key == "" {
		return nil, fmt.Errorf("missing filter key")
	}
	e := ws.session(sessionId, r)
	applied := e.SetFilter(req.Key, req.Value)
	if applied {
		go noFilterChanges.Inc()
		if ws.Tracking != nil {
			go ws.Tracking.TrackFilterChange(sessionId, req.Key, req.Value)
		}
	}
	return ws.stateResponse(sessionId, r, applied), nil
}

func (ws *WebServer) SetFilters(w http.ResponseWriter, r *http.Request, sessionId string) (any, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	var partial map[string]any
	if err := jsoncompat.Unmarshal(body, &partial); err != nil {
		return nil, err
	}
	e := ws.session(sessionId, r)
	applied := e.SetFilters(partial)
	if applied {
		go noFilterChanges.Inc()
	}
	return ws.stateResponse(sessionId, r, applied), nil
}

func (ws *WebServer) RemoveFilter(w http.ResponseWriter, r *http.Request, sessionId string) (any, error) {
	key := r.PathValue("key")
	if key == "" {
		return nil, fmt.Errorf("missing filter key")
	}
	e := ws.session(sessionId, r)
	var applied bool
	// a value query param removes one set member, chip-style
	if value := r.URL.Query().Get("value"); value != "" {
		applied = e.RemoveFilterValue(key, value)
	} else {
		applied = e.RemoveFilter(key)
	}
	if applied {
		go noFilterChanges.Inc()
		if ws.Tracking != nil {
			go ws.Tracking.TrackFilterChange(sessionId, key, nil)
		}
	}
	return ws.stateResponse(sessionId, r, applied), nil
}

func (ws *WebServer) ClearFilters(w http.ResponseWriter, r *http.Request, sessionId string) (any, error) {
	e := ws.session(sessionId, r)
	applied := e.ClearFilters()
	if applied {
		go noFilterChanges.Inc()
	}
	return ws.stateResponse(sessionId, r, applied), nil
}

func (ws *WebServer) SearchDraft(w http.ResponseWriter, r *http.Request, sessionId string) (any, error) {
	var req SearchDraftRequest
	if err := decodeRequest(r, &req); err != nil {
		return nil, err
	}
	ws.session(sessionId, r).SetSearchDraft(req.Text)
	return map[string]bool{"accepted": true}, nil
}

func (ws *WebServer) CommitSearch(w http.ResponseWriter, r *http.Request, sessionId string) (any, error) {
	ws.session(sessionId, r).CommitSearch()
	return ws.stateResponse(sessionId, r, true), nil
}

func (ws *WebServer) GetResults(w http.ResponseWriter, r *http.Request, sessionId string) (any, error) {
	go noSearches.Inc()
	return ws.session(sessionId, r).Result(), nil
}

func (ws *WebServer) NextPage(w http.ResponseWriter, r *http.Request, sessionId string) (any, error) {
	e := ws.session(sessionId, r)
	started := e.NextPage()
	res := e.Result()
	return struct {
		query.Result
		Started bool `json:"started"`
	}{Result: res, Started: started}, nil
}

func (ws *WebServer) GetFacets(w http.ResponseWriter, r *http.Request, sessionId string) (any, error) {
	return ws.session(sessionId, r).FacetOptions(), nil
}

func (ws *WebServer) GetChips(w http.ResponseWriter, r *http.Request, sessionId string) (any, error) {
	return ws.session(sessionId, r).Chips(), nil
}

func (ws *WebServer) GetVehicle(w http.ResponseWriter, r *http.Request, sessionId string) (any, error) {
	return ws.session(sessionId, r).Vehicle(), nil
}

func (ws *WebServer) SetVehicle(w http.ResponseWriter, r *http.Request, sessionId string) (any, error) {
	var req VehicleRequest
	if err := decodeRequest(r, &req); err != nil {
		return nil, err
	}
	e := ws.session(sessionId, r)
	e.ApplyVehicle(vehicle.Selection{Year: req.Year, Make: req.Make, Model: req.Model, Trim: req.Trim})
	return ws.stateResponse(sessionId, r, true), nil
}

func (ws *WebServer) ClearVehicle(w http.ResponseWriter, r *http.Request, sessionId string) (any, error) {
	ws.session(sessionId, r).ClearVehicle()
	return ws.stateResponse(sessionId, r, true), nil
}

// VehicleOptions proxies the external fitment provider for the next level
// of the cascading selects.
func (ws *WebServer) VehicleOptions(w http.ResponseWriter, r *http.Request, sessionId string) (any, error) {
	if ws.Options == nil {
		http.Error(w, "no fitment provider configured", http.StatusNotFound)
		return nil, nil
	}
	var req VehicleRequest
	if err := decodeRequest(r, &req); err != nil {
		return nil, err
	}
	var (
		options []facet.Option
		err     error
	)
	switch level := r.PathValue("level"); level {
	case "years":
		options, err = ws.Options.Years(r.Context())
	case "makes":
		options, err = ws.Options.Makes(r.Context(), req.Year)
	case "models":
		options, err = ws.Options.Models(r.Context(), req.Year, req.Make)
	case "trims":
		options, err = ws.Options.Trims(r.Context(), req.Year, req.Make, req.Model)
	default:
		return nil, fmt.Errorf("unknown option level %q", level)
	}
	if err != nil {
		return nil, err
	}
	return options, nil
}
