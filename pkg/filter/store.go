package filter

import (
	"sync"

	"github.com/matst80/part-finder/pkg/clientstate"
	"github.com/matst80/part-finder/pkg/common/jsoncompat"
	"github.com/matst80/part-finder/pkg/location"
	"github.com/matst80/part-finder/pkg/types"
)

// Store is the single source of truth for the current filter values. Its
// mutators are synchronous and applied in call order under one lock; all
// I/O (storage, address bar) is best-effort write-through after the
// in-memory update. Subscribers are notified with a snapshot after the
// lock is released.
type Store struct {
	mu               sync.Mutex
	state            types.FilterState
	hydrated         bool
	catalogView      bool
	storage          clientstate.Storage
	loc              location.Location
	lastWrittenQuery string
	listeners        []func(types.FilterState)
}

func NewStore(storage clientstate.Storage, loc location.Location) *Store {
	return &Store{
		state:       types.NewFilterState(),
		storage:     storage,
		loc:         loc,
		catalogView: true,
	}
}

// Subscribe registers a change listener. Listeners fire after hydration and
// after every applied mutation, never for no-ops.
func (s *Store) Subscribe(fn func(types.FilterState)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// SetCatalogView toggles whether the store mirrors its state to the query
// string; only the catalog-browse view owns the address bar.
func (s *Store) SetCatalogView(onCatalog bool) {
	s.mu.Lock()
	s.catalogView = onCatalog
	s.mu.Unlock()
}

func (s *Store) State() types.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// SetFilter normalizes and applies one value. Returns false (and performs
// no write, no notify) when the normalized value equals the current one.
func (s *Store) SetFilter(key string, raw any) bool {
	field, ok := types.FieldFor(key)
	if !ok {
		return false
	}
	normalized := types.Normalize(key, raw)

	s.mu.Lock()
	if types.ValueEqual(field.Kind, s.state[key], normalized) {
		s.mu.Unlock()
		return false
	}
	next := s.state.Clone()
	next[key] = normalized
	applyPreferenceGroup(next, key)
	if isVehicleKey(key) {
		enforceVehiclePrefix(next)
	}
	s.commitLocked(next)
	return true
}

// SetFilters merges a partial override map over the current state and
// applies it atomically: either every changed key lands together or
// nothing does.
func (s *Store) SetFilters(partial map[string]any) bool {
	s.mu.Lock()
	next := s.state.Clone()
	touchedVehicle := false
	for key, raw := range partial {
		if _, ok := types.FieldFor(key); !ok {
			continue
		}
		next[key] = types.Normalize(key, raw)
		applyPreferenceGroup(next, key)
		touchedVehicle = touchedVehicle || isVehicleKey(key)
	}
	if touchedVehicle {
		enforceVehiclePrefix(next)
	}
	if !types.HaveChanged(s.state, next) {
		s.mu.Unlock()
		return false
	}
	s.commitLocked(next)
	return true
}

// RemoveFilter resets a key to its default. The synthetic composites clear
// their whole group atomically: price clears both bounds,
// fitment_preference clears id, range and label, and a vehicle key
// cascade-clears every deeper vehicle field.
func (s *Store) RemoveFilter(key string) bool {
	s.mu.Lock()
	next := s.state.Clone()
	if !removeKey(next, key) {
		s.mu.Unlock()
		return false
	}
	if !types.HaveChanged(s.state, next) {
		s.mu.Unlock()
		return false
	}
	s.commitLocked(next)
	return true
}

// RemoveFilterValue removes one member from a set filter; for any other
// kind it behaves as RemoveFilter.
func (s *Store) RemoveFilterValue(key string, value string) bool {
	field, ok := types.FieldFor(key)
	if !ok || field.Kind != types.KindSet {
		return s.RemoveFilter(key)
	}
	s.mu.Lock()
	current := s.state.GetSet(key)
	remaining := make([]string, 0, len(current))
	for _, member := range current {
		if member != value {
			remaining = append(remaining, member)
		}
	}
	if len(remaining) == len(current) {
		s.mu.Unlock()
		return false
	}
	next := s.state.Clone()
	next[key] = remaining
	s.commitLocked(next)
	return true
}

// ClearFilters resets everything to defaults in one step.
func (s *Store) ClearFilters() bool {
	s.mu.Lock()
	next := types.NewFilterState()
	if !types.HaveChanged(s.state, next) {
		s.mu.Unlock()
		return false
	}
	s.commitLocked(next)
	return true
}

// commitLocked swaps the state, write-through persists it, and notifies
// listeners. The caller must hold the lock; the lock is released here so
// listeners run outside it.
func (s *Store) commitLocked(next types.FilterState) {
	s.state = next
	s.persistLocked()
	listeners := make([]func(types.FilterState), len(s.listeners))
	copy(listeners, s.listeners)
	snapshot := s.state.Clone()
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(snapshot)
	}
}

func (s *Store) persistLocked() {
	if !s.hydrated {
		return
	}
	if blob, err := jsoncompat.Marshal(s.state); err == nil {
		s.storage.Set(clientstate.FiltersKey, string(blob))
	}
	if s.catalogView {
		target := location.EncodeQuery(s.state)
		if target != s.lastWrittenQuery {
			s.lastWrittenQuery = target
			s.loc.ReplaceQuery(target)
		}
	}
}

func removeKey(state types.FilterState, key string) bool {
	switch key {
	case types.CompositeKeyPrice:
		state[types.KeyPriceMin] = ""
		state[types.KeyPriceMax] = ""
		return true
	case types.KeyFitmentPref:
		state[types.KeyFitmentPref] = ""
		state[types.KeyFitmentLabel] = ""
		state[types.KeyFitmentRange] = (*types.PreferenceRange)(nil)
		return true
	}
	field, ok := types.FieldFor(key)
	if !ok {
		return false
	}
	state[key] = types.DefaultValue(field.Kind)
	if isVehicleKey(key) {
		enforceVehiclePrefix(state)
	}
	return true
}

func isVehicleKey(key string) bool {
	for _, vkey := range types.VehicleKeys {
		if vkey == key {
			return true
		}
	}
	return false
}

// enforceVehiclePrefix clears everything below the first empty vehicle
// field, so a selection like year+model without make can never exist —
// whether the field was removed or set empty.
func enforceVehiclePrefix(state types.FilterState) {
	clearing := false
	for _, vkey := range types.VehicleKeys {
		if clearing {
			state[vkey] = ""
			continue
		}
		if state.GetString(vkey) == "" {
			clearing = true
		}
	}
}

// applyPreferenceGroup keeps the derived fitment range and label in lock
// step with the preference id whenever the id changes.
func applyPreferenceGroup(state types.FilterState, key string) {
	if key != types.KeyFitmentPref {
		return
	}
	id := state.GetString(types.KeyFitmentPref)
	if id == "" {
		state[types.KeyFitmentLabel] = ""
		state[types.KeyFitmentRange] = (*types.PreferenceRange)(nil)
		return
	}
	if pref, ok := types.PreferenceFor(id); ok {
		state[types.KeyFitmentLabel] = pref.Label
		state[types.KeyFitmentRange] = &types.PreferenceRange{Min: pref.Min, Max: pref.Max}
	}
}
