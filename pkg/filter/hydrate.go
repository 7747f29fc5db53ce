package filter

import (
	"log"

	"github.com/matst80/part-finder/pkg/clientstate"
	"github.com/matst80/part-finder/pkg/common/jsoncompat"
	"github.com/matst80/part-finder/pkg/location"
	"github.com/matst80/part-finder/pkg/types"
)

// storedVehicle is the shape of the separately persisted "last vehicle
// selection" record.
type storedVehicle struct {
	Year  string `json:"year"`
	Make  string `json:"make"`
	Model string `json:"model"`
	Trim  string `json:"trim"`
}

// Hydrate initializes the state from durable sources, once per session:
// the URL wins outright; otherwise the stored filter blob; otherwise the
// legacy vehicle record fills just the four vehicle keys. Re-running is a
// no-op so a late call can never clobber live user edits.
func (s *Store) Hydrate() {
	s.mu.Lock()
	if s.hydrated {
		s.mu.Unlock()
		return
	}

	clientstate.MigrateLegacyKey(s.storage, clientstate.LegacyVehicleKey, clientstate.VehicleKey)

	params := s.loc.QueryParams()
	if location.HasFilterKeys(params) {
		s.state = types.BuildFromOverrides(location.DecodeQuery(params))
		applyPreferenceGroup(s.state, types.KeyFitmentPref)
	} else {
		s.hydrateFromStorageLocked()
	}

	s.hydrated = true
	// remember what the address bar already says so the first write-back
	// only fires on a real difference
	s.lastWrittenQuery = location.EncodeQuery(s.state)

	listeners := make([]func(types.FilterState), len(s.listeners))
	copy(listeners, s.listeners)
	snapshot := s.state.Clone()
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(snapshot)
	}
}

func (s *Store) hydrateFromStorageLocked() {
	vehicleSeen := false
	if blob, ok := s.storage.Get(clientstate.FiltersKey); ok {
		var raw map[string]any
		if err := jsoncompat.Unmarshal([]byte(blob), &raw); err != nil {
			log.Printf("stored filters unreadable, ignoring: %v", err)
		} else {
			for key, value := range raw {
				if _, known := types.FieldFor(key); !known {
					continue
				}
				s.state[key] = types.Normalize(key, value)
			}
			applyPreferenceGroup(s.state, types.KeyFitmentPref)
			for _, vkey := range types.VehicleKeys {
				if s.state.GetString(vkey) != "" {
					vehicleSeen = true
					break
				}
			}
		}
	}
	if vehicleSeen {
		return
	}
	if blob, ok := s.storage.Get(clientstate.VehicleKey); ok {
		var record storedVehicle
		if err := jsoncompat.Unmarshal([]byte(blob), &record); err != nil {
			log.Printf("stored vehicle unreadable, ignoring: %v", err)
			return
		}
		s.state[types.KeyVehicleYear] = record.Year
		s.state[types.KeyVehicleMake] = record.Make
		s.state[types.KeyVehicleModel] = record.Model
		s.state[types.KeyVehicleTrim] = record.Trim
	}
}
