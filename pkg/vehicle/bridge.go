// Package vehicle keeps the separately-owned vehicle selection and the
// filter state in lock step. The selection has its own persistence record;
// the bridge is the only writer of that record.
package vehicle

import (
	"sync"

	"github.com/matst80/part-finder/pkg/clientstate"
	"github.com/matst80/part-finder/pkg/common/jsoncompat"
	"github.com/matst80/part-finder/pkg/filter"
	"github.com/matst80/part-finder/pkg/types"
)

type Selection struct {
	Year  string `json:"year"`
	Make  string `json:"make"`
	Model string `json:"model"`
	Trim  string `json:"trim"`
}

func (s Selection) Complete() bool {
	return s.Year != "" && s.Make != "" && s.Model != "" && s.Trim != ""
}

func (s Selection) Empty() bool {
	return s == Selection{}
}

// Bridge mirrors the four vehicle filter keys into the persisted vehicle
// record and back. It subscribes to the store, so a filter-originated edit
// (a user removing the make chip, say) updates the record too and the two
// representations never diverge.
type Bridge struct {
	mu         sync.Mutex
	store      *filter.Store
	storage    clientstate.Storage
	lastRecord string
}

func NewBridge(store *filter.Store, storage clientstate.Storage) *Bridge {
	b := &Bridge{store: store, storage: storage}
	if blob, ok := storage.Get(clientstate.VehicleKey); ok {
		b.lastRecord = blob
	}
	store.Subscribe(b.onState)
	return b
}

// Apply writes the selection into the filter state atomically and into the
// vehicle record, in that order. The record write rides on the store's
// change notification; when nothing changed the record is already
// consistent and no write happens.
func (b *Bridge) Apply(sel Selection) {
	changed := b.store.SetFilters(map[string]any{
		types.KeyVehicleYear:  sel.Year,
		types.KeyVehicleMake:  sel.Make,
		types.KeyVehicleModel: sel.Model,
		types.KeyVehicleTrim:  sel.Trim,
	})
	if !changed {
		b.onState(b.store.State())
	}
}

// Clear empties the vehicle keys and deletes the record.
func (b *Bridge) Clear() {
	b.Apply(Selection{})
}

// Current reads the selection out of the filter state, which is the source
// of truth once hydration has run.
func (b *Bridge) Current() Selection {
	return selectionFrom(b.store.State())
}

func (b *Bridge) onState(state types.FilterState) {
	sel := selectionFrom(state)

	b.mu.Lock()
	defer b.mu.Unlock()
	if sel.Empty() {
		if b.lastRecord != "" {
			b.lastRecord = ""
			b.storage.Delete(clientstate.VehicleKey)
		}
		return
	}
	blob, err := jsoncompat.Marshal(sel)
	if err != nil {
		return
	}
	if string(blob) == b.lastRecord {
		return
	}
	b.lastRecord = string(blob)
	b.storage.Set(clientstate.VehicleKey, b.lastRecord)
}

func selectionFrom(state types.FilterState) Selection {
	return Selection{
		Year:  state.GetString(types.KeyVehicleYear),
		Make:  state.GetString(types.KeyVehicleMake),
		Model: state.GetString(types.KeyVehicleModel),
		Trim:  state.GetString(types.KeyVehicleTrim),
	}
}
