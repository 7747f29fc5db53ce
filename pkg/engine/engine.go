// Package engine wires the filter store, facet loader, page fetcher, chip
// deriver and vehicle bridge into the single surface presentation code
// consumes. One engine per browsing session.
package engine

import (
	"context"
	"time"

	"github.com/matst80/part-finder/pkg/catalog"
	"github.com/matst80/part-finder/pkg/chips"
	"github.com/matst80/part-finder/pkg/clientstate"
	"github.com/matst80/part-finder/pkg/facet"
	"github.com/matst80/part-finder/pkg/filter"
	"github.com/matst80/part-finder/pkg/location"
	"github.com/matst80/part-finder/pkg/query"
	"github.com/matst80/part-finder/pkg/types"
	"github.com/matst80/part-finder/pkg/vehicle"
)

type Config struct {
	PageSize       int
	SearchDebounce time.Duration
	FacetCoalesce  time.Duration
}

type Engine struct {
	store   *filter.Store
	fetcher *query.Fetcher
	loader  *facet.Loader
	bridge  *vehicle.Bridge
	search  *filter.Debouncer
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(repo catalog.Repository, storage clientstate.Storage, loc location.Location, cfg Config) *Engine {
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		store:   filter.NewStore(storage, loc),
		fetcher: query.NewFetcher(repo, cfg.PageSize),
		loader:  facet.NewLoader(repo, cfg.FacetCoalesce),
		ctx:     ctx,
		cancel:  cancel,
	}
	e.bridge = vehicle.NewBridge(e.store, storage)
	e.search = filter.NewDebouncer(cfg.SearchDebounce, func(text string) {
		e.store.SetFilter(types.KeySearch, text)
	})
	// every applied state change refetches page 1 and, when a driving key
	// moved, schedules a narrowed facet reload
	e.store.Subscribe(func(state types.FilterState) {
		e.fetcher.Refresh(ctx, state)
		e.loader.FilterChanged(ctx, state)
	})
	return e
}

// Hydrate loads durable state and the base facet values. The base load runs
// in the background so session startup never blocks on the repository.
func (e *Engine) Hydrate() {
	go e.loader.LoadBase(e.ctx)
	e.store.Hydrate()
}

// --- mutators ---

func (e *Engine) SetFilter(key string, value any) bool {
	return e.store.SetFilter(key, value)
}

func (e *Engine) SetFilters(partial map[string]any) bool {
	return e.store.SetFilters(partial)
}

func (e *Engine) RemoveFilter(key string) bool {
	return e.store.RemoveFilter(key)
}

func (e *Engine) RemoveFilterValue(key, value string) bool {
	return e.store.RemoveFilterValue(key, value)
}

func (e *Engine) ClearFilters() bool {
	return e.store.ClearFilters()
}

// SetSearchDraft records a keystroke-level edit; the value is committed to
// the state after the quiescence window. Discrete selections do not go
// through here.
func (e *Engine) SetSearchDraft(text string) {
	e.search.Edit(text)
}

// CommitSearch flushes a pending draft immediately (enter key, submit).
func (e *Engine) CommitSearch() {
	e.search.Flush()
}

func (e *Engine) ApplyVehicle(sel vehicle.Selection) {
	e.bridge.Apply(sel)
}

func (e *Engine) ClearVehicle() {
	e.bridge.Clear()
}

func (e *Engine) Vehicle() vehicle.Selection {
	return e.bridge.Current()
}

func (e *Engine) NextPage() bool {
	return e.fetcher.NextPage(e.ctx, e.store.State())
}

func (e *Engine) SetCatalogView(onCatalog bool) {
	e.store.SetCatalogView(onCatalog)
}

// --- read surface ---

func (e *Engine) State() types.FilterState {
	return e.store.State()
}

func (e *Engine) Result() query.Result {
	return e.fetcher.Result()
}

func (e *Engine) FacetOptions() facet.Options {
	return e.loader.Options()
}

func (e *Engine) Chips() []types.Chip {
	return chips.Derive(e.store.State())
}

// OnResult registers the fetch snapshot listener.
func (e *Engine) OnResult(fn func(query.Result)) {
	e.fetcher.OnChange(fn)
}

// OnOptions registers the facet options listener.
func (e *Engine) OnOptions(fn func(facet.Options)) {
	e.loader.OnChange(fn)
}

// OnState registers a filter state listener.
func (e *Engine) OnState(fn func(types.FilterState)) {
	e.store.Subscribe(fn)
}

func (e *Engine) Close() {
	e.search.Close()
	e.loader.Stop()
	e.cancel()
}
