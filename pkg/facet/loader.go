package facet

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/matst80/part-finder/pkg/catalog"
	"github.com/matst80/part-finder/pkg/types"
)

// Option is one selectable facet value.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Options maps facet name to its ordered, deduplicated value list.
type Options map[string][]Option

// The facet narrowing is driven by the vehicle pick plus brand; nothing
// else re-triggers a narrowed load.
var drivingKeys = []string{
	types.KeyVehicleYear,
	types.KeyVehicleMake,
	types.KeyVehicleModel,
	types.KeyVehicleTrim,
	types.KeyBrand,
}

// DefaultCoalesce is the window that folds a field-by-field vehicle entry
// into one narrowed load instead of five.
const DefaultCoalesce = 150 * time.Millisecond

// Loader owns the two facet pipelines: the unconditioned base load (once)
// and the narrowed load (every driving-key change). Narrowed results fall
// back per facet to the base when empty, and stale resolutions are dropped
// by generation.
type Loader struct {
	mu         sync.Mutex
	repo       catalog.Repository
	base       Options
	narrowed   Options
	baseLoaded bool
	generation uint64
	driving    [5]string
	hasDriving bool
	coalesce   time.Duration
	timer      *time.Timer
	onChange   func(Options)
}

func NewLoader(repo catalog.Repository, coalesce time.Duration) *Loader {
	if coalesce <= 0 {
		coalesce = DefaultCoalesce
	}
	return &Loader{
		repo:     repo,
		base:     Options{},
		narrowed: Options{},
		coalesce: coalesce,
	}
}

func (l *Loader) OnChange(fn func(Options)) {
	l.mu.Lock()
	l.onChange = fn
	l.mu.Unlock()
}

// LoadBase fetches the unconditioned value list for every facet, once.
// Failures degrade to an empty baseline per facet and are never surfaced.
func (l *Loader) LoadBase(ctx context.Context) {
	l.mu.Lock()
	if l.baseLoaded {
		l.mu.Unlock()
		return
	}
	l.baseLoaded = true
	l.mu.Unlock()

	loaded := l.loadAll(ctx, nil)

	l.mu.Lock()
	l.base = loaded
	notify := l.onChange
	merged := l.mergedLocked()
	l.mu.Unlock()
	if notify != nil {
		notify(merged)
	}
}

// FilterChanged inspects the new state and, when a driving key changed,
// schedules a narrowed reload after the coalesce window.
func (l *Loader) FilterChanged(ctx context.Context, state types.FilterState) {
	var driving [5]string
	for i, key := range drivingKeys {
		driving[i] = state.GetString(key)
	}

	l.mu.Lock()
	if l.hasDriving && driving == l.driving {
		l.mu.Unlock()
		return
	}
	if !l.hasDriving && driving == ([5]string{}) {
		// nothing to narrow yet; the base load already covers this
		l.driving = driving
		l.hasDriving = true
		l.mu.Unlock()
		return
	}
	l.driving = driving
	l.hasDriving = true
	if l.timer != nil {
		l.timer.Stop()
	}
	l.timer = time.AfterFunc(l.coalesce, func() { l.loadNarrowed(ctx, driving) })
	l.mu.Unlock()
}

func (l *Loader) loadNarrowed(ctx context.Context, driving [5]string) {
	l.mu.Lock()
	if driving != l.driving {
		// a newer trigger is pending
		l.mu.Unlock()
		return
	}
	l.generation++
	gen := l.generation
	l.mu.Unlock()

	loaded := l.loadAll(ctx, narrowingQuery(driving))

	l.mu.Lock()
	if gen != l.generation {
		l.mu.Unlock()
		return
	}
	l.narrowed = loaded
	notify := l.onChange
	merged := l.mergedLocked()
	l.mu.Unlock()
	if notify != nil {
		notify(merged)
	}
}

// narrowingQuery builds the condition shared by all facet columns: every
// non-empty vehicle field as a partial fitment containment, plus brand.
func narrowingQuery(driving [5]string) *catalog.Query {
	q := &catalog.Query{}
	fitment := catalog.FitmentPredicate{
		Year:  driving[0],
		Make:  driving[1],
		Model: driving[2],
		Trim:  driving[3],
	}
	if fitment != (catalog.FitmentPredicate{}) {
		q.Fitment = &fitment
	}
	if driving[4] != "" {
		q.Strings = append(q.Strings, catalog.StringPredicate{Column: catalog.ColBrand, Values: []string{driving[4]}})
	}
	if q.Fitment == nil && len(q.Strings) == 0 {
		return nil
	}
	return q
}

func (l *Loader) loadAll(ctx context.Context, q *catalog.Query) Options {
	result := make(Options)
	for _, field := range types.FacetFields() {
		// a facet must not be narrowed by its own selection
		values, err := l.repo.DistinctValues(ctx, field.Column, q.WithoutColumn(field.Column))
		if err != nil {
			log.Printf("facet load failed for %s: %v", field.Facet, err)
			result[field.Facet] = []Option{}
			continue
		}
		options := make([]Option, 0, len(values))
		for _, v := range values {
			options = append(options, Option{Value: v, Label: v})
		}
		SortOptions(options)
		result[field.Facet] = options
	}
	return result
}

// Options returns the displayable view: the narrowed list per facet, or
// the base list when narrowing produced nothing (an empty narrowing means
// "no information yet", not "nothing matches").
func (l *Loader) Options() Options {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mergedLocked()
}

func (l *Loader) mergedLocked() Options {
	merged := make(Options, len(l.base))
	for _, field := range types.FacetFields() {
		if narrowed, ok := l.narrowed[field.Facet]; ok && len(narrowed) > 0 {
			merged[field.Facet] = narrowed
			continue
		}
		merged[field.Facet] = l.base[field.Facet]
	}
	return merged
}

// Stop cancels any pending narrowed trigger.
func (l *Loader) Stop() {
	l.mu.Lock()
	if l.timer != nil {
		l.timer.Stop()
	}
	l.mu.Unlock()
}
