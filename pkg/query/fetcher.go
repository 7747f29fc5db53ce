package query

import (
	"context"
	"log"
	"sync"

	"github.com/matst80/part-finder/pkg/catalog"
	"github.com/matst80/part-finder/pkg/types"
)

// Result is a snapshot of the accumulated fetch state for the UI surface.
// Error is distinct from an empty result: "0 products match" and "we could
// not reach the catalog" render differently.
type Result struct {
	Items   []catalog.Product `json:"items"`
	Total   int               `json:"total"`
	Page    int               `json:"page"`
	HasMore bool              `json:"hasMore"`
	Loading bool              `json:"loading"`
	Error   string            `json:"error,omitempty"`
}

// Fetcher executes paginated queries against the repository and accumulates
// results across pages. Every fetch runs under a generation captured at
// start; a resolution whose generation no longer matches is dropped whole,
// so a slow stale response can never overwrite a newer state's result.
type Fetcher struct {
	mu         sync.Mutex
	repo       catalog.Repository
	pageSize   int
	generation uint64
	inFlight   bool
	page       int
	items      []catalog.Product
	total      int
	hasMore    bool
	loading    bool
	errText    string
	onChange   func(Result)
}

const DefaultPageSize = 12

func NewFetcher(repo catalog.Repository, pageSize int) *Fetcher {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Fetcher{
		repo:     repo,
		pageSize: pageSize,
		items:    []catalog.Product{},
	}
}

// OnChange registers the snapshot listener. Called outside the lock after
// every applied fetch resolution.
func (f *Fetcher) OnChange(fn func(Result)) {
	f.mu.Lock()
	f.onChange = fn
	f.mu.Unlock()
}

func (f *Fetcher) Result() Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *Fetcher) snapshotLocked() Result {
	items := make([]catalog.Product, len(f.items))
	copy(items, f.items)
	return Result{
		Items:   items,
		Total:   f.total,
		Page:    f.page,
		HasMore: f.hasMore,
		Loading: f.loading,
		Error:   f.errText,
	}
}

// Refresh starts a page-1 fetch for the given state, superseding any fetch
// still in flight.
func (f *Fetcher) Refresh(ctx context.Context, state types.FilterState) {
	q := Build(state)
	f.mu.Lock()
	f.generation++
	gen := f.generation
	f.page = 1
	f.inFlight = true
	f.loading = true
	f.errText = ""
	f.mu.Unlock()
	go f.fetch(ctx, gen, q, 1)
}

// NextPage advances one page for the given state. No-op while a fetch is in
// flight or when the last response said there is nothing more, which makes
// rapid repeated calls idempotent.
func (f *Fetcher) NextPage(ctx context.Context, state types.FilterState) bool {
	f.mu.Lock()
	if f.inFlight || !f.hasMore {
		f.mu.Unlock()
		return false
	}
	gen := f.generation
	page := f.page + 1
	f.inFlight = true
	f.loading = true
	f.mu.Unlock()
	go f.fetch(ctx, gen, Build(state), page)
	return true
}

func (f *Fetcher) fetch(ctx context.Context, gen uint64, q *catalog.Query, page int) {
	result, err := f.repo.Query(ctx, q, page, f.pageSize)

	f.mu.Lock()
	if gen != f.generation {
		// superseded by a newer state, drop the whole resolution
		f.mu.Unlock()
		return
	}
	f.inFlight = false
	f.loading = false
	if err != nil {
		log.Printf("page fetch failed (page %d): %v", page, err)
		f.errText = err.Error()
		if page == 1 {
			f.items = []catalog.Product{}
			f.total = 0
			f.hasMore = false
		}
		notify := f.onChange
		snapshot := f.snapshotLocked()
		f.mu.Unlock()
		if notify != nil {
			notify(snapshot)
		}
		return
	}

	f.errText = ""
	f.page = page
	f.total = result.Total
	if page == 1 {
		f.items = result.Items
	} else {
		f.items = append(f.items, result.Items...)
	}
	from := (page - 1) * f.pageSize
	f.hasMore = len(result.Items) == f.pageSize && from+len(result.Items) < result.Total
	notify := f.onChange
	snapshot := f.snapshotLocked()
	f.mu.Unlock()
	if notify != nil {
		notify(snapshot)
	}
}
