package query

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/matst80/part-finder/pkg/catalog"
	"github.com/matst80/part-finder/pkg/types"
)

// gateRepo blocks every Query call until the test resolves it, so fetch
// ordering is fully controlled.
type gateRepo struct {
	calls chan *gatedCall
}

type gatedCall struct {
	q       *catalog.Query
	page    int
	resolve chan gatedResult
}

type gatedResult struct {
	page *catalog.Page
	err  error
}

func newGateRepo() *gateRepo {
	return &gateRepo{calls: make(chan *gatedCall, 8)}
}

func (r *gateRepo) Query(ctx context.Context, q *catalog.Query, page int, pageSize int) (*catalog.Page, error) {
	call := &gatedCall{q: q, page: page, resolve: make(chan gatedResult, 1)}
	r.calls <- call
	result := <-call.resolve
	return result.page, result.err
}

func (r *gateRepo) DistinctValues(ctx context.Context, column string, q *catalog.Query) ([]string, error) {
	return nil, nil
}

func (r *gateRepo) next(t *testing.T) *gatedCall {
	t.Helper()
	select {
	case call := <-r.calls:
		return call
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for repository call")
		return nil
	}
}

func productsNamed(from, count int) []catalog.Product {
	items := make([]catalog.Product, count)
	for i := range items {
		items[i] = catalog.Product{Id: uint(from + i), Title: fmt.Sprintf("item %03d", from+i)}
	}
	return items
}

func waitChange(t *testing.T, changes chan Result) Result {
	t.Helper()
	select {
	case r := <-changes:
		return r
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for fetch resolution")
		return Result{}
	}
}

func TestFetchAccumulatesPages(t *testing.T) {
	repo := newGateRepo()
	fetcher := NewFetcher(repo, 2)
	changes := make(chan Result, 8)
	fetcher.OnChange(func(r Result) { changes <- r })
	state := types.NewFilterState()

	fetcher.Refresh(context.Background(), state)
	repo.next(t).resolve <- gatedResult{page: &catalog.Page{Items: productsNamed(1, 2), Total: 3}}
	result := waitChange(t, changes)
	if len(result.Items) != 2 || result.Total != 3 || !result.HasMore {
		t.Fatalf("unexpected page 1 result: %+v", result)
	}

	if !fetcher.NextPage(context.Background(), state) {
		t.Fatalf("next page should start")
	}
	call := repo.next(t)
	if call.page != 2 {
		t.Errorf("expected page 2 request, got %d", call.page)
	}
	call.resolve <- gatedResult{page: &catalog.Page{Items: productsNamed(3, 1), Total: 3}}
	result = waitChange(t, changes)
	if len(result.Items) != 3 || result.HasMore {
		t.Errorf("expected accumulated 3 items and no more, got %+v", result)
	}
	if result.Items[0].Id != 1 || result.Items[2].Id != 3 {
		t.Errorf("page 2 must append after page 1, got %v", result.Items)
	}
}

func TestStaleResponseIsDropped(t *testing.T) {
	repo := newGateRepo()
	fetcher := NewFetcher(repo, 2)
	changes := make(chan Result, 8)
	fetcher.OnChange(func(r Result) { changes <- r })

	stateA := types.NewFilterState()
	stateA[types.KeyBrand] = "TrailForge"
	stateB := types.NewFilterState()
	stateB[types.KeyBrand] = "SkyJack"

	fetcher.Refresh(context.Background(), stateA)
	callA := repo.next(t)

	fetcher.Refresh(context.Background(), stateB)
	callB := repo.next(t)

	// B resolves first, then the stale A arrives
	callB.resolve <- gatedResult{page: &catalog.Page{Items: productsNamed(10, 1), Total: 1}}
	result := waitChange(t, changes)
	if result.Items[0].Id != 10 {
		t.Fatalf("expected B's result, got %+v", result)
	}

	callA.resolve <- gatedResult{page: &catalog.Page{Items: productsNamed(99, 2), Total: 50}}
	// stale resolution must not emit a change nor clobber state
	select {
	case r := <-changes:
		t.Fatalf("stale resolution must be discarded, got %+v", r)
	case <-time.After(100 * time.Millisecond):
	}
	final := fetcher.Result()
	if len(final.Items) != 1 || final.Items[0].Id != 10 || final.Total != 1 {
		t.Errorf("displayed state must reflect only B: %+v", final)
	}
}

func TestNextPageNoOpWhileInFlight(t *testing.T) {
	repo := newGateRepo()
	fetcher := NewFetcher(repo, 2)
	state := types.NewFilterState()

	fetcher.Refresh(context.Background(), state)
	call := repo.next(t)
	if fetcher.NextPage(context.Background(), state) {
		t.Errorf("next page must no-op while a fetch is in flight")
	}
	call.resolve <- gatedResult{page: &catalog.Page{Items: productsNamed(1, 2), Total: 10}}
}

func TestNextPageNoOpWithoutMore(t *testing.T) {
	repo := newGateRepo()
	fetcher := NewFetcher(repo, 2)
	changes := make(chan Result, 8)
	fetcher.OnChange(func(r Result) { changes <- r })
	state := types.NewFilterState()

	fetcher.Refresh(context.Background(), state)
	repo.next(t).resolve <- gatedResult{page: &catalog.Page{Items: productsNamed(1, 1), Total: 1}}
	waitChange(t, changes)

	if fetcher.NextPage(context.Background(), state) {
		t.Errorf("next page must no-op when hasMore is false")
	}
}

func TestPageOneErrorClearsResults(t *testing.T) {
	repo := newGateRepo()
	fetcher := NewFetcher(repo, 2)
	changes := make(chan Result, 8)
	fetcher.OnChange(func(r Result) { changes <- r })
	state := types.NewFilterState()

	fetcher.Refresh(context.Background(), state)
	repo.next(t).resolve <- gatedResult{page: &catalog.Page{Items: productsNamed(1, 2), Total: 4}}
	waitChange(t, changes)

	fetcher.Refresh(context.Background(), state)
	repo.next(t).resolve <- gatedResult{err: errors.New("catalog unavailable")}
	result := waitChange(t, changes)
	if result.Error == "" {
		t.Errorf("error state must be surfaced")
	}
	if len(result.Items) != 0 || result.Total != 0 {
		t.Errorf("page-1 failure must clear results, got %+v", result)
	}
}

func TestLaterPageErrorKeepsAccumulated(t *testing.T) {
	repo := newGateRepo()
	fetcher := NewFetcher(repo, 2)
	changes := make(chan Result, 8)
	fetcher.OnChange(func(r Result) { changes <- r })
	state := types.NewFilterState()

	fetcher.Refresh(context.Background(), state)
	repo.next(t).resolve <- gatedResult{page: &catalog.Page{Items: productsNamed(1, 2), Total: 4}}
	waitChange(t, changes)

	fetcher.NextPage(context.Background(), state)
	repo.next(t).resolve <- gatedResult{err: errors.New("timeout")}
	result := waitChange(t, changes)
	if result.Error == "" {
		t.Errorf("error must surface")
	}
	if len(result.Items) != 2 {
		t.Errorf("a failed later page must not drop already-loaded items, got %d", len(result.Items))
	}
}
