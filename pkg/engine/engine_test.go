package engine

import (
	"testing"
	"time"

	"github.com/matst80/part-finder/pkg/catalog"
	"github.com/matst80/part-finder/pkg/clientstate"
	"github.com/matst80/part-finder/pkg/location"
	"github.com/matst80/part-finder/pkg/query"
	"github.com/matst80/part-finder/pkg/types"
	"github.com/matst80/part-finder/pkg/vehicle"
)

func fixtureRepo() *catalog.MemoryRepository {
	repo := catalog.NewMemoryRepository()
	repo.UpsertProducts(
		catalog.Product{Id: 1, Sku: "WH-1", Title: "Alpha Wheel", Category: "wheels", Brand: "Moto Metal", Price: 250},
		catalog.Product{Id: 2, Sku: "TI-1", Title: "Beta Tire", Category: "tires", Brand: "Nitto", Price: 180},
		catalog.Product{Id: 3, Sku: "WH-2", Title: "Gamma Wheel", Category: "wheels", Brand: "Fuel", Price: 420},
	)
	return repo
}

func newEngine(t *testing.T) (*Engine, chan query.Result) {
	t.Helper()
	e := New(fixtureRepo(), clientstate.NewMemoryStorage(), location.NewMemoryLocation(""), Config{
		SearchDebounce: 20 * time.Millisecond,
		FacetCoalesce:  10 * time.Millisecond,
	})
	t.Cleanup(e.Close)
	results := make(chan query.Result, 16)
	e.OnResult(func(r query.Result) { results <- r })
	return e, results
}

func waitResult(t *testing.T, ch chan query.Result) query.Result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a fetch result")
		return query.Result{}
	}
}

func TestFilterChangeFetchesPageOne(t *testing.T) {
	e, results := newEngine(t)
	e.Hydrate()
	waitResult(t, results) // hydration fetch

	e.SetFilter(types.KeyCategory, "wheels")

	r := waitResult(t, results)
	if r.Total != 2 || len(r.Items) != 2 {
		t.Errorf("expected the two wheels, got total=%d items=%d", r.Total, len(r.Items))
	}
	if r.HasMore {
		t.Error("two items on a twelve-item page cannot have more")
	}
}

func TestChipsFollowState(t *testing.T) {
	e, results := newEngine(t)
	e.Hydrate()
	waitResult(t, results)

	e.SetFilter(types.KeyCategory, "wheels")
	waitResult(t, results)
	e.SetFilter(types.KeyPriceMin, "100")
	waitResult(t, results)
	e.SetFilter(types.KeyPriceMax, "300")
	waitResult(t, results)

	got := e.Chips()
	if len(got) != 2 {
		t.Fatalf("expected category and price chips, got %v", got)
	}
	if got[1].Key != types.CompositeKeyPrice || got[1].Label != "$100 - $300" {
		t.Errorf("unexpected price chip %v", got[1])
	}

	r := e.Result()
	if r.Total != 1 || r.Items[0].Sku != "WH-1" {
		t.Errorf("expected only the $250 wheel, got %v", r.Items)
	}
}

func TestSearchDraftDebounces(t *testing.T) {
	e, results := newEngine(t)
	e.Hydrate()
	waitResult(t, results)

	e.SetSearchDraft("g")
	e.SetSearchDraft("ga")
	e.SetSearchDraft("gamma")

	if got := e.State().GetString(types.KeySearch); got != "" {
		t.Errorf("draft committed before the quiescence window: %q", got)
	}

	r := waitResult(t, results)
	if r.Total != 1 || r.Items[0].Title != "Gamma Wheel" {
		t.Errorf("expected the debounced search result, got %v", r.Items)
	}
	if got := e.State().GetString(types.KeySearch); got != "gamma" {
		t.Errorf("expected only the final draft committed, got %q", got)
	}
}

func TestVehicleRoundTrip(t *testing.T) {
	e, results := newEngine(t)
	e.Hydrate()
	waitResult(t, results)

	e.ApplyVehicle(vehicle.Selection{Year: "2022", Make: "Ford", Model: "F-150", Trim: "XLT"})
	waitResult(t, results)

	if sel := e.Vehicle(); !sel.Complete() {
		t.Errorf("expected a complete selection, got %+v", sel)
	}
	e.ClearVehicle()
	waitResult(t, results)
	if sel := e.Vehicle(); !sel.Empty() {
		t.Errorf("expected an empty selection, got %+v", sel)
	}
}

func TestNoOpDoesNotRefetch(t *testing.T) {
	e, results := newEngine(t)
	e.Hydrate()
	waitResult(t, results)

	e.SetFilter(types.KeyCategory, "wheels")
	waitResult(t, results)

	if e.SetFilter(types.KeyCategory, "wheels") {
		t.Error("identical value must be a no-op")
	}
	select {
	case r := <-results:
		t.Errorf("no-op triggered a fetch: %v", r)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestFacetOptionsAvailableAfterHydrate(t *testing.T) {
	e, results := newEngine(t)
	e.Hydrate()
	waitResult(t, results)

	deadline := time.After(2 * time.Second)
	for {
		if opts := e.FacetOptions(); len(opts["brands"]) == 3 {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("base facet options never arrived: %v", e.FacetOptions())
		case <-time.After(10 * time.Millisecond):
		}
	}
}
