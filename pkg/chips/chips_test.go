package chips

import (
	"testing"

	"github.com/matst80/part-finder/pkg/clientstate"
	"github.com/matst80/part-finder/pkg/filter"
	"github.com/matst80/part-finder/pkg/location"
	"github.com/matst80/part-finder/pkg/types"
)

func TestDefaultStateYieldsNoChips(t *testing.T) {
	if got := Derive(types.NewFilterState()); len(got) != 0 {
		t.Errorf("expected no chips, got %v", got)
	}
}

func TestScalarAndSetChips(t *testing.T) {
	state := types.NewFilterState()
	state[types.KeyCategory] = []string{"wheels"}
	state[types.KeyTags] = []string{"mud", "snow"}

	got := Derive(state)
	if len(got) != 3 {
		t.Fatalf("expected 3 chips, got %v", got)
	}
	if got[0].Key != types.KeyCategory || got[0].Label != "wheels" {
		t.Errorf("unexpected category chip %v", got[0])
	}
	if got[1].Key != types.KeyTags || got[1].Value != "mud" {
		t.Errorf("unexpected tag chip %v", got[1])
	}
	if got[2].Key != types.KeyTags || got[2].Value != "snow" {
		t.Errorf("unexpected tag chip %v", got[2])
	}
}

func TestBooleanChips(t *testing.T) {
	state := types.NewFilterState()
	state[types.KeyOnSale] = true
	state[types.KeyFreeShipping] = false

	got := Derive(state)
	if len(got) != 1 {
		t.Fatalf("expected one chip, got %v", got)
	}
	if got[0].Key != types.KeyOnSale || got[0].Label != "Yes" {
		t.Errorf("unexpected flag chip %v", got[0])
	}
}

func TestPriceChipFormatting(t *testing.T) {
	tests := []struct {
		min, max string
		label    string
	}{
		{"100", "300", "$100 - $300"},
		{"", "300", "Any - $300"},
		{"100", "", "$100 - Any"},
	}
	for _, tc := range tests {
		state := types.NewFilterState()
		state[types.KeyPriceMin] = tc.min
		state[types.KeyPriceMax] = tc.max
		got := Derive(state)
		if len(got) != 1 {
			t.Fatalf("min=%q max=%q: expected one chip, got %v", tc.min, tc.max, got)
		}
		if got[0].Key != types.CompositeKeyPrice || got[0].Label != tc.label {
			t.Errorf("min=%q max=%q: got %v, want label %q", tc.min, tc.max, got[0], tc.label)
		}
	}
}

func TestPreferenceChipUsesLabel(t *testing.T) {
	state := types.NewFilterState()
	state[types.KeyFitmentPref] = "trail"
	state[types.KeyFitmentLabel] = "Trail (4-6\" lift)"
	state[types.KeyFitmentRange] = &types.PreferenceRange{Min: 4, Max: 6}

	got := Derive(state)
	if len(got) != 1 {
		t.Fatalf("expected one chip, got %v", got)
	}
	if got[0].Key != types.KeyFitmentPref || got[0].Value != "trail" {
		t.Errorf("unexpected preference chip %v", got[0])
	}
	if got[0].Label != "Trail (4-6\" lift)" {
		t.Errorf("expected resolved label, got %q", got[0].Label)
	}
}

func TestPreferenceChipFallsBackToId(t *testing.T) {
	state := types.NewFilterState()
	state[types.KeyFitmentPref] = "custom"

	got := Derive(state)
	if len(got) != 1 || got[0].Label != "custom" {
		t.Errorf("expected raw id fallback, got %v", got)
	}
}

func TestExampleScenario(t *testing.T) {
	state := types.NewFilterState()
	state[types.KeyCategory] = []string{"wheels"}
	state[types.KeyPriceMin] = "100"
	state[types.KeyPriceMax] = "300"

	got := Derive(state)
	if len(got) != 2 {
		t.Fatalf("expected 2 chips, got %v", got)
	}
	if got[0].Key != types.KeyCategory || got[0].Value != "wheels" {
		t.Errorf("unexpected chip %v", got[0])
	}
	if got[1].Key != types.CompositeKeyPrice || got[1].Label != "$100 - $300" {
		t.Errorf("unexpected price chip %v", got[1])
	}
}

// Removing every derived chip through the store must land back on the
// default state.
func TestChipRemovalRoundTrip(t *testing.T) {
	store := filter.NewStore(clientstate.NewMemoryStorage(), location.NewMemoryLocation(""))
	store.Hydrate()

	store.SetFilters(map[string]any{
		types.KeyBrand:        "Moto Metal",
		types.KeyTags:         []string{"mud", "snow"},
		types.KeyPriceMin:     "100",
		types.KeyPriceMax:     "300",
		types.KeyOnSale:       true,
		types.KeyFitmentPref:  "trail",
		types.KeyVehicleYear:  "2022",
		types.KeyVehicleMake:  "Ford",
		types.KeyVehicleModel: "F-150",
		types.KeyVehicleTrim:  "XLT",
	})

	for {
		chips := Derive(store.State())
		if len(chips) == 0 {
			break
		}
		c := chips[0]
		field, ok := types.FieldFor(c.Key)
		if ok && field.Kind == types.KindSet {
			store.RemoveFilterValue(c.Key, c.Value)
		} else {
			store.RemoveFilter(c.Key)
		}
	}

	if types.HaveChanged(store.State(), types.NewFilterState()) {
		t.Errorf("expected default state after removing all chips, got %v", store.State())
	}
}
