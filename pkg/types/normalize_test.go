package types

import (
	"testing"
)

func TestNormalizeBool(t *testing.T) {
	cases := []struct {
		in   any
		want bool
	}{
		{true, true},
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{" Yes ", true},
		{"false", false},
		{"0", false},
		{"", false},
		{nil, false},
		{42, false},
		{float64(1), true},
	}
	for _, c := range cases {
		got := Normalize(KeyOnSale, c.in)
		if got != c.want {
			t.Errorf("Normalize(on_sale, %v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestNormalizeSet(t *testing.T) {
	got := Normalize(KeyCategory, "wheels, tires,,wheels , ").([]string)
	if len(got) != 2 || got[0] != "wheels" || got[1] != "tires" {
		t.Errorf("expected [wheels tires], got %v", got)
	}

	got = Normalize(KeyCategory, []any{"a", " b ", "", 7}).([]string)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("expected [a b], got %v", got)
	}

	got = Normalize(KeyCategory, 99).([]string)
	if len(got) != 0 {
		t.Errorf("expected empty set for non-string input, got %v", got)
	}
}

func TestNormalizeScalar(t *testing.T) {
	if got := Normalize(KeyBrand, nil); got != "" {
		t.Errorf("nil scalar should default to empty, got %q", got)
	}
	if got := Normalize(KeyVehicleYear, float64(2022)); got != "2022" {
		t.Errorf("numeric year should stringify without decimals, got %q", got)
	}
	if got := Normalize(KeyBrand, "Ford"); got != "Ford" {
		t.Errorf("expected Ford, got %q", got)
	}
}

func TestNormalizeUnknownKey(t *testing.T) {
	if got := Normalize("bogus", "x"); got != nil {
		t.Errorf("unknown key should normalize to nil, got %v", got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := map[string]any{
		KeyOnSale:       "yes",
		KeyCategory:     "wheels,tires",
		KeyBrand:        "Ford",
		KeyFitmentRange: map[string]any{"min": 2.5, "max": 4.0},
	}
	for key, raw := range inputs {
		once := Normalize(key, raw)
		twice := Normalize(key, once)
		field, _ := FieldFor(key)
		if !ValueEqual(field.Kind, once, twice) {
			t.Errorf("normalize not idempotent for %s: %v != %v", key, once, twice)
		}
	}
}

func TestBuildFromOverrides(t *testing.T) {
	state := BuildFromOverrides(map[string]any{
		KeyBrand:    "Toyota",
		KeyCategory: "wheels",
		"unknown":   "dropped",
	})
	if state.GetString(KeyBrand) != "Toyota" {
		t.Errorf("expected brand Toyota, got %q", state.GetString(KeyBrand))
	}
	if set := state.GetSet(KeyCategory); len(set) != 1 || set[0] != "wheels" {
		t.Errorf("expected category [wheels], got %v", set)
	}
	if _, ok := state["unknown"]; ok {
		t.Errorf("unknown key should be dropped")
	}
	if state.GetString(KeySearch) != "" {
		t.Errorf("missing keys should get defaults")
	}
}

func TestHaveChanged(t *testing.T) {
	a := NewFilterState()
	b := NewFilterState()
	if HaveChanged(a, b) {
		t.Errorf("identical defaults should not differ")
	}
	b[KeyTags] = []string{"mud"}
	if !HaveChanged(a, b) {
		t.Errorf("set member should register as change")
	}
}

func TestVehicleComplete(t *testing.T) {
	state := NewFilterState()
	state[KeyVehicleYear] = "2022"
	state[KeyVehicleMake] = "Ford"
	state[KeyVehicleModel] = "F-150"
	if state.VehicleComplete() {
		t.Errorf("three of four fields is not complete")
	}
	state[KeyVehicleTrim] = "XLT"
	if !state.VehicleComplete() {
		t.Errorf("all four fields should be complete")
	}
}

func TestCloneIsolatesSets(t *testing.T) {
	state := NewFilterState()
	state[KeyTags] = []string{"mud", "snow"}
	clone := state.Clone()
	clone.GetSet(KeyTags)[0] = "changed"
	if state.GetSet(KeyTags)[0] != "mud" {
		t.Errorf("clone should not share set backing arrays")
	}
}
