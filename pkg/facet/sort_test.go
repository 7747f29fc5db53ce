package facet

import "testing"

func TestNaturalLess(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"9", "17", true},
		{"17", "9", false},
		{"2", "2", false},
		{"15x8", "15x10", true},
		{"33", "35x12.50R17", true},
		{"alpha", "beta", true},
		{"wheel 9", "wheel 17", true},
		{"02", "3", true},
		{"", "a", true},
	}
	for _, c := range cases {
		if got := naturalLess(c.a, c.b); got != c.want {
			t.Errorf("naturalLess(%q, %q) = %v, want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestSortOptions(t *testing.T) {
	options := []Option{
		{Value: "20", Label: "20"},
		{Value: "9", Label: "9"},
		{Value: "17", Label: "17"},
	}
	SortOptions(options)
	if options[0].Label != "9" || options[1].Label != "17" || options[2].Label != "20" {
		t.Errorf("expected numeric-aware order 9,17,20 got %v", options)
	}
}
