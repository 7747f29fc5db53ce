package catalog

import "context"

// Product columns addressable by predicates and distinct-value lookups.
const (
	ColBrand         = "brand"
	ColCategory      = "category"
	ColTags          = "tags"
	ColTireSize      = "tire_size"
	ColWheelDiameter = "wheel_diameter"
	ColLiftHeight    = "lift_height"
	ColDrivetrain    = "drivetrain"
	ColPrice         = "price"
	ColOnSale        = "on_sale"
	ColFreeShipping  = "free_shipping"
	ColComboOnly     = "combo_only"
)

// StringPredicate matches when the product's column value is one of Values,
// or for multi-valued columns when the two sets overlap.
type StringPredicate struct {
	Column string   `json:"column"`
	Values []string `json:"values"`
}

// RangePredicate is an inclusive numeric window on a column. Bounds are
// applied independently.
type RangePredicate struct {
	Column string  `json:"column"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	HasMin bool    `json:"hasMin"`
	HasMax bool    `json:"hasMax"`
}

// NumberPredicate matches a numeric column exactly, or as "value and above"
// when AndAbove is set (a stored filter value with a '+' suffix).
type NumberPredicate struct {
	Column   string  `json:"column"`
	Value    float64 `json:"value"`
	AndAbove bool    `json:"andAbove"`
}

// FitmentPredicate is the vehicle containment test: the product must carry
// a fitment record matching every non-empty field.
type FitmentPredicate struct {
	Year       string `json:"year,omitempty"`
	Make       string `json:"make,omitempty"`
	Model      string `json:"model,omitempty"`
	Trim       string `json:"trim,omitempty"`
	Drivetrain string `json:"drivetrain,omitempty"`
}

const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortNewest    = "newest"
)

// Query is the predicate vocabulary the repository accepts. All supplied
// predicates are AND-ed.
type Query struct {
	Search  string            `json:"search,omitempty"`
	Strings []StringPredicate `json:"strings,omitempty"`
	Ranges  []RangePredicate  `json:"ranges,omitempty"`
	Numbers []NumberPredicate `json:"numbers,omitempty"`
	Flags   []string          `json:"flags,omitempty"`
	Fitment *FitmentPredicate `json:"fitment,omitempty"`
	Sort    string            `json:"sort,omitempty"`
}

// WithoutColumn returns a copy of the query with every predicate on the
// given column removed. Used when loading a facet's own value list so the
// facet does not narrow itself away.
func (q *Query) WithoutColumn(column string) *Query {
	if q == nil {
		return nil
	}
	result := &Query{
		Search:  q.Search,
		Fitment: q.Fitment,
		Sort:    q.Sort,
		Flags:   q.Flags,
	}
	for _, p := range q.Strings {
		if p.Column != column {
			result.Strings = append(result.Strings, p)
		}
	}
	for _, p := range q.Ranges {
		if p.Column != column {
			result.Ranges = append(result.Ranges, p)
		}
	}
	for _, p := range q.Numbers {
		if p.Column != column {
			result.Numbers = append(result.Numbers, p)
		}
	}
	return result
}

// Repository is the product catalog boundary. Implementations must return
// a deterministic order for identical queries or pagination breaks.
type Repository interface {
	Query(ctx context.Context, q *Query, page int, pageSize int) (*Page, error)
	DistinctValues(ctx context.Context, column string, q *Query) ([]string, error)
}
