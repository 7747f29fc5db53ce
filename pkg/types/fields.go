package types

type FieldKind uint8

const (
	KindScalar FieldKind = iota + 1
	KindBool
	KindSet
	KindDerived
)

// FilterField describes one key of the filter state: its kind, the product
// column it filters and, when it is user-selectable from a discrete list,
// the facet it is exposed as.
type FilterField struct {
	Key    string    `json:"key"`
	Kind   FieldKind `json:"kind"`
	Column string    `json:"column,omitempty"`
	Facet  string    `json:"facet,omitempty"`
}

const (
	KeySearch         = "search"
	KeyBrand          = "brand"
	KeyCategory       = "category"
	KeyTags           = "tags"
	KeyTireSize       = "tire_size"
	KeyWheelDiameter  = "wheel_diameter"
	KeyLiftHeight     = "lift_height"
	KeyDrivetrain     = "drivetrain"
	KeyVehicleYear    = "vehicle_year"
	KeyVehicleMake    = "vehicle_make"
	KeyVehicleModel   = "vehicle_model"
	KeyVehicleTrim    = "vehicle_trim"
	KeyPriceMin       = "price_min"
	KeyPriceMax       = "price_max"
	KeySortBy         = "sort_by"
	KeyOnSale         = "on_sale"
	KeyFreeShipping   = "free_shipping"
	KeyComboOnly      = "combo_only"
	KeyFitmentPref    = "fitment_preference"
	KeyFitmentLabel   = "fitment_preference_label"
	KeyFitmentRange   = "fitment_preference_range"
	CompositeKeyPrice = "price"
)

// Vehicle keys in cascade order, shallowest first.
var VehicleKeys = []string{KeyVehicleYear, KeyVehicleMake, KeyVehicleModel, KeyVehicleTrim}

// FilterFields is the canonical key set. Order matters: it is the
// serialization order for the query string and the chip derivation order.
var FilterFields = []FilterField{
	{Key: KeySearch, Kind: KindScalar},
	{Key: KeyBrand, Kind: KindScalar, Column: "brand", Facet: "brands"},
	{Key: KeyCategory, Kind: KindSet, Column: "category", Facet: "categories"},
	{Key: KeyTags, Kind: KindSet, Column: "tags", Facet: "tags"},
	{Key: KeyTireSize, Kind: KindScalar, Column: "tire_size", Facet: "tire_sizes"},
	{Key: KeyWheelDiameter, Kind: KindScalar, Column: "wheel_diameter", Facet: "wheel_diameters"},
	{Key: KeyLiftHeight, Kind: KindScalar, Column: "lift_height", Facet: "lift_heights"},
	{Key: KeyDrivetrain, Kind: KindScalar, Column: "drivetrain", Facet: "drivetrains"},
	{Key: KeyVehicleYear, Kind: KindScalar},
	{Key: KeyVehicleMake, Kind: KindScalar},
	{Key: KeyVehicleModel, Kind: KindScalar},
	{Key: KeyVehicleTrim, Kind: KindScalar},
	{Key: KeyPriceMin, Kind: KindScalar},
	{Key: KeyPriceMax, Kind: KindScalar},
	{Key: KeySortBy, Kind: KindScalar},
	{Key: KeyOnSale, Kind: KindBool, Column: "on_sale"},
	{Key: KeyFreeShipping, Kind: KindBool, Column: "free_shipping"},
	{Key: KeyComboOnly, Kind: KindBool, Column: "combo_only"},
	{Key: KeyFitmentPref, Kind: KindScalar},
	{Key: KeyFitmentLabel, Kind: KindScalar},
	{Key: KeyFitmentRange, Kind: KindDerived},
}

var fieldByKey = make(map[string]*FilterField, len(FilterFields))

func init() {
	for i := range FilterFields {
		fieldByKey[FilterFields[i].Key] = &FilterFields[i]
	}
}

// FieldFor resolves a filter key against the schema. Unknown keys report
// ok=false and are dropped by callers.
func FieldFor(key string) (*FilterField, bool) {
	f, ok := fieldByKey[key]
	return f, ok
}

// FacetFields returns the fields exposed as facets, in schema order.
func FacetFields() []FilterField {
	result := make([]FilterField, 0, 8)
	for _, f := range FilterFields {
		if f.Facet != "" {
			result = append(result, f)
		}
	}
	return result
}

// PreferenceRange is the derived value behind fitment_preference: a numeric
// lift-height window plus whatever label the preference lookup resolved.
type PreferenceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r *PreferenceRange) Equals(other *PreferenceRange) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.Min == other.Min && r.Max == other.Max
}
