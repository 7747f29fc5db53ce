package query

import (
	"math"
	"strconv"
	"strings"

	"github.com/matst80/part-finder/pkg/catalog"
	"github.com/matst80/part-finder/pkg/types"
)

// Build translates the filter state into the repository predicate set.
// Every rule is applied independently; the repository ANDs them.
func Build(state types.FilterState) *catalog.Query {
	q := &catalog.Query{}

	if text := strings.TrimSpace(state.GetString(types.KeySearch)); text != "" {
		q.Search = text
	}

	addPriceRange(q, state)

	if brand := state.GetString(types.KeyBrand); brand != "" {
		q.Strings = append(q.Strings, catalog.StringPredicate{Column: catalog.ColBrand, Values: []string{brand}})
	}
	if set := state.GetSet(types.KeyCategory); len(set) > 0 {
		q.Strings = append(q.Strings, catalog.StringPredicate{Column: catalog.ColCategory, Values: set})
	}
	if set := state.GetSet(types.KeyTags); len(set) > 0 {
		q.Strings = append(q.Strings, catalog.StringPredicate{Column: catalog.ColTags, Values: set})
	}
	if size := state.GetString(types.KeyTireSize); size != "" {
		q.Strings = append(q.Strings, catalog.StringPredicate{Column: catalog.ColTireSize, Values: []string{size}})
	}

	addNumberMatch(q, catalog.ColWheelDiameter, state.GetString(types.KeyWheelDiameter))
	addNumberMatch(q, catalog.ColLiftHeight, state.GetString(types.KeyLiftHeight))

	if pref := state.GetRange(types.KeyFitmentRange); pref != nil {
		q.Ranges = append(q.Ranges, catalog.RangePredicate{
			Column: catalog.ColLiftHeight,
			Min:    pref.Min, HasMin: true,
			Max: pref.Max, HasMax: true,
		})
	}

	drivetrain := state.GetString(types.KeyDrivetrain)
	if state.VehicleComplete() {
		q.Fitment = &catalog.FitmentPredicate{
			Year:       state.GetString(types.KeyVehicleYear),
			Make:       state.GetString(types.KeyVehicleMake),
			Model:      state.GetString(types.KeyVehicleModel),
			Trim:       state.GetString(types.KeyVehicleTrim),
			Drivetrain: drivetrain,
		}
	} else if drivetrain != "" {
		// drivetrain narrows even while the vehicle pick is incomplete
		q.Strings = append(q.Strings, catalog.StringPredicate{Column: catalog.ColDrivetrain, Values: []string{drivetrain}})
	}

	for _, flag := range []struct {
		key    string
		column string
	}{
		{types.KeyOnSale, catalog.ColOnSale},
		{types.KeyFreeShipping, catalog.ColFreeShipping},
		{types.KeyComboOnly, catalog.ColComboOnly},
	} {
		if state.GetBool(flag.key) {
			q.Flags = append(q.Flags, flag.column)
		}
	}

	switch state.GetString(types.KeySortBy) {
	case "price_asc":
		q.Sort = catalog.SortPriceAsc
	case "price_desc":
		q.Sort = catalog.SortPriceDesc
	case "newest":
		q.Sort = catalog.SortNewest
	}

	return q
}

func addPriceRange(q *catalog.Query, state types.FilterState) {
	pred := catalog.RangePredicate{Column: catalog.ColPrice}
	if v, ok := parseFinite(state.GetString(types.KeyPriceMin)); ok {
		pred.Min = v
		pred.HasMin = true
	}
	if v, ok := parseFinite(state.GetString(types.KeyPriceMax)); ok {
		pred.Max = v
		pred.HasMax = true
	}
	if pred.HasMin || pred.HasMax {
		q.Ranges = append(q.Ranges, pred)
	}
}

// addNumberMatch handles the exact-or-"X and above" filter format, where a
// trailing '+' on the stored value means at-least.
func addNumberMatch(q *catalog.Query, column string, raw string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return
	}
	andAbove := strings.HasSuffix(raw, "+")
	value, ok := parseFinite(strings.TrimSuffix(raw, "+"))
	if !ok {
		return
	}
	q.Numbers = append(q.Numbers, catalog.NumberPredicate{Column: column, Value: value, AndAbove: andAbove})
}

func parseFinite(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
