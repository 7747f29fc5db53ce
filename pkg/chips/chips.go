// Package chips derives the removable "active filter" tokens from the
// filter state. Derivation is pure; removal routes back through the store
// using the chip's key (and value for set members), so removing a chip and
// mutating the filter directly are the same operation.
package chips

import (
	"fmt"

	"github.com/matst80/part-finder/pkg/types"
)

// Derive maps the state to its chip list, in schema order.
func Derive(state types.FilterState) []types.Chip {
	result := make([]types.Chip, 0, 8)
	priceEmitted := false

	for _, field := range types.FilterFields {
		switch field.Key {
		case types.KeyFitmentLabel, types.KeyFitmentRange:
			// display-only support data for the fitment_preference chip
			continue
		case types.KeyPriceMin, types.KeyPriceMax:
			if priceEmitted {
				continue
			}
			if chip, ok := priceChip(state); ok {
				result = append(result, chip)
			}
			priceEmitted = true
			continue
		case types.KeyFitmentPref:
			if id := state.GetString(field.Key); id != "" {
				label := state.GetString(types.KeyFitmentLabel)
				if label == "" {
					label = id
				}
				result = append(result, types.Chip{Key: field.Key, Value: id, Label: label})
			}
			continue
		}

		switch field.Kind {
		case types.KindBool:
			if state.GetBool(field.Key) {
				result = append(result, types.Chip{Key: field.Key, Value: "true", Label: "Yes"})
			}
		case types.KindSet:
			for _, member := range state.GetSet(field.Key) {
				result = append(result, types.Chip{Key: field.Key, Value: member, Label: member})
			}
		case types.KindScalar:
			if v := state.GetString(field.Key); v != "" {
				result = append(result, types.Chip{Key: field.Key, Value: v, Label: v})
			}
		}
	}
	return result
}

// priceChip folds the two bounds into the single synthetic price chip; the
// raw keys never produce chips of their own.
func priceChip(state types.FilterState) (types.Chip, bool) {
	min := state.GetString(types.KeyPriceMin)
	max := state.GetString(types.KeyPriceMax)
	if min == "" && max == "" {
		return types.Chip{}, false
	}
	return types.Chip{
		Key:   types.CompositeKeyPrice,
		Value: types.CompositeKeyPrice,
		Label: fmt.Sprintf("%s - %s", priceBound(min), priceBound(max)),
	}, true
}

func priceBound(v string) string {
	if v == "" {
		return "Any"
	}
	return "$" + v
}
