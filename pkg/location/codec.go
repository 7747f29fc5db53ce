package location

import (
	"net/url"
	"strings"

	"github.com/matst80/part-finder/pkg/types"
)

// EncodeQuery serializes a filter state to its canonical query string.
// Booleans appear only when true, sets are comma-joined and omitted when
// empty, scalars are omitted at their default; no key is ever written as
// its default. Derived keys never serialize, they are rebuilt from the
// preference id on hydration.
func EncodeQuery(state types.FilterState) string {
	var b strings.Builder
	for _, field := range types.FilterFields {
		if field.Kind == types.KindDerived || field.Key == types.KeyFitmentLabel {
			continue
		}
		var encoded string
		switch field.Kind {
		case types.KindBool:
			if state.GetBool(field.Key) {
				encoded = "true"
			}
		case types.KindSet:
			if set := state.GetSet(field.Key); len(set) > 0 {
				encoded = strings.Join(set, ",")
			}
		default:
			encoded = state.GetString(field.Key)
		}
		if encoded == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(field.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(encoded))
	}
	return b.String()
}

// DecodeQuery extracts recognized filter keys from query params into an
// override map. Unknown keys are dropped silently; values are raw and get
// normalized by the schema when applied.
func DecodeQuery(values url.Values) map[string]any {
	overrides := make(map[string]any)
	for key, list := range values {
		if _, ok := types.FieldFor(key); !ok {
			continue
		}
		if len(list) == 0 {
			continue
		}
		overrides[key] = list[0]
	}
	return overrides
}

// HasFilterKeys reports whether the params carry any recognized filter key,
// which decides hydration precedence (URL wins outright).
func HasFilterKeys(values url.Values) bool {
	for key := range values {
		if _, ok := types.FieldFor(key); ok {
			return true
		}
	}
	return false
}
