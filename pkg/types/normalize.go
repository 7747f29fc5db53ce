package types

import (
	"fmt"
	"strings"
)

// DefaultValue returns the zero selection for a field kind.
func DefaultValue(kind FieldKind) any {
	switch kind {
	case KindBool:
		return false
	case KindSet:
		return []string{}
	case KindDerived:
		return (*PreferenceRange)(nil)
	default:
		return ""
	}
}

// Normalize coerces arbitrary external input (URL params, stored JSON,
// request bodies) into the canonical value for key. It is total: anything
// that does not fit the field kind degrades to the kind's default. Unknown
// keys return nil; callers are expected to check the schema first.
func Normalize(key string, raw any) any {
	field, ok := FieldFor(key)
	if !ok {
		return nil
	}
	switch field.Kind {
	case KindBool:
		return normalizeBool(raw)
	case KindSet:
		return normalizeSet(raw)
	case KindDerived:
		return normalizeRange(raw)
	default:
		return normalizeScalar(raw)
	}
}

func normalizeBool(raw any) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes":
			return true
		}
	case float64:
		return v == 1
	case int:
		return v == 1
	}
	return false
}

func normalizeSet(raw any) []string {
	switch v := raw.(type) {
	case []string:
		return cleanSet(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				parts = append(parts, s)
			}
		}
		return cleanSet(parts)
	case string:
		return cleanSet(strings.Split(v, ","))
	}
	return []string{}
}

func cleanSet(parts []string) []string {
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		found := false
		for _, existing := range result {
			if existing == p {
				found = true
				break
			}
		}
		if !found {
			result = append(result, p)
		}
	}
	return result
}

func normalizeScalar(raw any) string {
	if raw == nil {
		return ""
	}
	switch v := raw.(type) {
	case string:
		return v
	case float64:
		// JSON numbers decode as float64, keep integers readable
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func normalizeRange(raw any) *PreferenceRange {
	switch v := raw.(type) {
	case *PreferenceRange:
		return v
	case PreferenceRange:
		return &v
	case map[string]any:
		r := &PreferenceRange{}
		if m, ok := v["min"].(float64); ok {
			r.Min = m
		}
		if m, ok := v["max"].(float64); ok {
			r.Max = m
		}
		return r
	}
	return nil
}

// ValueEqual is the kind-aware comparison used to detect semantic changes.
// Sets compare element-wise; construction order is deterministic from the
// input so position-wise equality is sufficient.
func ValueEqual(kind FieldKind, a, b any) bool {
	switch kind {
	case KindBool:
		ab, _ := a.(bool)
		bb, _ := b.(bool)
		return ab == bb
	case KindSet:
		as, _ := a.([]string)
		bs, _ := b.([]string)
		if len(as) != len(bs) {
			return false
		}
		for i := range as {
			if as[i] != bs[i] {
				return false
			}
		}
		return true
	case KindDerived:
		ar, _ := a.(*PreferenceRange)
		br, _ := b.(*PreferenceRange)
		return ar.Equals(br)
	default:
		astr, _ := a.(string)
		bstr, _ := b.(string)
		return astr == bstr
	}
}
