package types

// FilterState is the canonical "what is the shopper asking for" record.
// Every schema key is always present with a value of its kind; mutation
// goes through the filter store, never directly.
type FilterState map[string]any

// NewFilterState returns a state with every key at its default.
func NewFilterState() FilterState {
	state := make(FilterState, len(FilterFields))
	for _, f := range FilterFields {
		state[f.Key] = DefaultValue(f.Kind)
	}
	return state
}

// BuildFromOverrides fills a full state from a partial override map.
// Unknown keys are dropped, known values are normalized, missing keys get
// their defaults.
func BuildFromOverrides(partial map[string]any) FilterState {
	state := NewFilterState()
	for key, raw := range partial {
		if _, ok := FieldFor(key); !ok {
			continue
		}
		state[key] = Normalize(key, raw)
	}
	return state
}

// HaveChanged reports whether two states differ on any schema key.
func HaveChanged(a, b FilterState) bool {
	for _, f := range FilterFields {
		if !ValueEqual(f.Kind, a[f.Key], b[f.Key]) {
			return true
		}
	}
	return false
}

func (s FilterState) Clone() FilterState {
	next := make(FilterState, len(s))
	for key, value := range s {
		if set, ok := value.([]string); ok {
			copied := make([]string, len(set))
			copy(copied, set)
			next[key] = copied
			continue
		}
		next[key] = value
	}
	return next
}

func (s FilterState) GetString(key string) string {
	v, _ := s[key].(string)
	return v
}

func (s FilterState) GetBool(key string) bool {
	v, _ := s[key].(bool)
	return v
}

func (s FilterState) GetSet(key string) []string {
	v, _ := s[key].([]string)
	return v
}

func (s FilterState) GetRange(key string) *PreferenceRange {
	v, _ := s[key].(*PreferenceRange)
	return v
}

// VehicleComplete reports whether all four vehicle fields are selected.
// A partial vehicle must never narrow the result set.
func (s FilterState) VehicleComplete() bool {
	for _, key := range VehicleKeys {
		if s.GetString(key) == "" {
			return false
		}
	}
	return true
}

// IsDefault reports whether key currently holds its default value.
func (s FilterState) IsDefault(key string) bool {
	field, ok := FieldFor(key)
	if !ok {
		return true
	}
	return ValueEqual(field.Kind, s[key], DefaultValue(field.Kind))
}
