package types

// Chip is one removable "active filter" token. Key and Value route removal
// back through the store; Label is what the UI shows. Chips are derived,
// never persisted.
type Chip struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Label string `json:"label"`
}
