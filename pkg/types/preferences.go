package types

// Preference is one selectable fitment preference: a named lift-height
// window a shopper can pick instead of dialing in an exact height.
type Preference struct {
	Id    string  `json:"id"`
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

var Preferences = []Preference{
	{Id: "stock", Label: "Stock Height", Min: 0, Max: 0},
	{Id: "leveled", Label: "Leveled (0-2.5\")", Min: 0, Max: 2.5},
	{Id: "street", Label: "Street Lift (2.5-4\")", Min: 2.5, Max: 4},
	{Id: "trail", Label: "Trail Lift (4-6\")", Min: 4, Max: 6},
	{Id: "extreme", Label: "Extreme Lift (6\"+)", Min: 6, Max: 20},
}

// PreferenceFor resolves a preference id, ok=false when it is not a known
// preference (the raw id is then shown as-is).
func PreferenceFor(id string) (*Preference, bool) {
	for i := range Preferences {
		if Preferences[i].Id == id {
			return &Preferences[i], true
		}
	}
	return nil, false
}
