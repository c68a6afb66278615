package models

// Division is a named competitive age/weight class. Age rules are derived
// from the name pattern (U19, Junior 15, Masters C ...), not stored here.
type Division struct {
	Name        string      `json:"name" validate:"required"`
	Genders     []Gender    `json:"genders"`
	BoatClasses []BoatClass `json:"boat_classes"`
}

// AllowedGenders returns the division's gender restriction, defaulting to
// Men and Women when none is configured.
func (d Division) AllowedGenders() []Gender {
	if len(d.Genders) > 0 {
		return d.Genders
	}
	return []Gender{GenderMen, GenderWomen}
}

// MastersBand is an inclusive age range for a lettered Masters band.
type MastersBand struct {
	Min int
	Max int
}

// MastersBands maps band letters A-K to their inclusive age ranges. Band K
// has no upper bound.
var MastersBands = map[string]MastersBand{
	"A": {Min: 27, Max: 35},
	"B": {Min: 36, Max: 42},
	"C": {Min: 43, Max: 49},
	"D": {Min: 50, Max: 54},
	"E": {Min: 55, Max: 59},
	"F": {Min: 60, Max: 64},
	"G": {Min: 65, Max: 69},
	"H": {Min: 70, Max: 74},
	"I": {Min: 75, Max: 79},
	"J": {Min: 80, Max: 84},
	"K": {Min: 85, Max: -1},
}

// MastersMinimumAge applies when a Masters division carries no band letter.
const MastersMinimumAge = 27

// DefaultDivisions is the stock division table hosts start from.
var DefaultDivisions = []Division{
	{Name: "U19"},
	{Name: "U21"},
	{Name: "U23"},
	{Name: "Junior 15"},
	{Name: "Junior 16"},
	{Name: "Junior 18"},
	{Name: "Senior"},
	{Name: "Masters A 70kgs"},
	{Name: "Masters C 70kgs"},
	{Name: "Masters E"},
	{Name: "Para", Genders: []Gender{GenderMixed}},
}
