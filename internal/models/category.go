package models

import (
	"fmt"
	"strings"
)

// Gender is the gender restriction of a category.
type Gender string

const (
	GenderMen   Gender = "Men"
	GenderWomen Gender = "Women"
	GenderMixed Gender = "Mixed"
)

// BoatClass is the crew configuration shorthand ("4x+" = four rowers + cox).
type BoatClass string

const (
	BoatClassSingle BoatClass = "1x"
	BoatClassDouble BoatClass = "2x"
	BoatClassPair   BoatClass = "2-"
	BoatClassQuad   BoatClass = "4x+"
)

var crewSizes = map[BoatClass]int{
	BoatClassSingle: 1,
	BoatClassDouble: 2,
	BoatClassPair:   2,
	BoatClassQuad:   4,
}

// CrewSize returns the number of seats for the boat class. The mapping is
// total over the four known classes; anything else is a configuration fault.
func (b BoatClass) CrewSize() (int, error) {
	size, ok := crewSizes[b]
	if !ok {
		return 0, fmt.Errorf("boat class %q: %w", b, ErrUnknownBoatClass)
	}
	return size, nil
}

// CategorySeparator joins the three category segments. It doubles as the
// parse delimiter, so gender, division and class names must never contain it.
const CategorySeparator = "•"

// Category identifies a competitive class within an event: gender, division
// and boat class. Its formatted label is both the display string and the
// storage key, so Format and ParseCategory must stay exact inverses.
type Category struct {
	Gender    Gender    `json:"gender"`
	Division  string    `json:"division"`
	BoatClass BoatClass `json:"boat_class"`
}

// Label renders the canonical "{Gender} • {Division} • {BoatClass}" form.
func (c Category) Label() string {
	return fmt.Sprintf("%s %s %s %s %s", c.Gender, CategorySeparator, c.Division, CategorySeparator, c.BoatClass)
}

// CrewSize derives the seat count from the category's boat class.
func (c Category) CrewSize() (int, error) {
	return c.BoatClass.CrewSize()
}

// ParseCategory splits a category label into its three segments. It reports
// ok=false for anything that does not have exactly three segments; callers
// must treat that as "not a category" and skip the label, never fail.
func ParseCategory(label string) (Category, bool) {
	parts := strings.Split(label, CategorySeparator)
	if len(parts) != 3 {
		return Category{}, false
	}

	return Category{
		Gender:    Gender(strings.TrimSpace(parts[0])),
		Division:  strings.TrimSpace(parts[1]),
		BoatClass: BoatClass(strings.TrimSpace(parts[2])),
	}, true
}

// NormalizeCategoryLabel resolves the historical fallback chain across the
// optional label fields stored on a boat. Older records populated only one of
// the three; this is the single place that chain is allowed to live.
func NormalizeCategoryLabel(categoryName, category, categoryID string) string {
	if categoryName != "" {
		return categoryName
	}
	if category != "" {
		return category
	}
	return categoryID
}
