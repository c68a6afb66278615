// Package eligibility decides which categories a participant may register
// boats in, from profile gender and age-on-date against division name rules.
package eligibility

import (
	"regexp"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/regatta-hub/internal/clock"
	"github.com/yourusername/regatta-hub/internal/models"
)

var (
	underAgePattern = regexp.MustCompile(`^U(19|21|23)\b`)
	juniorPattern   = regexp.MustCompile(`^Junior\s+(\d+)\b`)
	mastersPattern  = regexp.MustCompile(`^Masters(?:\s+([A-K]))?\b`)
)

// Checker evaluates category eligibility against an injected clock.
type Checker struct {
	clock  clock.Clock
	logger *logrus.Logger
}

// NewChecker creates a checker. A nil clock falls back to the system clock.
func NewChecker(clk clock.Clock, logger *logrus.Logger) *Checker {
	if clk == nil {
		clk = clock.System{}
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Checker{clock: clk, logger: logger}
}

// IsEligible reports whether the participant may enter the category, as of
// the clock's today. Unparseable labels are never eligible.
func (c *Checker) IsEligible(p *models.Participant, label string) bool {
	return c.EligibleOn(p, label, c.clock.Today())
}

// EligibleOn is IsEligible with an explicit evaluation date. Signup always
// evaluates as of today, not the event date.
func (c *Checker) EligibleOn(p *models.Participant, label string, date time.Time) bool {
	category, ok := models.ParseCategory(label)
	if !ok {
		return false
	}

	if !genderAllowed(category.Gender, p.Gender) {
		return false
	}

	// Mixed never filters on gender, but every age-gated division still
	// needs a date of birth.
	age, ok := p.AgeOn(date)
	if !ok {
		return false
	}

	return divisionAllows(category.Division, age)
}

// genderAllowed applies the category gender gate. Mixed accepts anyone,
// including profiles with no gender set.
func genderAllowed(categoryGender models.Gender, profile models.ParticipantGender) bool {
	switch categoryGender {
	case models.GenderMen:
		return profile == models.ParticipantMale
	case models.GenderWomen:
		return profile == models.ParticipantFemale
	case models.GenderMixed:
		return true
	default:
		return false
	}
}

// divisionAllows applies the division age rule. Rule order matters: U-age
// first, then Junior (decisive once matched), then Masters bands, then no
// restriction.
func divisionAllows(division string, age int) bool {
	if m := underAgePattern.FindStringSubmatch(division); m != nil {
		limit, _ := strconv.Atoi(m[1])
		return age < limit
	}

	if m := juniorPattern.FindStringSubmatch(division); m != nil {
		limit, err := strconv.Atoi(m[1])
		if err != nil {
			return false
		}
		return age < limit
	}

	if m := mastersPattern.FindStringSubmatch(division); m != nil {
		letter := m[1]
		if letter == "" {
			return age >= models.MastersMinimumAge
		}
		band, ok := models.MastersBands[letter]
		if !ok {
			return false
		}
		if age < band.Min {
			return false
		}
		return band.Max < 0 || age <= band.Max
	}

	// Senior, Para and anything else carry no age rule.
	return true
}

// ListEligibleCategories filters the event's enabled categories down to the
// ones the participant qualifies for. Labels that fail to parse are dropped
// without error; a stale label in an event is not the participant's problem.
func (c *Checker) ListEligibleCategories(event *models.Event, p *models.Participant) []models.Category {
	today := c.clock.Today()

	var eligible []models.Category
	for _, label := range event.Categories {
		category, ok := models.ParseCategory(label)
		if !ok {
			c.logger.WithFields(logrus.Fields{
				"event_id": event.ID,
				"label":    label,
			}).Warn("Skipping unparseable category label")
			continue
		}
		if c.EligibleOn(p, label, today) {
			eligible = append(eligible, category)
		}
	}
	return eligible
}
