package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrewSizeTable(t *testing.T) {
	tests := []struct {
		class BoatClass
		size  int
	}{
		{BoatClassSingle, 1},
		{BoatClassDouble, 2},
		{BoatClassPair, 2},
		{BoatClassQuad, 4},
	}

	for _, tt := range tests {
		t.Run(string(tt.class), func(t *testing.T) {
			size, err := tt.class.CrewSize()
			require.NoError(t, err)
			assert.Equal(t, tt.size, size)
		})
	}
}

func TestCrewSizeUnknownClass(t *testing.T) {
	for _, class := range []BoatClass{"8+", "1X", "", "4x"} {
		_, err := class.CrewSize()
		assert.True(t, errors.Is(err, ErrUnknownBoatClass), "class %q should be rejected", class)
	}
}

func TestParseCategoryRoundTrip(t *testing.T) {
	c := Category{Gender: GenderWomen, Division: "Masters C 70kgs", BoatClass: BoatClassDouble}

	parsed, ok := ParseCategory(c.Label())
	require.True(t, ok)
	assert.Equal(t, c, parsed)
}

func TestParseCategoryMalformed(t *testing.T) {
	labels := []string{
		"",
		"Men",
		"Men • Senior",
		"Men • Senior • 1x • extra",
		"Men - Senior - 1x",
	}

	for _, label := range labels {
		_, ok := ParseCategory(label)
		assert.False(t, ok, "label %q should not parse", label)
	}
}

func TestParseCategoryTrimsWhitespace(t *testing.T) {
	parsed, ok := ParseCategory("  Men •  Senior  • 1x ")
	require.True(t, ok)
	assert.Equal(t, Category{Gender: GenderMen, Division: "Senior", BoatClass: BoatClassSingle}, parsed)
}

func TestNormalizeCategoryLabel(t *testing.T) {
	assert.Equal(t, "a", NormalizeCategoryLabel("a", "b", "c"))
	assert.Equal(t, "b", NormalizeCategoryLabel("", "b", "c"))
	assert.Equal(t, "c", NormalizeCategoryLabel("", "", "c"))
	assert.Equal(t, "", NormalizeCategoryLabel("", "", ""))
}

func TestBoatElapsed(t *testing.T) {
	start := int64(1_000_000)
	finish := int64(1_090_000)

	boat := &Boat{StartedAt: &start, FinishedAt: &finish}
	elapsed, err := boat.ElapsedMs()
	require.NoError(t, err)
	assert.Equal(t, int64(90_000), elapsed)

	bad := &Boat{StartedAt: &finish, FinishedAt: &start}
	_, err = bad.ElapsedMs()
	assert.True(t, errors.Is(err, ErrDataIntegrity))

	racing := &Boat{StartedAt: &start}
	_, err = racing.ElapsedMs()
	assert.True(t, errors.Is(err, ErrNotFinished))
}

func TestParticipantAgeOn(t *testing.T) {
	dob := time.Date(2007, time.June, 15, 0, 0, 0, 0, time.UTC)
	p := &Participant{DateOfBirth: &dob}

	dayBefore, ok := p.AgeOn(time.Date(2026, time.June, 14, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, 18, dayBefore)

	birthday, _ := p.AgeOn(time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 19, birthday)

	noDOB := &Participant{}
	_, ok = noDOB.AgeOn(time.Now())
	assert.False(t, ok)
}
