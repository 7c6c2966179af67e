package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysSinceDonation(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	missing := &Donor{}
	assert.Equal(t, DefaultDaysSinceDonation, missing.DaysSinceDonation(now))

	twoWeeks := now.AddDate(0, 0, -14)
	recent := &Donor{LastDonation: &twoWeeks}
	assert.Equal(t, 14, recent.DaysSinceDonation(now))

	// A future timestamp clamps to zero rather than going negative.
	future := now.AddDate(0, 0, 3)
	clock := &Donor{LastDonation: &future}
	assert.Equal(t, 0, clock.DaysSinceDonation(now))
}

func TestParseUrgencyLevel(t *testing.T) {
	u, err := ParseUrgencyLevel(" Critical ")
	assert.NoError(t, err)
	assert.Equal(t, UrgencyCritical, u)
	assert.True(t, u.Urgent())

	u, err = ParseUrgencyLevel("medium")
	assert.NoError(t, err)
	assert.False(t, u.Urgent())

	_, err = ParseUrgencyLevel("severe")
	assert.Error(t, err)
}
