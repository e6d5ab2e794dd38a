package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func trialEnrollment(t0 time.Time, days int) Enrollment {
	return Enrollment{
		TrialStartDate: t0,
		TrialEndDate:   t0.AddDate(0, 0, days),
		Status:         EnrollmentStatusActive,
	}
}

func TestEnrollmentStatusAtWithinTrial(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	e := trialEnrollment(t0, 7)

	assert.Equal(t, EnrollmentStatusActive, e.StatusAt(t0.AddDate(0, 0, 6)))
}

func TestEnrollmentStatusAtAfterTrial(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	e := trialEnrollment(t0, 7)

	assert.Equal(t, EnrollmentStatusExpired, e.StatusAt(t0.AddDate(0, 0, 8)))
}

func TestEnrollmentStatusAtPaidNeverExpires(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	e := trialEnrollment(t0, 7)
	e.IsPaid = true

	assert.Equal(t, EnrollmentStatusActive, e.StatusAt(t0.AddDate(0, 0, 8)))
	assert.Equal(t, EnrollmentStatusActive, e.StatusAt(t0.AddDate(1, 0, 0)))
}

func TestEnrollmentStatusAtCompletionDominatesExpiry(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	e := trialEnrollment(t0, 7)
	e.Progress = 100

	assert.Equal(t, EnrollmentStatusCompleted, e.StatusAt(t0.AddDate(0, 0, 8)))
}

func TestEnrollmentStatusAtCompletedStaysCompleted(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	e := trialEnrollment(t0, 7)
	e.Status = EnrollmentStatusCompleted

	assert.Equal(t, EnrollmentStatusCompleted, e.StatusAt(t0.AddDate(0, 0, 30)))
}

func TestEnrollmentStatusAtPaidReactivatesStoredExpiry(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	e := trialEnrollment(t0, 7)
	e.Status = EnrollmentStatusExpired
	e.IsPaid = true

	assert.Equal(t, EnrollmentStatusActive, e.StatusAt(t0.AddDate(0, 0, 20)))
}

func TestEnrollmentStatusAtBoundary(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	e := trialEnrollment(t0, 7)

	// Expiry requires now strictly after the trial end.
	assert.Equal(t, EnrollmentStatusActive, e.StatusAt(e.TrialEndDate))
	assert.Equal(t, EnrollmentStatusExpired, e.StatusAt(e.TrialEndDate.Add(time.Second)))
}
