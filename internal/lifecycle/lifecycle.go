// Package lifecycle derives a tip's freshness from its last confirmation
// time. A tip expires when more than 7.0 days have elapsed; any confirmation
// resets the clock, so confirming an expired tip un-expires it.
package lifecycle

import (
	"math"
	"time"
)

const (
	// ExpirationDays is the confirmation window in days.
	ExpirationDays = 7.0
	// ExpiringSoonDays is the remaining-day threshold for the warning state.
	ExpiringSoonDays = 2
)

// Status is a tip's freshness from the confirmation-count angle.
type Status string

const (
	StatusFresh        Status = "fresh"
	StatusExpiringSoon Status = "expiring_soon"
	StatusExpired      Status = "expired"
)

// DaysSince returns elapsed days as a float, by plain timestamp subtraction
// with no calendar-aware rounding.
func DaysSince(lastConfirmedAt, now time.Time) float64 {
	return now.Sub(lastConfirmedAt).Hours() / 24
}

// IsExpired reports whether strictly more than 7.0 days (168 hours) have
// elapsed since the last confirmation. Exactly 7.0 days is not expired.
func IsExpired(lastConfirmedAt, now time.Time) bool {
	return DaysSince(lastConfirmedAt, now) > ExpirationDays
}

// DaysUntilExpiration returns max(0, 7 - floor(daysSince)); it is 0 exactly
// when the tip is expired or within its final day.
func DaysUntilExpiration(lastConfirmedAt, now time.Time) int {
	remaining := ExpirationDays - int(math.Floor(DaysSince(lastConfirmedAt, now)))
	if remaining < 0 {
		return 0
	}
	return remaining
}

// StatusOf maps the elapsed confirmation window onto the three UI states.
func StatusOf(lastConfirmedAt, now time.Time) Status {
	if IsExpired(lastConfirmedAt, now) {
		return StatusExpired
	}
	if DaysUntilExpiration(lastConfirmedAt, now) <= ExpiringSoonDays {
		return StatusExpiringSoon
	}
	return StatusFresh
}
