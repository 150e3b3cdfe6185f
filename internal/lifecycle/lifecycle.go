// Package lifecycle computes registry lifecycle state from calendar dates.
// Everything here is pure: callers inject "now" so the functions stay
// deterministic under test and scheduling jitter.
package lifecycle

import (
	"time"

	"github.com/dropradar/dropstack/internal/enum"
)

// HoldPeriodDays is the post-expiration hold before a domain is deleted by
// the registry: 30 days grace + 30 days redemption + ~15 days pending delete.
const HoldPeriodDays = 75

// DroppedRetentionDays is how long a dropped record stays visible before the
// sweep purges it.
const DroppedRetentionDays = 30

// UTCMidnight truncates t to midnight UTC. Both operands of any day
// subtraction must pass through this, otherwise local offsets skew the day
// count by one around midnight.
func UTCMidnight(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DropDateFromExpiry returns the date the domain becomes registrable again
func DropDateFromExpiry(expiry time.Time) time.Time {
	return UTCMidnight(expiry).AddDate(0, 0, HoldPeriodDays)
}

// ExpiryFromDropDate inverts DropDateFromExpiry
func ExpiryFromDropDate(drop time.Time) time.Time {
	return UTCMidnight(drop).AddDate(0, 0, -HoldPeriodDays)
}

// DaysUntilDrop returns whole days from now until the drop date. Negative
// once the drop is in the past.
func DaysUntilDrop(drop, now time.Time) int {
	return wholeDays(UTCMidnight(now), UTCMidnight(drop))
}

// DaysSinceExpiry returns whole days since the expiry date. Negative while
// the registration is still active.
func DaysSinceExpiry(expiry, now time.Time) int {
	return wholeDays(UTCMidnight(expiry), UTCMidnight(now))
}

// StatusFromExpiry maps an expiry date onto the registry lifecycle bands:
//
//	<0    active
//	0-30  grace
//	31-60 redemption
//	61-75 pending_delete
//	>75   dropped
func StatusFromExpiry(expiry, now time.Time) enum.DomainStatus {
	days := DaysSinceExpiry(expiry, now)
	switch {
	case days < 0:
		return enum.DomainStatusActive
	case days <= 30:
		return enum.DomainStatusGrace
	case days <= 60:
		return enum.DomainStatusRedemption
	case days <= HoldPeriodDays:
		return enum.DomainStatusPendingDelete
	default:
		return enum.DomainStatusDropped
	}
}

// InDropWindow reports whether daysSinceExpiry sits in the 60-80 day band a
// WHOIS-confirmed drop is expected in. The band is deliberately wider than
// pending_delete to absorb registry timing slack.
func InDropWindow(daysSinceExpiry int) bool {
	return daysSinceExpiry >= 60 && daysSinceExpiry <= 80
}

func wholeDays(from, to time.Time) int {
	return int(to.Sub(from).Round(24*time.Hour) / (24 * time.Hour))
}
