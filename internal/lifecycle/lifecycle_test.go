package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dropradar/dropstack/internal/enum"
)

var now = time.Date(2025, time.March, 15, 12, 30, 0, 0, time.UTC)

func TestDropDateRoundTrip(t *testing.T) {
	expiries := []time.Time{
		time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), // leap day
		time.Date(2025, time.December, 31, 23, 59, 59, 0, time.UTC),
	}
	for _, expiry := range expiries {
		drop := DropDateFromExpiry(expiry)
		assert.Equal(t, UTCMidnight(expiry), ExpiryFromDropDate(drop), "expiry %s", expiry)
	}
}

func TestStatusBands(t *testing.T) {
	tests := []struct {
		daysSinceExpiry int
		want            enum.DomainStatus
	}{
		{-1, enum.DomainStatusActive},
		{0, enum.DomainStatusGrace},
		{30, enum.DomainStatusGrace},
		{31, enum.DomainStatusRedemption},
		{60, enum.DomainStatusRedemption},
		{61, enum.DomainStatusPendingDelete},
		{75, enum.DomainStatusPendingDelete},
		{76, enum.DomainStatusDropped},
	}
	for _, tt := range tests {
		expiry := now.AddDate(0, 0, -tt.daysSinceExpiry)
		assert.Equal(t, tt.want, StatusFromExpiry(expiry, now), "daysSinceExpiry=%d", tt.daysSinceExpiry)
	}
}

func TestDaysUntilDrop(t *testing.T) {
	drop := now.AddDate(0, 0, 3)
	assert.Equal(t, 3, DaysUntilDrop(drop, now))
	assert.Equal(t, 0, DaysUntilDrop(now, now))
	assert.Equal(t, -2, DaysUntilDrop(now.AddDate(0, 0, -2), now))
}

func TestDaysUntilDropTimezoneInvariance(t *testing.T) {
	drop := time.Date(2025, time.March, 18, 0, 0, 0, 0, time.UTC)

	// the same UTC instant expressed in offsets on both sides of midnight
	zones := []*time.Location{
		time.UTC,
		time.FixedZone("UTC+13", 13*60*60),
		time.FixedZone("UTC-11", -11*60*60),
	}
	want := DaysUntilDrop(drop, now)
	for _, zone := range zones {
		assert.Equal(t, want, DaysUntilDrop(drop.In(zone), now.In(zone)), "zone %s", zone)
	}
}

func TestInDropWindow(t *testing.T) {
	assert.False(t, InDropWindow(59))
	assert.True(t, InDropWindow(60))
	assert.True(t, InDropWindow(65))
	assert.True(t, InDropWindow(80))
	assert.False(t, InDropWindow(81))
}
