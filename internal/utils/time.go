package utils

import "time"

// Now returns the current time in UTC. All persistence timestamps go through
// this so the store never carries local offsets.
func Now() time.Time {
	return time.Now().UTC()
}
