package tracking

import (
	"time"
)

// ValidityHours is how long a pass stays valid after the reported trail start.
const ValidityHours = 36

// EffectiveExpiry resolves the expiry instant used for stale-data detection.
// A pass with no prior track may carry a stored expiry that predates the real
// trail start (offline-first clients sync late), so the deadline is recomputed
// from the reported start time instead of trusting the stored value.
func EffectiveExpiry(storedExpiry time.Time, hasPriorTrack bool, startTime time.Time) time.Time {
	if !hasPriorTrack {
		return InitialExpiry(startTime)
	}
	return storedExpiry
}

// IsStale reports whether an update's reported timestamp lands after the
// effective expiry of its pass. A pass without a stored expiry never goes
// stale: its deadline is only set by the first accepted update.
func IsStale(storedExpiry *time.Time, hasPriorTrack bool, startTime, timestamp time.Time) bool {
	if storedExpiry == nil {
		return false
	}
	return timestamp.After(EffectiveExpiry(*storedExpiry, hasPriorTrack, startTime))
}

// InitialExpiry is the validity deadline set by the first accepted update.
func InitialExpiry(startTime time.Time) time.Time {
	return startTime.Add(ValidityHours * time.Hour)
}
