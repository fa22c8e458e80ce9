package tracking

import (
	"trail-pass/models/track"
)

// MergeCompletion keeps stored completion monotonic: regressions caused by
// out-of-order or re-delivered offline updates are silently discarded in favor
// of the highest value seen so far. A track already marked completed accepts
// no further updates at all.
func MergeCompletion(prev *track.TrailTrack, incoming float64) (float64, error) {
	if prev != nil && prev.IsCompleted {
		return 0, NewValidationError(MsgTrailAlreadyCompleted)
	}
	if prev != nil && prev.Completion > incoming {
		return prev.Completion, nil
	}
	return incoming, nil
}

// CrossedCompletionThreshold reports whether this update is the first to drive
// completion to 100 percent for the track.
func CrossedCompletionThreshold(prev *track.TrailTrack, merged float64) bool {
	if int(merged) != 100 {
		return false
	}
	return prev == nil || int(prev.Completion) != 100
}
