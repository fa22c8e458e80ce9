package tracking

import (
	"trail-pass/models/pass"
)

// CheckPassEligibility confirms the pass can accept tracking data from this
// caller. All failures are terminal validation errors; the caller is expected
// to fix the request, not retry it.
func CheckPassEligibility(p pass.Pass, userID uint) error {
	if p.IsCancelled {
		return NewValidationError(MsgPassCancelled)
	}
	if p.UserID != userID {
		return NewValidationError(MsgPassNotOwned)
	}
	if !p.Activated {
		return NewValidationError(MsgPassNotActivated)
	}
	return nil
}
