package tracking

import (
	"errors"
)

// Validation failure messages returned verbatim to the caller.
const (
	MsgStartTimeOutsideWindow = "trail start time outside allowed window"
	MsgTrackingDataNotValid   = "tracking data is not valid"
	MsgTrailAlreadyCompleted  = "trail already completed"
	MsgNoOngoingTrail         = "not currently engaged in a trail"
	MsgPassNotFound           = "pass not found"
	MsgPassCancelled          = "pass has been cancelled"
	MsgPassNotOwned           = "pass does not belong to the user"
	MsgPassNotActivated       = "pass is not activated"
)

// ValidationError marks a client-correctable failure. Its message is safe to
// return to the caller; anything else is normalized to a generic response.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error with the given message
func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

// IsValidationError reports whether err is (or wraps) a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
