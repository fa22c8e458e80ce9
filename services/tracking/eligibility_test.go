package tracking

import (
	"testing"

	"trail-pass/models/pass"

	"github.com/stretchr/testify/require"
)

func TestCheckPassEligibility(t *testing.T) {
	base := pass.Pass{ID: 1, UserID: 7, Activated: true}

	require.NoError(t, CheckPassEligibility(base, 7))

	cancelled := base
	cancelled.IsCancelled = true
	err := CheckPassEligibility(cancelled, 7)
	require.True(t, IsValidationError(err))
	require.EqualError(t, err, MsgPassCancelled)

	err = CheckPassEligibility(base, 8)
	require.True(t, IsValidationError(err))
	require.EqualError(t, err, MsgPassNotOwned)

	inactive := base
	inactive.Activated = false
	err = CheckPassEligibility(inactive, 7)
	require.True(t, IsValidationError(err))
	require.EqualError(t, err, MsgPassNotActivated)
}
