package tracking

import (
	"fmt"
	"time"

	"trail-pass/models/stage"

	"github.com/jinzhu/now"
)

const timeOfDayLayout = "15:04:05"

// windowZone is the fixed reference timezone stage windows are defined in.
var windowZone = time.UTC

// ValidateTimeWindow checks that the reported trail start time falls strictly
// inside the stage's daily open/close window on the pass's reservation date.
func ValidateTimeWindow(st stage.Stage, reservedFor, startTime time.Time) error {
	opensAt, err := CombineDateTime(reservedFor, st.OpenTime)
	if err != nil {
		return fmt.Errorf("stage %d has an invalid open time: %w", st.ID, err)
	}
	closesAt, err := CombineDateTime(reservedFor, st.CloseTime)
	if err != nil {
		return fmt.Errorf("stage %d has an invalid close time: %w", st.ID, err)
	}

	if !startTime.After(opensAt) || !startTime.Before(closesAt) {
		return NewValidationError(MsgStartTimeOutsideWindow)
	}
	return nil
}

// CombineDateTime anchors a time-of-day string ("HH:MM:SS", seconds optional)
// to the calendar day of date in the reference timezone.
func CombineDateTime(date time.Time, timeOfDay string) (time.Time, error) {
	tod, err := time.Parse(timeOfDayLayout, timeOfDay)
	if err != nil {
		// some stage rows carry minute precision only
		tod, err = time.Parse("15:04", timeOfDay)
		if err != nil {
			return time.Time{}, fmt.Errorf("cannot parse time of day %q", timeOfDay)
		}
	}

	day := now.With(date.In(windowZone)).BeginningOfDay()
	return time.Date(day.Year(), day.Month(), day.Day(),
		tod.Hour(), tod.Minute(), tod.Second(), 0, windowZone), nil
}
