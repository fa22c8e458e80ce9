package tracking

import (
	"trail-pass/logger"
)

// Telemetry is the fire-and-forget sink unexpected failures are reported to.
// Reporting never affects control flow.
type Telemetry interface {
	CaptureException(err error)
}

// LogTelemetry reports failures through the application logger.
type LogTelemetry struct{}

func (LogTelemetry) CaptureException(err error) {
	logger.Error("tracking failure", err)
}
