package tracking

import (
	"fmt"
	"time"
)

// TrackUpdateRequest represents the request payload for reporting trail progress
type TrackUpdateRequest struct {
	PassID           uint      `json:"pass_id" validate:"required"`
	AveragePace      float64   `json:"average_pace"`
	AverageSpeed     float64   `json:"average_speed"`
	DistanceTraveled float64   `json:"distance_traveled" validate:"gte=0"` // kilometers
	ElevationGain    float64   `json:"elevation_gain"`                     // meters
	ElevationLoss    float64   `json:"elevation_loss"`                     // meters
	Latitude         float64   `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude        float64   `json:"longitude" validate:"gte=-180,lte=180"`
	TotalTime        float64   `json:"total_time" validate:"gte=0"` // seconds
	StartTime        time.Time `json:"start_time" validate:"required"`
	Timestamp        time.Time `json:"timestamp" validate:"required"`
	Completion       float64   `json:"completion" validate:"gte=0,lte=100"`
	IsCompleted      bool      `json:"is_completed"`
}

func (r TrackUpdateRequest) Validate() error {
	if r.PassID == 0 {
		return fmt.Errorf("pass_id is required")
	}
	if r.StartTime.IsZero() {
		return fmt.Errorf("start_time is required")
	}
	if r.Timestamp.IsZero() {
		return fmt.Errorf("timestamp is required")
	}
	if r.Completion < 0 || r.Completion > 100 {
		return fmt.Errorf("completion must be between 0 and 100")
	}
	if r.Latitude < -90 || r.Latitude > 90 {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	if r.Longitude < -180 || r.Longitude > 180 {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	if r.DistanceTraveled < 0 {
		return fmt.Errorf("distance_traveled must not be negative")
	}
	if r.TotalTime < 0 {
		return fmt.Errorf("total_time must not be negative")
	}
	return nil
}

// StageResponse is the external stage representation returned with an ongoing
// track, with translations folded in.
type StageResponse struct {
	ID           uint               `json:"id"`
	Number       int                `json:"number"`
	OpenTime     string             `json:"open_time"`
	CloseTime    string             `json:"close_time"`
	DistanceKm   float64            `json:"distance_km"`
	Elevation    int                `json:"elevation"`
	Difficulty   string             `json:"difficulty"`
	Translations []StageTranslation `json:"translations"`
}

type StageTranslation struct {
	Locale      string `json:"locale"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// TrackResponse is the track state returned by both public operations.
type TrackResponse struct {
	ID               uint           `json:"id"`
	PassID           uint           `json:"pass_id"`
	AveragePace      float64        `json:"average_pace"`
	AverageSpeed     float64        `json:"average_speed"`
	DistanceTraveled float64        `json:"distance_traveled"`
	ElevationGain    float64        `json:"elevation_gain"`
	ElevationLoss    float64        `json:"elevation_loss"`
	Latitude         float64        `json:"latitude"`
	Longitude        float64        `json:"longitude"`
	TotalTime        float64        `json:"total_time"`
	StartTime        time.Time      `json:"start_time"`
	Completion       float64        `json:"completion"`
	IsCompleted      bool           `json:"is_completed"`
	IsActiveTrack    bool           `json:"is_active_track"`
	Timestamp        time.Time      `json:"timestamp"`
	Stage            *StageResponse `json:"stage,omitempty"`
}
