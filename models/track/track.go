package track

import (
	"time"

	"trail-pass/models/pass"
	"trail-pass/models/user"
)

// TrailTrack is the current-state row describing a user's live progress on one
// pass. There is at most one row per (user_id, pass_id) pair; it is created on
// the first accepted update and mutated in place afterwards, never deleted.
type TrailTrack struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Foreign key for users relationship
	UserID uint      `gorm:"not null;uniqueIndex:idx_trail_tracks_user_pass" json:"user_id"`
	User   user.User `gorm:"foreignKey:UserID" json:"user"`

	// Foreign key for passes relationship
	PassID uint      `gorm:"not null;uniqueIndex:idx_trail_tracks_user_pass" json:"pass_id"`
	Pass   pass.Pass `gorm:"foreignKey:PassID" json:"pass"`

	AveragePace      float64 `gorm:"type:decimal(10,3)" json:"average_pace"`
	AverageSpeed     float64 `gorm:"type:decimal(10,3)" json:"average_speed"`
	DistanceTraveled float64 `gorm:"type:decimal(10,3)" json:"distance_traveled"` // kilometers
	ElevationGain    float64 `gorm:"type:decimal(10,2)" json:"elevation_gain"`    // meters
	ElevationLoss    float64 `gorm:"type:decimal(10,2)" json:"elevation_loss"`    // meters
	Latitude         float64 `gorm:"type:decimal(10,7)" json:"latitude"`
	Longitude        float64 `gorm:"type:decimal(10,7)" json:"longitude"`
	TotalTime        float64 `gorm:"type:decimal(12,2)" json:"total_time"` // seconds

	StartTime     time.Time `gorm:"not null" json:"start_time"`
	Completion    float64   `gorm:"type:decimal(5,2);not null;default:0" json:"completion"` // 0-100
	IsCompleted   bool      `gorm:"default:false" json:"is_completed"`
	IsActiveTrack bool      `gorm:"default:false;index" json:"is_active_track"`
	Timestamp     time.Time `gorm:"not null" json:"timestamp"` // last reported time

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the TrailTrack model
func (TrailTrack) TableName() string {
	return "trail_tracks"
}

// TrailTrackHistory is the append-only log of accepted updates. One row per
// accepted update per pass; rows are never mutated or deleted.
type TrailTrackHistory struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// DO NOT make (user_id, pass_id) unique here (history rows are many per track)
	UserID uint `gorm:"not null;index" json:"user_id"`
	PassID uint `gorm:"not null;index" json:"pass_id"`

	AveragePace      float64 `gorm:"type:decimal(10,3)" json:"average_pace"`
	AverageSpeed     float64 `gorm:"type:decimal(10,3)" json:"average_speed"`
	DistanceTraveled float64 `gorm:"type:decimal(10,3)" json:"distance_traveled"`
	ElevationGain    float64 `gorm:"type:decimal(10,2)" json:"elevation_gain"`
	ElevationLoss    float64 `gorm:"type:decimal(10,2)" json:"elevation_loss"`
	Latitude         float64 `gorm:"type:decimal(10,7)" json:"latitude"`
	Longitude        float64 `gorm:"type:decimal(10,7)" json:"longitude"`
	TotalTime        float64 `gorm:"type:decimal(12,2)" json:"total_time"`

	StartTime   time.Time `gorm:"not null" json:"start_time"`
	Completion  float64   `gorm:"type:decimal(5,2);not null;default:0" json:"completion"`
	IsCompleted bool      `gorm:"default:false" json:"is_completed"`
	Timestamp   time.Time `gorm:"not null" json:"timestamp"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for the TrailTrackHistory model
func (TrailTrackHistory) TableName() string {
	return "trail_track_histories"
}
