package badge

import (
	"time"
)

// Badge is the achievement configured for a stage. At most one badge per stage;
// a stage without a badge simply awards nothing on completion.
type Badge struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	StageID uint `gorm:"not null;uniqueIndex" json:"stage_id"`

	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	ImageURL    string `gorm:"type:varchar(2048)" json:"image_url"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// AwardedBadge records that a user earned a stage's badge on a specific pass.
// Created exactly once per (user_id, stage_id, pass_id).
type AwardedBadge struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	BadgeID uint  `gorm:"not null;index" json:"badge_id"`
	Badge   Badge `gorm:"foreignKey:BadgeID" json:"badge"`

	UserID  uint `gorm:"not null;uniqueIndex:idx_awarded_badges_user_stage_pass" json:"user_id"`
	StageID uint `gorm:"not null;uniqueIndex:idx_awarded_badges_user_stage_pass" json:"stage_id"`
	PassID  uint `gorm:"not null;uniqueIndex:idx_awarded_badges_user_stage_pass" json:"pass_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for the AwardedBadge model
func (AwardedBadge) TableName() string {
	return "awarded_badges"
}
