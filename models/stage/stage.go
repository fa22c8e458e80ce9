package stage

import (
	"time"
)

// Stage represents one section of the trail. Open and close times are stored as
// time-of-day strings ("HH:MM:SS"); they only become absolute instants when
// combined with a pass's reservation date.
type Stage struct {
	ID         uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Number     int     `gorm:"not null;unique" json:"number"`
	OpenTime   string  `gorm:"type:varchar(8);not null" json:"open_time"`
	CloseTime  string  `gorm:"type:varchar(8);not null" json:"close_time"`
	DistanceKm float64 `gorm:"type:decimal(6,2)" json:"distance_km"`
	Elevation  int     `gorm:"type:int" json:"elevation"`
	Difficulty string  `gorm:"type:varchar(50)" json:"difficulty"`

	Translations []StageTranslation `gorm:"foreignKey:StageID" json:"translations"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// StageTranslation holds the localized name/description for a stage.
type StageTranslation struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	StageID     uint   `gorm:"not null;index" json:"stage_id"`
	Locale      string `gorm:"type:varchar(10);not null" json:"locale"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the StageTranslation model
func (StageTranslation) TableName() string {
	return "stage_translations"
}
