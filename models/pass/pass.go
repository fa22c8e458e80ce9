package pass

import (
	"time"

	"trail-pass/models/order"
	"trail-pass/models/stage"
	"trail-pass/models/user"
)

// Pass is a single reservation unit: one person on one stage for one day.
// Several passes can belong to the same order (one per member of the party).
type Pass struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Foreign key for orders relationship
	OrderID uint        `gorm:"not null;index" json:"order_id"`
	Order   order.Order `gorm:"foreignKey:OrderID" json:"order"`

	// Foreign key for users relationship
	UserID uint      `gorm:"not null;index" json:"user_id"`
	User   user.User `gorm:"foreignKey:UserID" json:"user"`

	// Foreign key for stages relationship
	StageID uint        `gorm:"not null;index" json:"stage_id"`
	Stage   stage.Stage `gorm:"foreignKey:StageID" json:"stage"`

	ReservedFor time.Time  `gorm:"type:date;not null" json:"reserved_for"`
	Activated   bool       `gorm:"default:false" json:"activated"`
	IsCancelled bool       `gorm:"default:false" json:"is_cancelled"`
	ExpiredAt   *time.Time `gorm:"" json:"expired_at,omitempty"`
	Type        string     `gorm:"type:varchar(50)" json:"type"` // "adult" or "child"

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}
