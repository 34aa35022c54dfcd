package model

import "time"

// Preset is a saved subject offered as a quick pick when logging.
type Preset struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_user_area_subject;not null" json:"-"`
	Area      Area      `gorm:"uniqueIndex:idx_user_area_subject;not null" json:"area"`
	Subject   string    `gorm:"uniqueIndex:idx_user_area_subject;not null" json:"subject"`
	CreatedAt time.Time `json:"createdAt"`
}
