package model

import "time"

const (
	DefaultStudyColor    = "#6366f1"
	DefaultFootballColor = "#10b981"
)

// Category tags plans and logs within one area. Referenced categories are
// retired through IsActive instead of being deleted.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_user_area_category_name;not null" json:"-"`
	Area      Area      `gorm:"uniqueIndex:idx_user_area_category_name;not null" json:"area"`
	Name      string    `gorm:"uniqueIndex:idx_user_area_category_name;not null" json:"name"`
	Color     string    `gorm:"not null" json:"color"`
	Type      *string   `json:"type,omitempty"`
	IsActive  bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DefaultColor returns the color assigned when none is supplied.
func DefaultColor(area Area) string {
	if area == AreaFootball {
		return DefaultFootballColor
	}
	return DefaultStudyColor
}
