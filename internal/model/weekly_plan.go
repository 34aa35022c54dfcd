package model

import "time"

// WeeklyPlanItem is a recurring slot pinned to a day of the week
// (0 = Monday .. 6 = Sunday). It never stores completion; see WeekStatus.
type WeeklyPlanItem struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uint       `gorm:"index:idx_weekly_user_area;not null" json:"-"`
	Area            Area       `gorm:"index:idx_weekly_user_area;not null" json:"area"`
	DayOfWeek       int        `gorm:"not null" json:"dayOfWeek"`
	CategoryID      uint       `gorm:"index;not null" json:"categoryId"`
	Title           string     `gorm:"not null" json:"title"`
	Notes           *string    `json:"notes"`
	DurationMinutes int        `gorm:"not null;default:45" json:"durationMinutes"`
	Intensity       *Intensity `json:"intensity"`
	IsActive        bool       `gorm:"not null;default:true" json:"-"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// WeeklyPlanItemView is a template joined with its category.
type WeeklyPlanItemView struct {
	WeeklyPlanItem
	CategoryName  *string `json:"categoryName"`
	CategoryColor *string `json:"categoryColor"`
}

// WeekStatus is the derived completion state of one template in one week.
type WeekStatus struct {
	ID              uint       `json:"id"`
	Area            Area       `json:"area"`
	DayOfWeek       int        `json:"dayOfWeek"`
	CategoryID      uint       `json:"categoryId"`
	CategoryName    *string    `json:"categoryName"`
	CategoryColor   *string    `json:"categoryColor"`
	Title           string     `json:"title"`
	Notes           *string    `json:"notes"`
	DurationMinutes int        `json:"durationMinutes"`
	Intensity       *Intensity `json:"intensity"`
	IsCompleted     bool       `json:"isCompleted"`
	CompletedLogID  *uint      `json:"completedLogId"`
	CompletedAt     *time.Time `json:"completedAt"`
}
