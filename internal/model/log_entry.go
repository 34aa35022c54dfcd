package model

import "time"

// LogEntry records activity that actually happened. At most one of
// WeeklyPlanItemID and PlanItemID is set.
type LogEntry struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	UserID           uint       `gorm:"index:idx_log_user_date;not null" json:"-"`
	Area             Area       `gorm:"index;not null" json:"area"`
	DateTime         time.Time  `gorm:"index:idx_log_user_date;not null" json:"dateTime"`
	CategoryID       uint       `gorm:"index;not null" json:"categoryId"`
	WeeklyPlanItemID *uint      `gorm:"uniqueIndex:idx_log_plan_week,priority:1" json:"weeklyPlanItemId"`
	PlanWeek         *string    `gorm:"uniqueIndex:idx_log_plan_week,priority:2" json:"-"`
	PlanItemID       *uint      `gorm:"index" json:"planItemId"`
	Title            string     `gorm:"not null" json:"title"`
	Notes            *string    `json:"notes"`
	DurationMinutes  int        `gorm:"not null" json:"durationMinutes"`
	Intensity        *Intensity `json:"intensity"`
	Points           *int       `json:"points"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// LogEntryView is a log joined with its category.
type LogEntryView struct {
	LogEntry
	CategoryName  *string `json:"categoryName"`
	CategoryColor *string `json:"categoryColor"`
}
