package model

import "time"

type PlanStatus string

const (
	PlanStatusPlanned   PlanStatus = "planned"
	PlanStatusCompleted PlanStatus = "completed"
	PlanStatusSkipped   PlanStatus = "skipped"
)

func (s PlanStatus) Valid() bool {
	switch s {
	case PlanStatusPlanned, PlanStatusCompleted, PlanStatusSkipped:
		return true
	}
	return false
}

// PlanItem is a one-off plan for a specific date.
type PlanItem struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uint       `gorm:"index:idx_plan_user_date;not null" json:"-"`
	Date            string     `gorm:"index:idx_plan_user_date;not null" json:"date"`
	Area            Area       `gorm:"not null" json:"area"`
	Title           string     `gorm:"not null" json:"title"`
	Notes           *string    `json:"notes"`
	CategoryID      uint       `gorm:"index;not null" json:"categoryId"`
	DurationMinutes int        `gorm:"not null;default:45" json:"durationMinutes"`
	Intensity       *Intensity `json:"intensity"`
	Status          PlanStatus `gorm:"not null;default:planned" json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// PlanItemView is a plan item joined with its category.
type PlanItemView struct {
	PlanItem
	CategoryName  *string `json:"categoryName"`
	CategoryColor *string `json:"categoryColor"`
}
