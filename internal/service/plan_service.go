package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"study-tracker/internal/model"
	"study-tracker/internal/repository"
)

// PlanInput represents a one-off plan for a date.
type PlanInput struct {
	Date            string
	Area            model.Area
	Title           string
	Notes           *string
	CategoryID      uint
	DurationMinutes *int
	Intensity       *model.Intensity
}

// PlanUpdate carries a partial plan change, status included.
type PlanUpdate struct {
	Date            *string
	Title           *string
	Notes           model.Nullable[string]
	CategoryID      *uint
	DurationMinutes *int
	Intensity       model.Nullable[model.Intensity]
	Status          *model.PlanStatus
}

// PlanCompletion optionally overrides what the completion log records.
type PlanCompletion struct {
	DurationMinutes *int
	Notes           *string
}

// PlanService manages ad-hoc dated plans.
type PlanService struct {
	db         *gorm.DB
	plans      *repository.PlanRepository
	logs       *repository.LogRepository
	categories *repository.CategoryRepository
	loc        *time.Location
	now        func() time.Time
}

func NewPlanService(db *gorm.DB, plans *repository.PlanRepository, logs *repository.LogRepository,
	categories *repository.CategoryRepository, loc *time.Location) *PlanService {
	if loc == nil {
		loc = time.UTC
	}
	return &PlanService{db: db, plans: plans, logs: logs, categories: categories, loc: loc, now: time.Now}
}

func (s *PlanService) List(ctx context.Context, userID uint, startDate, endDate string, area *model.Area) ([]model.PlanItemView, error) {
	if area != nil && !area.Valid() {
		return nil, validationf("area must be study or football")
	}
	for _, raw := range []string{startDate, endDate} {
		if raw == "" {
			continue
		}
		if _, err := ParseDate(raw, s.loc); err != nil {
			return nil, err
		}
	}
	return s.plans.List(ctx, repository.PlanFilter{UserID: userID, StartDate: startDate, EndDate: endDate, Area: area})
}

// ListWeek returns plan items dated Monday through Sunday of a week.
func (s *PlanService) ListWeek(ctx context.Context, userID uint, weekStart time.Time, area *model.Area) ([]model.PlanItemView, error) {
	if weekStart.Weekday() != time.Monday {
		return nil, validationf("weekStart %s is not a Monday", formatDate(weekStart))
	}
	end := weekStart.AddDate(0, 0, 6)
	return s.List(ctx, userID, formatDate(weekStart), formatDate(end), area)
}

func (s *PlanService) Create(ctx context.Context, userID uint, input PlanInput) (*model.PlanItemView, error) {
	if !input.Area.Valid() {
		return nil, validationf("area must be study or football")
	}
	if _, err := ParseDate(input.Date, s.loc); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, validationf("title is required")
	}
	if err := validateIntensity(input.Intensity); err != nil {
		return nil, err
	}
	duration, err := durationOrDefault(input.DurationMinutes)
	if err != nil {
		return nil, err
	}
	if _, err := activeCategory(ctx, s.categories, userID, input.Area, input.CategoryID); err != nil {
		return nil, err
	}

	item := model.PlanItem{
		UserID:          userID,
		Date:            input.Date,
		Area:            input.Area,
		Title:           title,
		Notes:           input.Notes,
		CategoryID:      input.CategoryID,
		DurationMinutes: duration,
		Intensity:       input.Intensity,
		Status:          model.PlanStatusPlanned,
	}
	if err := s.plans.Create(ctx, &item); err != nil {
		return nil, err
	}
	return s.plans.FindView(ctx, userID, item.ID)
}

func (s *PlanService) Update(ctx context.Context, userID, id uint, input PlanUpdate) (*model.PlanItemView, error) {
	item, err := s.plans.FindByID(ctx, userID, id)
	if err != nil {
		return nil, planErr(err)
	}

	updates := map[string]interface{}{}
	if input.Date != nil {
		if _, err := ParseDate(*input.Date, s.loc); err != nil {
			return nil, err
		}
		updates["date"] = *input.Date
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, validationf("title cannot be empty")
		}
		updates["title"] = title
	}
	if input.Notes.Set {
		updates["notes"] = input.Notes.Value
	}
	if input.CategoryID != nil {
		if _, err := activeCategory(ctx, s.categories, userID, item.Area, *input.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *input.CategoryID
	}
	if input.DurationMinutes != nil {
		if *input.DurationMinutes < 0 {
			return nil, validationf("durationMinutes cannot be negative")
		}
		updates["duration_minutes"] = *input.DurationMinutes
	}
	if input.Intensity.Set {
		if err := validateIntensity(input.Intensity.Value); err != nil {
			return nil, err
		}
		updates["intensity"] = input.Intensity.Value
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, validationf("status must be planned, completed or skipped")
		}
		updates["status"] = *input.Status
	}

	if err := s.plans.Update(ctx, item, updates); err != nil {
		return nil, err
	}
	return s.plans.FindView(ctx, userID, id)
}

// Complete writes a log for the plan item and marks it completed in one
// transaction. Completing twice is a conflict.
func (s *PlanService) Complete(ctx context.Context, userID, id uint, override PlanCompletion) (*model.LogEntryView, error) {
	if override.DurationMinutes != nil && *override.DurationMinutes < 0 {
		return nil, validationf("durationMinutes cannot be negative")
	}

	var entry model.LogEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plans := s.plans.WithTx(tx)
		item, err := plans.FindByID(ctx, userID, id)
		if err != nil {
			return planErr(err)
		}
		if item.Status == model.PlanStatusCompleted {
			return conflictf("plan item %d is already completed", id)
		}

		category, err := s.categories.WithTx(tx).FindByID(ctx, userID, item.CategoryID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		duration := item.DurationMinutes
		if override.DurationMinutes != nil {
			duration = *override.DurationMinutes
		}
		notes := item.Notes
		if override.Notes != nil {
			notes = override.Notes
		}

		planID := item.ID
		entry = model.LogEntry{
			UserID:          userID,
			Area:            item.Area,
			DateTime:        s.completedAt(item.Date),
			CategoryID:      item.CategoryID,
			PlanItemID:      &planID,
			Title:           item.Title,
			Notes:           notes,
			DurationMinutes: duration,
			Intensity:       item.Intensity,
			Points:          pointsFor(category),
		}
		if err := s.logs.WithTx(tx).Create(ctx, &entry); err != nil {
			return err
		}
		return plans.SetStatus(ctx, userID, id, model.PlanStatusCompleted)
	})
	if err != nil {
		return nil, err
	}
	return s.logs.FindView(ctx, userID, entry.ID)
}

func (s *PlanService) Skip(ctx context.Context, userID, id uint) (*model.PlanItemView, error) {
	if _, err := s.plans.FindByID(ctx, userID, id); err != nil {
		return nil, planErr(err)
	}
	if err := s.plans.SetStatus(ctx, userID, id, model.PlanStatusSkipped); err != nil {
		return nil, err
	}
	return s.plans.FindView(ctx, userID, id)
}

func (s *PlanService) Delete(ctx context.Context, userID, id uint) error {
	if _, err := s.plans.FindByID(ctx, userID, id); err != nil {
		return planErr(err)
	}
	return s.plans.Delete(ctx, userID, id)
}

// CountPlannedToday counts today's plan items still waiting to be done.
func (s *PlanService) CountPlannedToday(ctx context.Context, userID uint) (int64, error) {
	return s.plans.CountPlannedOn(ctx, userID, formatDate(s.now().In(s.loc)))
}

// completedAt stamps a completion with the current time when the plan is for
// today and with the plan's local noon otherwise, so the log lands on its date.
func (s *PlanService) completedAt(date string) time.Time {
	now := s.now().In(s.loc)
	if date == formatDate(now) {
		return now
	}
	day, err := ParseDate(date, s.loc)
	if err != nil {
		return now
	}
	return day.Add(12 * time.Hour)
}

func planErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("plan item")
	}
	return err
}
