package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"study-tracker/internal/model"
	"study-tracker/internal/repository"
	"study-tracker/internal/scoring"
)

// WeeklyPlanInput represents data required to create a weekly template.
type WeeklyPlanInput struct {
	Area            model.Area
	DayOfWeek       int
	CategoryID      uint
	Title           string
	Notes           *string
	DurationMinutes *int
	Intensity       *model.Intensity
}

// WeeklyPlanUpdate carries a partial template change. Nil pointers and unset
// Nullables leave the stored value alone.
type WeeklyPlanUpdate struct {
	DayOfWeek       *int
	CategoryID      *uint
	Title           *string
	Notes           model.Nullable[string]
	DurationMinutes *int
	Intensity       model.Nullable[model.Intensity]
}

// WeeklyPlanService owns recurring templates and their per-week completion.
type WeeklyPlanService struct {
	db         *gorm.DB
	plans      *repository.WeeklyPlanRepository
	logs       *repository.LogRepository
	categories *repository.CategoryRepository
	loc        *time.Location
	now        func() time.Time
}

func NewWeeklyPlanService(db *gorm.DB, plans *repository.WeeklyPlanRepository, logs *repository.LogRepository,
	categories *repository.CategoryRepository, loc *time.Location) *WeeklyPlanService {
	if loc == nil {
		loc = time.UTC
	}
	return &WeeklyPlanService{db: db, plans: plans, logs: logs, categories: categories, loc: loc, now: time.Now}
}

// Location is the zone weeks are bucketed in.
func (s *WeeklyPlanService) Location() *time.Location {
	return s.loc
}

// CurrentWeekStart returns the Monday of the week the clock is in.
func (s *WeeklyPlanService) CurrentWeekStart() time.Time {
	return WeekStart(s.now(), s.loc)
}

func (s *WeeklyPlanService) List(ctx context.Context, userID uint, area *model.Area) ([]model.WeeklyPlanItemView, error) {
	if area != nil && !area.Valid() {
		return nil, validationf("area must be study or football")
	}
	return s.plans.ListActive(ctx, userID, area)
}

func (s *WeeklyPlanService) Create(ctx context.Context, userID uint, input WeeklyPlanInput) (*model.WeeklyPlanItemView, error) {
	if !input.Area.Valid() {
		return nil, validationf("area must be study or football")
	}
	if err := validateDayOfWeek(input.DayOfWeek); err != nil {
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

	item := model.WeeklyPlanItem{
		UserID:          userID,
		Area:            input.Area,
		DayOfWeek:       input.DayOfWeek,
		CategoryID:      input.CategoryID,
		Title:           title,
		Notes:           input.Notes,
		DurationMinutes: duration,
		Intensity:       input.Intensity,
		IsActive:        true,
	}
	if err := s.plans.Create(ctx, &item); err != nil {
		return nil, err
	}
	return s.plans.FindView(ctx, userID, item.ID)
}

func (s *WeeklyPlanService) Update(ctx context.Context, userID, id uint, input WeeklyPlanUpdate) (*model.WeeklyPlanItemView, error) {
	item, err := s.plans.FindActive(ctx, userID, id)
	if err != nil {
		return nil, templateErr(err)
	}

	updates := map[string]interface{}{}
	if input.DayOfWeek != nil {
		if err := validateDayOfWeek(*input.DayOfWeek); err != nil {
			return nil, err
		}
		updates["day_of_week"] = *input.DayOfWeek
	}
	if input.CategoryID != nil {
		if _, err := activeCategory(ctx, s.categories, userID, item.Area, *input.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *input.CategoryID
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

	if err := s.plans.Update(ctx, item, updates); err != nil {
		return nil, err
	}
	return s.plans.FindView(ctx, userID, id)
}

// SoftDelete retires a template. Past logs keep their back-reference.
func (s *WeeklyPlanService) SoftDelete(ctx context.Context, userID, id uint) error {
	if _, err := s.plans.FindActive(ctx, userID, id); err != nil {
		return templateErr(err)
	}
	return s.plans.SoftDelete(ctx, userID, id)
}

// WeekStatus derives completion of every active template for the week
// starting at weekStart, which must be a Monday.
func (s *WeeklyPlanService) WeekStatus(ctx context.Context, userID uint, weekStart time.Time, area *model.Area) ([]model.WeekStatus, error) {
	if area != nil && !area.Valid() {
		return nil, validationf("area must be study or football")
	}
	weekStart = weekStart.In(s.loc)
	if weekStart.Weekday() != time.Monday {
		return nil, validationf("weekStart %s is not a Monday", formatDate(weekStart))
	}
	from, to := weekRange(WeekStart(weekStart, s.loc))
	return s.plans.WeekStatus(ctx, userID, area, from, to)
}

// FootballScore scores the completed football templates of a week.
func (s *WeeklyPlanService) FootballScore(ctx context.Context, userID uint, weekStart time.Time) (scoring.Report, error) {
	area := model.AreaFootball
	items, err := s.WeekStatus(ctx, userID, weekStart, &area)
	if err != nil {
		return scoring.Report{}, err
	}
	return scoring.Calculate(items), nil
}

// Complete logs a template as done for the current week. A second call in the
// same week is a conflict.
func (s *WeeklyPlanService) Complete(ctx context.Context, userID, id uint) (*model.LogEntryView, error) {
	now := s.now()
	weekStart := WeekStart(now, s.loc)
	from, to := weekRange(weekStart)
	week := formatDate(weekStart)

	var entry model.LogEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plans := s.plans.WithTx(tx)
		logs := s.logs.WithTx(tx)

		item, err := plans.FindActive(ctx, userID, id)
		if err != nil {
			return templateErr(err)
		}

		existing, err := logs.FindForWeeklyPlan(ctx, userID, id, from, to)
		switch {
		case err == nil:
			return conflictf("weekly plan item %d already completed this week (log %d)", id, existing.ID)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		var points *int
		if item.Area == model.AreaFootball {
			category, err := s.categories.WithTx(tx).FindByID(ctx, userID, item.CategoryID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			points = pointsFor(category)
		}

		templateID := item.ID
		entry = model.LogEntry{
			UserID:           userID,
			Area:             item.Area,
			DateTime:         now,
			CategoryID:       item.CategoryID,
			WeeklyPlanItemID: &templateID,
			PlanWeek:         &week,
			Title:            item.Title,
			Notes:            item.Notes,
			DurationMinutes:  item.DurationMinutes,
			Intensity:        item.Intensity,
			Points:           points,
		}
		return logs.Create(ctx, &entry)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflictf("weekly plan item %d already completed this week", id)
		}
		return nil, err
	}
	return s.logs.FindView(ctx, userID, entry.ID)
}

// Uncomplete removes the current week's completion log of a template. It
// works on retired templates too; a week without a log is a conflict.
func (s *WeeklyPlanService) Uncomplete(ctx context.Context, userID, id uint) error {
	from, to := weekRange(s.CurrentWeekStart())

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.plans.WithTx(tx).FindOwned(ctx, userID, id); err != nil {
			return templateErr(err)
		}
		logs := s.logs.WithTx(tx)
		entry, err := logs.FindForWeeklyPlan(ctx, userID, id, from, to)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return conflictf("weekly plan item %d is not completed this week", id)
			}
			return err
		}
		return logs.Delete(ctx, userID, entry.ID)
	})
}

func templateErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("weekly plan item")
	}
	return err
}

func validateDayOfWeek(day int) error {
	if day < 0 || day > 6 {
		return validationf("dayOfWeek must be between 0 (Monday) and 6 (Sunday)")
	}
	return nil
}

func validateIntensity(intensity *model.Intensity) error {
	if intensity != nil && !intensity.Valid() {
		return validationf("intensity must be low, medium or high")
	}
	return nil
}

func durationOrDefault(minutes *int) (int, error) {
	if minutes == nil {
		return model.DefaultDurationMinutes, nil
	}
	if *minutes < 0 {
		return 0, validationf("durationMinutes cannot be negative")
	}
	return *minutes, nil
}
