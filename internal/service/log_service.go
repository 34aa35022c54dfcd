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

// LogInput represents a manually recorded session.
type LogInput struct {
	Area            model.Area
	DateTime        time.Time
	CategoryID      uint
	Title           string
	Notes           *string
	DurationMinutes int
	Intensity       *model.Intensity
}

// LogUpdate carries a partial log change.
type LogUpdate struct {
	DateTime        *time.Time
	CategoryID      *uint
	Title           *string
	Notes           model.Nullable[string]
	DurationMinutes *int
	Intensity       model.Nullable[model.Intensity]
}

// LogQuery is the caller-facing filter. Dates are inclusive YYYY-MM-DD
// strings in the configured zone.
type LogQuery struct {
	StartDate  string
	EndDate    string
	Area       *model.Area
	CategoryID *uint
	Limit      int
	Offset     int
}

// LogService records completed activity.
type LogService struct {
	db         *gorm.DB
	logs       *repository.LogRepository
	plans      *repository.PlanRepository
	categories *repository.CategoryRepository
	loc        *time.Location
	now        func() time.Time
}

func NewLogService(db *gorm.DB, logs *repository.LogRepository, plans *repository.PlanRepository,
	categories *repository.CategoryRepository, loc *time.Location) *LogService {
	if loc == nil {
		loc = time.UTC
	}
	return &LogService{db: db, logs: logs, plans: plans, categories: categories, loc: loc, now: time.Now}
}

func (s *LogService) Create(ctx context.Context, userID uint, input LogInput) (*model.LogEntryView, error) {
	if !input.Area.Valid() {
		return nil, validationf("area must be study or football")
	}
	if input.DateTime.IsZero() {
		return nil, validationf("dateTime is required")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, validationf("title is required")
	}
	if input.DurationMinutes < 0 {
		return nil, validationf("durationMinutes cannot be negative")
	}
	if err := validateIntensity(input.Intensity); err != nil {
		return nil, err
	}
	category, err := activeCategory(ctx, s.categories, userID, input.Area, input.CategoryID)
	if err != nil {
		return nil, err
	}

	entry := model.LogEntry{
		UserID:          userID,
		Area:            input.Area,
		DateTime:        input.DateTime,
		CategoryID:      category.ID,
		Title:           title,
		Notes:           input.Notes,
		DurationMinutes: input.DurationMinutes,
		Intensity:       input.Intensity,
		Points:          pointsFor(category),
	}
	if err := s.logs.Create(ctx, &entry); err != nil {
		return nil, err
	}
	return s.logs.FindView(ctx, userID, entry.ID)
}

func (s *LogService) Update(ctx context.Context, userID, id uint, input LogUpdate) (*model.LogEntryView, error) {
	entry, err := s.logs.FindByID(ctx, userID, id)
	if err != nil {
		return nil, logErr(err)
	}

	updates := map[string]interface{}{}
	if input.DateTime != nil {
		if input.DateTime.IsZero() {
			return nil, validationf("dateTime cannot be empty")
		}
		updates["date_time"] = input.DateTime.UTC()
		if entry.WeeklyPlanItemID != nil {
			week := formatDate(WeekStart(*input.DateTime, s.loc))
			updates["plan_week"] = week
		}
	}
	if input.CategoryID != nil {
		category, err := s.categories.FindByID(ctx, userID, *input.CategoryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, validationf("category %d does not exist", *input.CategoryID)
			}
			return nil, err
		}
		if category.Area != entry.Area {
			return nil, validationf("category %d belongs to %s, not %s", category.ID, category.Area, entry.Area)
		}
		updates["category_id"] = category.ID
		updates["points"] = pointsFor(category)
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

	if err := s.logs.Update(ctx, entry, updates); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, conflictf("weekly plan item already completed in that week")
		}
		return nil, err
	}
	return s.logs.FindView(ctx, userID, id)
}

// Delete removes a log. A plan item completed by this log goes back to planned.
func (s *LogService) Delete(ctx context.Context, userID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		logs := s.logs.WithTx(tx)
		entry, err := logs.FindByID(ctx, userID, id)
		if err != nil {
			return logErr(err)
		}
		if entry.PlanItemID != nil {
			if err := s.plans.WithTx(tx).SetStatus(ctx, userID, *entry.PlanItemID, model.PlanStatusPlanned); err != nil {
				return err
			}
		}
		return logs.Delete(ctx, userID, id)
	})
}

func (s *LogService) Get(ctx context.Context, userID, id uint) (*model.LogEntryView, error) {
	view, err := s.logs.FindView(ctx, userID, id)
	if err != nil {
		return nil, logErr(err)
	}
	return view, nil
}

// List returns one page of matching logs, newest first, and the total count.
func (s *LogService) List(ctx context.Context, userID uint, q LogQuery) ([]model.LogEntryView, int64, error) {
	if q.Area != nil && !q.Area.Valid() {
		return nil, 0, validationf("area must be study or football")
	}
	if q.Limit < 0 || q.Offset < 0 {
		return nil, 0, validationf("limit and offset cannot be negative")
	}
	if q.Offset > 0 && q.Limit == 0 {
		return nil, 0, validationf("offset requires limit")
	}

	filter := repository.LogFilter{
		UserID:     userID,
		Area:       q.Area,
		CategoryID: q.CategoryID,
		Limit:      q.Limit,
		Offset:     q.Offset,
	}
	if q.StartDate != "" {
		from, err := ParseDate(q.StartDate, s.loc)
		if err != nil {
			return nil, 0, err
		}
		filter.From = &from
	}
	if q.EndDate != "" {
		end, err := ParseDate(q.EndDate, s.loc)
		if err != nil {
			return nil, 0, err
		}
		to := end.AddDate(0, 0, 1)
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return nil, 0, validationf("startDate is after endDate")
	}
	return s.logs.List(ctx, filter)
}

// Today returns every log dated on the current local day.
func (s *LogService) Today(ctx context.Context, userID uint, area *model.Area) ([]model.LogEntryView, error) {
	if area != nil && !area.Valid() {
		return nil, validationf("area must be study or football")
	}
	from, to := dayRange(s.now().In(s.loc))
	entries, _, err := s.logs.List(ctx, repository.LogFilter{UserID: userID, From: &from, To: &to, Area: area})
	return entries, err
}

func pointsFor(category *model.Category) *int {
	if category == nil || category.Area != model.AreaFootball {
		return nil
	}
	return scoring.PointsFor(category.Name)
}

func logErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("log entry")
	}
	return err
}
