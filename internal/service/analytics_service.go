package service

import (
	"context"
	"time"

	"study-tracker/internal/model"
	"study-tracker/internal/repository"
)

// AreaBreakdown is one area's per-category totals.
type AreaBreakdown struct {
	Area       model.Area            `json:"area"`
	Categories []model.CategoryTotal `json:"categories"`
}

type WeeklyAnalytics struct {
	WeekStart  string             `json:"weekStart"`
	WeekEnd    string             `json:"weekEnd"`
	Totals     []model.AreaTotal  `json:"totals"`
	Categories []AreaBreakdown    `json:"categories"`
	Daily      []model.DailyTotal `json:"daily"`
}

type MonthlyAnalytics struct {
	Year       int                 `json:"year"`
	Month      int                 `json:"month"`
	Totals     []model.AreaTotal   `json:"totals"`
	Categories []AreaBreakdown     `json:"categories"`
	Weekly     []model.WeeklyTotal `json:"weekly"`
}

type Dashboard struct {
	Today        []model.AreaTotal    `json:"today"`
	Week         []model.AreaTotal    `json:"week"`
	PendingPlans int64                `json:"pendingPlans"`
	RecentLogs   []model.LogEntryView `json:"recentLogs"`
}

// AnalyticsService aggregates logged activity.
type AnalyticsService struct {
	analytics *repository.AnalyticsRepository
	logs      *repository.LogRepository
	plans     *repository.PlanRepository
	loc       *time.Location
	now       func() time.Time
}

func NewAnalyticsService(analytics *repository.AnalyticsRepository, logs *repository.LogRepository,
	plans *repository.PlanRepository, loc *time.Location) *AnalyticsService {
	if loc == nil {
		loc = time.UTC
	}
	return &AnalyticsService{analytics: analytics, logs: logs, plans: plans, loc: loc, now: time.Now}
}

func (s *AnalyticsService) Weekly(ctx context.Context, userID uint, weekStart time.Time) (*WeeklyAnalytics, error) {
	weekStart = weekStart.In(s.loc)
	if weekStart.Weekday() != time.Monday {
		return nil, validationf("weekStart %s is not a Monday", formatDate(weekStart))
	}
	from, to := weekRange(WeekStart(weekStart, s.loc))

	totals, err := s.analytics.AreaTotals(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	categories, err := s.breakdowns(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	daily, err := s.analytics.DailySeries(ctx, userID, dayBuckets(from, to))
	if err != nil {
		return nil, err
	}

	return &WeeklyAnalytics{
		WeekStart:  formatDate(from),
		WeekEnd:    formatDate(to.AddDate(0, 0, -1)),
		Totals:     totals,
		Categories: categories,
		Daily:      daily,
	}, nil
}

func (s *AnalyticsService) Monthly(ctx context.Context, userID uint, year, month int) (*MonthlyAnalytics, error) {
	if month < 1 || month > 12 {
		return nil, validationf("month must be between 1 and 12")
	}
	if year < 1970 || year > 9999 {
		return nil, validationf("year %d is out of range", year)
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, s.loc)
	to := from.AddDate(0, 1, 0)

	totals, err := s.analytics.AreaTotals(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	categories, err := s.breakdowns(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	weekly, err := s.analytics.WeeklySeries(ctx, userID, weekBuckets(from, to))
	if err != nil {
		return nil, err
	}

	return &MonthlyAnalytics{
		Year:       year,
		Month:      month,
		Totals:     totals,
		Categories: categories,
		Weekly:     weekly,
	}, nil
}

func (s *AnalyticsService) Dashboard(ctx context.Context, userID uint) (*Dashboard, error) {
	now := s.now().In(s.loc)
	dayFrom, dayTo := dayRange(now)
	weekFrom, weekTo := weekRange(WeekStart(now, s.loc))

	today, err := s.analytics.AreaTotals(ctx, userID, dayFrom, dayTo)
	if err != nil {
		return nil, err
	}
	week, err := s.analytics.AreaTotals(ctx, userID, weekFrom, weekTo)
	if err != nil {
		return nil, err
	}
	pending, err := s.plans.CountPlannedOn(ctx, userID, formatDate(now))
	if err != nil {
		return nil, err
	}
	recent, _, err := s.logs.List(ctx, repository.LogFilter{UserID: userID, Limit: 5})
	if err != nil {
		return nil, err
	}

	return &Dashboard{Today: today, Week: week, PendingPlans: pending, RecentLogs: recent}, nil
}

func (s *AnalyticsService) breakdowns(ctx context.Context, userID uint, from, to time.Time) ([]AreaBreakdown, error) {
	out := make([]AreaBreakdown, 0, len(model.Areas))
	for _, area := range model.Areas {
		rows, err := s.analytics.CategoryBreakdown(ctx, userID, area, from, to)
		if err != nil {
			return nil, err
		}
		out = append(out, AreaBreakdown{Area: area, Categories: rows})
	}
	return out, nil
}
