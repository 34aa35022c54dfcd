package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	"study-tracker/internal/model"
)

// AnalyticsRepository runs read-only aggregates over log_entries.
type AnalyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// AreaTotals sums minutes and sessions per area in [from, to).
func (r *AnalyticsRepository) AreaTotals(ctx context.Context, userID uint, from, to time.Time) ([]model.AreaTotal, error) {
	builder := sq.Select("l.area", "COALESCE(SUM(l.duration_minutes), 0) AS total_minutes", "COUNT(*) AS sessions").
		From("log_entries l").
		Where(inRange(userID, from, to)).
		GroupBy("l.area").
		OrderBy("l.area ASC")

	var rows []model.AreaTotal
	if err := r.scan(ctx, builder, &rows); err != nil {
		return nil, fmt.Errorf("area totals: %w", err)
	}
	return rows, nil
}

// CategoryBreakdown sums one area's minutes per category, largest first.
func (r *AnalyticsRepository) CategoryBreakdown(ctx context.Context, userID uint, area model.Area, from, to time.Time) ([]model.CategoryTotal, error) {
	builder := sq.Select(
		"l.category_id", "c.name AS category_name", "c.color AS category_color", "c.type AS category_type",
		"COALESCE(SUM(l.duration_minutes), 0) AS total_minutes", "COUNT(*) AS sessions",
	).
		From("log_entries l").
		Join("categories c ON c.id = l.category_id").
		Where(inRange(userID, from, to)).
		Where(sq.Eq{"l.area": area}).
		GroupBy("l.category_id").
		OrderBy("total_minutes DESC", "l.category_id ASC")

	var rows []model.CategoryTotal
	if err := r.scan(ctx, builder, &rows); err != nil {
		return nil, fmt.Errorf("category breakdown: %w", err)
	}
	return rows, nil
}

// Bucket is a labelled half-open instant range. Callers build buckets from
// local calendar boundaries so every row lands in the period it belongs to
// even when the zone offset changes inside the range.
type Bucket struct {
	Label string
	From  time.Time
	To    time.Time
}

type bucketRow struct {
	Label        string
	Area         model.Area
	TotalMinutes int
	Sessions     int
}

// DailySeries sums minutes and sessions per day bucket and area.
func (r *AnalyticsRepository) DailySeries(ctx context.Context, userID uint, days []Bucket) ([]model.DailyTotal, error) {
	rows, err := r.series(ctx, userID, days)
	if err != nil {
		return nil, fmt.Errorf("daily series: %w", err)
	}
	out := make([]model.DailyTotal, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.DailyTotal{Date: row.Label, Area: row.Area, TotalMinutes: row.TotalMinutes, Sessions: row.Sessions})
	}
	return out, nil
}

// WeeklySeries sums minutes and sessions per week bucket and area.
func (r *AnalyticsRepository) WeeklySeries(ctx context.Context, userID uint, weeks []Bucket) ([]model.WeeklyTotal, error) {
	rows, err := r.series(ctx, userID, weeks)
	if err != nil {
		return nil, fmt.Errorf("weekly series: %w", err)
	}
	out := make([]model.WeeklyTotal, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.WeeklyTotal{WeekNumber: row.Label, Area: row.Area, TotalMinutes: row.TotalMinutes, Sessions: row.Sessions})
	}
	return out, nil
}

// series groups logs by the bucket containing their instant. Buckets must be
// contiguous and ordered; labels must sort in bucket order.
func (r *AnalyticsRepository) series(ctx context.Context, userID uint, buckets []Bucket) ([]bucketRow, error) {
	if len(buckets) == 0 {
		return nil, nil
	}
	label := sq.Case()
	for _, b := range buckets {
		label = label.When(
			sq.And{sq.GtOrEq{"l.date_time": b.From.UTC()}, sq.Lt{"l.date_time": b.To.UTC()}},
			sq.Expr("?", b.Label),
		)
	}

	builder := sq.Select().
		Column(sq.Alias(label, "label")).
		Columns("l.area", "COALESCE(SUM(l.duration_minutes), 0) AS total_minutes", "COUNT(*) AS sessions").
		From("log_entries l").
		Where(inRange(userID, buckets[0].From, buckets[len(buckets)-1].To)).
		GroupBy("label", "l.area").
		OrderBy("label ASC", "l.area ASC")

	var rows []bucketRow
	if err := r.scan(ctx, builder, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AnalyticsRepository) scan(ctx context.Context, builder sq.SelectBuilder, dest interface{}) error {
	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Raw(query, args...).Scan(dest).Error
}

func inRange(userID uint, from, to time.Time) sq.And {
	return sq.And{
		sq.Eq{"l.user_id": userID},
		sq.GtOrEq{"l.date_time": from.UTC()},
		sq.Lt{"l.date_time": to.UTC()},
	}
}
