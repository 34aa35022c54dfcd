package service

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-tracker/internal/model"
)

func TestWeeklyAnalytics(t *testing.T) {
	f := newFixture(t, time.UTC, wednesday)
	ctx := context.Background()
	monday := WeekStart(wednesday, time.UTC)

	f.logAt(t, model.AreaStudy, "Physics", monday.Add(9*time.Hour), 30)
	f.logAt(t, model.AreaStudy, "Physics", monday.Add(20*time.Hour), 15)
	f.logAt(t, model.AreaStudy, "Mathematics", monday.Add(33*time.Hour), 60)
	f.logAt(t, model.AreaFootball, "Match", monday.Add(33*time.Hour), 90)
	f.logAt(t, model.AreaStudy, "Physics", monday.AddDate(0, 0, 7), 500)

	report, err := f.analytics.Weekly(ctx, f.userID, monday)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-11", report.WeekStart)
	assert.Equal(t, "2024-03-17", report.WeekEnd)

	require.Len(t, report.Totals, 2)
	assert.Equal(t, model.AreaFootball, report.Totals[0].Area)
	assert.Equal(t, 90, report.Totals[0].TotalMinutes)
	assert.Equal(t, model.AreaStudy, report.Totals[1].Area)
	assert.Equal(t, 105, report.Totals[1].TotalMinutes)
	assert.Equal(t, 3, report.Totals[1].Sessions)

	require.Len(t, report.Categories, 2)
	study := report.Categories[0]
	assert.Equal(t, model.AreaStudy, study.Area)
	require.Len(t, study.Categories, 2)
	assert.Equal(t, "Mathematics", *study.Categories[0].CategoryName)
	assert.Equal(t, 60, study.Categories[0].TotalMinutes)
	assert.Equal(t, 45, study.Categories[1].TotalMinutes)

	require.Len(t, report.Daily, 3)
	assert.Equal(t, model.DailyTotal{Date: "2024-03-11", Area: model.AreaStudy, TotalMinutes: 45, Sessions: 2}, report.Daily[0])
	assert.Equal(t, "2024-03-12", report.Daily[1].Date)

	_, err = f.analytics.Weekly(ctx, f.userID, wednesday)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestWeeklyAnalyticsShiftsDatesIntoZone(t *testing.T) {
	plus3 := time.FixedZone("UTC+3", 3*60*60)
	f := newFixture(t, plus3, wednesday)
	monday := time.Date(2024, time.March, 11, 0, 0, 0, 0, plus3)

	// 22:30 UTC on Monday is already Tuesday locally.
	f.logAt(t, model.AreaStudy, "Physics", time.Date(2024, time.March, 11, 22, 30, 0, 0, time.UTC), 30)

	report, err := f.analytics.Weekly(context.Background(), f.userID, monday)
	require.NoError(t, err)
	require.Len(t, report.Daily, 1)
	assert.Equal(t, "2024-03-12", report.Daily[0].Date)
}

func TestWeeklyAnalyticsAcrossDSTChange(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	f := newFixture(t, berlin, wednesday)
	monday := time.Date(2024, time.October, 21, 0, 0, 0, 0, berlin)

	// Clocks fall back on Sunday 27 October; both logs stay on their local day.
	f.logAt(t, model.AreaStudy, "Physics", time.Date(2024, time.October, 21, 0, 30, 0, 0, berlin), 20)
	f.logAt(t, model.AreaStudy, "Physics", time.Date(2024, time.October, 27, 23, 30, 0, 0, berlin), 40)
	f.logAt(t, model.AreaStudy, "Physics", time.Date(2024, time.October, 28, 0, 30, 0, 0, berlin), 90)

	report, err := f.analytics.Weekly(context.Background(), f.userID, monday)
	require.NoError(t, err)
	assert.Equal(t, "2024-10-27", report.WeekEnd)
	require.Len(t, report.Daily, 2)
	assert.Equal(t, model.DailyTotal{Date: "2024-10-21", Area: model.AreaStudy, TotalMinutes: 20, Sessions: 1}, report.Daily[0])
	assert.Equal(t, model.DailyTotal{Date: "2024-10-27", Area: model.AreaStudy, TotalMinutes: 40, Sessions: 1}, report.Daily[1])
	require.Len(t, report.Totals, 1)
	assert.Equal(t, 60, report.Totals[0].TotalMinutes)
}

func TestMonthlyAnalyticsWeeksAcrossDSTChange(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	f := newFixture(t, berlin, wednesday)

	f.logAt(t, model.AreaStudy, "Physics", time.Date(2024, time.October, 27, 23, 30, 0, 0, berlin), 40)
	f.logAt(t, model.AreaStudy, "Physics", time.Date(2024, time.October, 28, 0, 30, 0, 0, berlin), 90)
	f.logAt(t, model.AreaStudy, "Physics", time.Date(2024, time.November, 1, 0, 30, 0, 0, berlin), 500)

	report, err := f.analytics.Monthly(context.Background(), f.userID, 2024, 10)
	require.NoError(t, err)
	require.Len(t, report.Weekly, 2)
	assert.Equal(t, model.WeeklyTotal{WeekNumber: "43", Area: model.AreaStudy, TotalMinutes: 40, Sessions: 1}, report.Weekly[0])
	assert.Equal(t, model.WeeklyTotal{WeekNumber: "44", Area: model.AreaStudy, TotalMinutes: 90, Sessions: 1}, report.Weekly[1])
}

func TestWeekBuckets(t *testing.T) {
	from := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	buckets := weekBuckets(from, from.AddDate(0, 1, 0))

	require.Len(t, buckets, 5)
	assert.Equal(t, "09", buckets[0].Label)
	assert.True(t, buckets[0].To.Equal(time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "13", buckets[4].Label)
	assert.True(t, buckets[4].To.Equal(time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "00", weekOfYear(time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)))
}

func TestMonthlyAnalytics(t *testing.T) {
	f := newFixture(t, time.UTC, wednesday)
	ctx := context.Background()

	f.logAt(t, model.AreaStudy, "Physics", time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC), 30)
	f.logAt(t, model.AreaStudy, "Physics", time.Date(2024, time.March, 13, 9, 0, 0, 0, time.UTC), 40)
	f.logAt(t, model.AreaFootball, "Match", time.Date(2024, time.March, 31, 18, 0, 0, 0, time.UTC), 90)
	f.logAt(t, model.AreaStudy, "Physics", time.Date(2024, time.April, 1, 9, 0, 0, 0, time.UTC), 20)

	report, err := f.analytics.Monthly(ctx, f.userID, 2024, 3)
	require.NoError(t, err)
	require.Len(t, report.Totals, 2)
	assert.Equal(t, 70, report.Totals[1].TotalMinutes)
	assert.Len(t, report.Weekly, 3)

	_, err = f.analytics.Monthly(ctx, f.userID, 2024, 13)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDashboard(t *testing.T) {
	f := newFixture(t, time.UTC, wednesday)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		f.logAt(t, model.AreaStudy, "Physics", wednesday.Add(-time.Duration(i)*12*time.Hour), 10)
	}
	f.plan(t, "2024-03-13", model.AreaStudy, "Physics")
	f.plan(t, "2024-03-14", model.AreaStudy, "Physics")

	dash, err := f.analytics.Dashboard(ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, dash.Today, 1)
	assert.Equal(t, 1, dash.Today[0].Sessions)
	require.Len(t, dash.Week, 1)
	assert.Equal(t, 5, dash.Week[0].Sessions)
	assert.EqualValues(t, 1, dash.PendingPlans)
	assert.Len(t, dash.RecentLogs, 5)
}
