package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-tracker/internal/model"
)

func (f *fixture) plan(t *testing.T, date string, area model.Area, category string) *model.PlanItemView {
	t.Helper()
	view, err := f.plans.Create(context.Background(), f.userID, PlanInput{
		Date:       date,
		Area:       area,
		Title:      category + " plan",
		CategoryID: f.category(t, f.userID, area, category),
	})
	require.NoError(t, err)
	return view
}

func TestPlanCreateValidation(t *testing.T) {
	f := newFixture(t, time.UTC, wednesday)
	ctx := context.Background()
	physics := f.category(t, f.userID, model.AreaStudy, "Physics")

	_, err := f.plans.Create(ctx, f.userID, PlanInput{Date: "2024-13-01", Area: model.AreaStudy, Title: "x", CategoryID: physics})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.plans.Create(ctx, f.userID, PlanInput{Date: "2024-03-13", Area: model.AreaStudy, Title: "", CategoryID: physics})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.plans.Create(ctx, f.userID, PlanInput{Date: "2024-03-13", Area: model.AreaFootball, Title: "x", CategoryID: physics})
	assert.ErrorIs(t, err, ErrValidation)

	view := f.plan(t, "2024-03-13", model.AreaStudy, "Physics")
	assert.Equal(t, model.PlanStatusPlanned, view.Status)
	assert.Equal(t, model.DefaultDurationMinutes, view.DurationMinutes)
}

func TestPlanListWeek(t *testing.T) {
	f := newFixture(t, time.UTC, wednesday)
	ctx := context.Background()
	f.plan(t, "2024-03-10", model.AreaStudy, "Physics")
	f.plan(t, "2024-03-11", model.AreaStudy, "Physics")
	f.plan(t, "2024-03-17", model.AreaFootball, "Match")
	f.plan(t, "2024-03-18", model.AreaStudy, "Physics")

	items, err := f.plans.ListWeek(ctx, f.userID, WeekStart(wednesday, time.UTC), nil)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "2024-03-11", items[0].Date)
	assert.Equal(t, "2024-03-17", items[1].Date)

	football := model.AreaFootball
	items, err = f.plans.ListWeek(ctx, f.userID, WeekStart(wednesday, time.UTC), &football)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = f.plans.ListWeek(ctx, f.userID, wednesday, nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPlanCompleteTwiceConflicts(t *testing.T) {
	f := newFixture(t, time.UTC, wednesday)
	ctx := context.Background()
	view := f.plan(t, "2024-03-13", model.AreaFootball, "Endurance")

	minutes := 75
	entry, err := f.plans.Complete(ctx, f.userID, view.ID, PlanCompletion{DurationMinutes: &minutes})
	require.NoError(t, err)
	require.NotNil(t, entry.PlanItemID)
	assert.Equal(t, view.ID, *entry.PlanItemID)
	assert.Equal(t, 75, entry.DurationMinutes)
	assert.True(t, entry.DateTime.Equal(wednesday))
	require.NotNil(t, entry.Points)
	assert.Equal(t, 2, *entry.Points)

	_, err = f.plans.Complete(ctx, f.userID, view.ID, PlanCompletion{})
	assert.ErrorIs(t, err, ErrConflict)

	count, err := f.plans.CountPlannedToday(ctx, f.userID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPlanCompleteForAnotherDayLogsOnThatDay(t *testing.T) {
	f := newFixture(t, time.UTC, wednesday)
	view := f.plan(t, "2024-03-15", model.AreaStudy, "Biology")

	entry, err := f.plans.Complete(context.Background(), f.userID, view.ID, PlanCompletion{})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", entry.DateTime.UTC().Format(model.DateLayout))
}

func TestPlanSkipUpdateDelete(t *testing.T) {
	f := newFixture(t, time.UTC, wednesday)
	ctx := context.Background()
	view := f.plan(t, "2024-03-13", model.AreaStudy, "English")

	skipped, err := f.plans.Skip(ctx, f.userID, view.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PlanStatusSkipped, skipped.Status)

	planned := model.PlanStatusPlanned
	date := "2024-03-14"
	updated, err := f.plans.Update(ctx, f.userID, view.ID, PlanUpdate{Status: &planned, Date: &date})
	require.NoError(t, err)
	assert.Equal(t, model.PlanStatusPlanned, updated.Status)
	assert.Equal(t, "2024-03-14", updated.Date)

	bogus := model.PlanStatus("maybe")
	_, err = f.plans.Update(ctx, f.userID, view.ID, PlanUpdate{Status: &bogus})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, f.plans.Delete(ctx, f.userID, view.ID))
	assert.ErrorIs(t, f.plans.Delete(ctx, f.userID, view.ID), ErrNotFound)
	_, err = f.plans.Skip(ctx, f.userID, view.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
