package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"study-tracker/internal/model"
	"study-tracker/internal/repository"
)

// wednesday is the fixed clock most tests run at; its week starts 2024-03-11.
var wednesday = time.Date(2024, time.March, 13, 10, 0, 0, 0, time.UTC)

type fixture struct {
	db         *gorm.DB
	users      *repository.UserRepository
	categories *repository.CategoryRepository
	weekly     *WeeklyPlanService
	logs       *LogService
	plans      *PlanService
	analytics  *AnalyticsService
	reminders  *ReminderService
	userID     uint
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := repository.NewDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", name), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = repository.Close(db) })
	return db
}

func newFixture(t *testing.T, loc *time.Location, now time.Time) *fixture {
	t.Helper()
	db := newTestDB(t)

	users := repository.NewUserRepository(db)
	categories := repository.NewCategoryRepository(db)
	weeklyRepo := repository.NewWeeklyPlanRepository(db)
	logRepo := repository.NewLogRepository(db)
	planRepo := repository.NewPlanRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	clock := func() time.Time { return now }

	weekly := NewWeeklyPlanService(db, weeklyRepo, logRepo, categories, loc)
	weekly.now = clock
	logs := NewLogService(db, logRepo, planRepo, categories, loc)
	logs.now = clock
	plans := NewPlanService(db, planRepo, logRepo, categories, loc)
	plans.now = clock
	analytics := NewAnalyticsService(analyticsRepo, logRepo, planRepo, loc)
	analytics.now = clock

	f := &fixture{
		db:         db,
		users:      users,
		categories: categories,
		weekly:     weekly,
		logs:       logs,
		plans:      plans,
		analytics:  analytics,
		reminders:  NewReminderService(weekly, analyticsRepo),
	}
	f.userID = f.newUser(t, "ana@example.com")
	return f
}

func (f *fixture) newUser(t *testing.T, email string) uint {
	t.Helper()
	ctx := context.Background()
	user := model.User{Name: "Ana", Email: email, PasswordHash: "x"}
	require.NoError(t, f.users.Create(ctx, &user))
	require.NoError(t, NewCategoryService(f.categories).SeedDefaults(ctx, user.ID))
	return user.ID
}

func (f *fixture) category(t *testing.T, userID uint, area model.Area, name string) uint {
	t.Helper()
	list, err := f.categories.ListByUser(context.Background(), userID, area, false)
	require.NoError(t, err)
	for _, c := range list {
		if c.Name == name {
			return c.ID
		}
	}
	t.Fatalf("category %s/%s not seeded", area, name)
	return 0
}

func (f *fixture) template(t *testing.T, area model.Area, day int, category, title string) uint {
	t.Helper()
	view, err := f.weekly.Create(context.Background(), f.userID, WeeklyPlanInput{
		Area:       area,
		DayOfWeek:  day,
		CategoryID: f.category(t, f.userID, area, category),
		Title:      title,
	})
	require.NoError(t, err)
	return view.ID
}

func findStatus(items []model.WeekStatus, id uint) *model.WeekStatus {
	for i := range items {
		if items[i].ID == id {
			return &items[i]
		}
	}
	return nil
}
