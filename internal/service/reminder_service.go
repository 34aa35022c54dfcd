package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"study-tracker/internal/model"
	"study-tracker/internal/repository"
)

var dayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var areaIcons = map[model.Area]string{
	model.AreaStudy:    "📚",
	model.AreaFootball: "⚽",
}

// ReminderService builds human-readable summaries for the bot.
type ReminderService struct {
	weekly    *WeeklyPlanService
	analytics *repository.AnalyticsRepository
}

func NewReminderService(weekly *WeeklyPlanService, analytics *repository.AnalyticsRepository) *ReminderService {
	return &ReminderService{weekly: weekly, analytics: analytics}
}

// DailySummary lists today's templates that have no log yet this week,
// followed by what was already logged today.
func (s *ReminderService) DailySummary(ctx context.Context, user model.User, now time.Time) (string, error) {
	loc := s.weekly.Location()
	now = now.In(loc)
	weekStart := WeekStart(now, loc)

	items, err := s.weekly.WeekStatus(ctx, user.ID, weekStart, nil)
	if err != nil {
		return "", err
	}
	today := dayOfWeek(now, loc)

	var builder strings.Builder
	builder.WriteString("📋 <b>Daily plan</b>\n")
	builder.WriteString(fmt.Sprintf("🗓 %s, %s\n", dayNames[today], now.Format("02.01.2006")))

	for _, area := range model.Areas {
		var pending []model.WeekStatus
		for _, item := range items {
			if item.Area == area && item.DayOfWeek == today && !item.IsCompleted {
				pending = append(pending, item)
			}
		}
		builder.WriteString(fmt.Sprintf("\n%s <b>%s</b>\n", areaIcons[area], areaTitle(area)))
		if len(pending) == 0 {
			builder.WriteString("nothing left for today\n")
			continue
		}
		for _, item := range pending {
			builder.WriteString(formatStatus(item))
		}
	}

	done, err := s.todayTotals(ctx, user.ID, now)
	if err != nil {
		return "", err
	}
	if done != "" {
		builder.WriteString("\n✅ <b>Logged today</b>\n")
		builder.WriteString(done)
	}

	return strings.TrimSpace(builder.String()), nil
}

// WeekSummary renders the derived status of a week grouped by day. The
// items are returned too so callers can attach controls to them.
func (s *ReminderService) WeekSummary(ctx context.Context, userID uint, weekStart time.Time) (string, []model.WeekStatus, error) {
	items, err := s.weekly.WeekStatus(ctx, userID, weekStart, nil)
	if err != nil {
		return "", nil, err
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("🗓 <b>Week of %s</b>\n", weekStart.Format("02.01.2006")))
	if len(items) == 0 {
		builder.WriteString("\nNo weekly plans yet.\n")
		return strings.TrimSpace(builder.String()), items, nil
	}

	done := 0
	day := -1
	for _, item := range items {
		if item.DayOfWeek != day {
			day = item.DayOfWeek
			builder.WriteString(fmt.Sprintf("\n<b>%s</b>\n", dayNames[day]))
		}
		builder.WriteString(formatStatus(item))
		if item.IsCompleted {
			done++
		}
	}
	builder.WriteString(fmt.Sprintf("\nDone: %d/%d", done, len(items)))

	return strings.TrimSpace(builder.String()), items, nil
}

// TodaySummary reports minutes and sessions logged today per area.
func (s *ReminderService) TodaySummary(ctx context.Context, userID uint, now time.Time) (string, error) {
	now = now.In(s.weekly.Location())
	totals, err := s.todayTotals(ctx, userID, now)
	if err != nil {
		return "", err
	}
	header := fmt.Sprintf("📊 <b>Today</b> (%s)\n", now.Format("02.01.2006"))
	if totals == "" {
		return header + "Nothing logged yet.", nil
	}
	return strings.TrimSpace(header + totals), nil
}

func (s *ReminderService) todayTotals(ctx context.Context, userID uint, now time.Time) (string, error) {
	from, to := dayRange(now)
	totals, err := s.analytics.AreaTotals(ctx, userID, from, to)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, total := range totals {
		sb.WriteString(fmt.Sprintf("%s %s: %d min · %d session(s)\n",
			areaIcons[total.Area], areaTitle(total.Area), total.TotalMinutes, total.Sessions))
	}
	return sb.String(), nil
}

func formatStatus(item model.WeekStatus) string {
	var sb strings.Builder

	icon := "⬜"
	if item.IsCompleted {
		icon = "✅"
	}
	sb.WriteString(fmt.Sprintf("%s %s", icon, html.EscapeString(strings.TrimSpace(item.Title))))

	if item.CategoryName != nil {
		if name := strings.TrimSpace(*item.CategoryName); name != "" {
			sb.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(name)))
		}
	}
	sb.WriteString(fmt.Sprintf(" · %d min", item.DurationMinutes))
	if item.Intensity != nil {
		sb.WriteString(fmt.Sprintf(" · %s", *item.Intensity))
	}

	sb.WriteByte('\n')
	return sb.String()
}

func areaTitle(area model.Area) string {
	if area == model.AreaFootball {
		return "Football"
	}
	return "Study"
}
