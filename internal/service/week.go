package service

import (
	"fmt"
	"time"

	"study-tracker/internal/model"
	"study-tracker/internal/repository"
)

// WeekStart returns local midnight of the Monday on or before t.
func WeekStart(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	offset := (int(local.Weekday()) + 6) % 7 // Monday = 0
	y, m, d := local.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
}

// ParseDate parses a YYYY-MM-DD string as local midnight.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(model.DateLayout, raw, loc)
	if err != nil {
		return time.Time{}, validationf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return t, nil
}

// ParseWeekStart parses a YYYY-MM-DD string that must fall on a Monday.
func ParseWeekStart(raw string, loc *time.Location) (time.Time, error) {
	if raw == "" {
		return time.Time{}, validationf("weekStart is required")
	}
	t, err := ParseDate(raw, loc)
	if err != nil {
		return time.Time{}, err
	}
	if t.Weekday() != time.Monday {
		return time.Time{}, validationf("weekStart %s is not a Monday", raw)
	}
	return t, nil
}

// weekRange returns the half-open instant range [start, start+7d) for a week.
func weekRange(weekStart time.Time) (time.Time, time.Time) {
	return weekStart, weekStart.AddDate(0, 0, 7)
}

// dayRange returns the half-open instant range covering one local day.
func dayRange(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	return start, start.AddDate(0, 0, 1)
}

func formatDate(t time.Time) string {
	return t.Format(model.DateLayout)
}

// dayOfWeek maps a time to 0 = Monday .. 6 = Sunday in loc.
func dayOfWeek(t time.Time, loc *time.Location) int {
	return (int(t.In(loc).Weekday()) + 6) % 7
}

// dayBuckets splits [from, to) into local calendar days labelled YYYY-MM-DD.
func dayBuckets(from, to time.Time) []repository.Bucket {
	var buckets []repository.Bucket
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		start, end := dayRange(day)
		buckets = append(buckets, repository.Bucket{Label: formatDate(start), From: start, To: end})
	}
	return buckets
}

// weekBuckets splits [from, to) at local Mondays, labelling each piece with
// its Monday-based week of year ("00".."53", as strftime %W).
func weekBuckets(from, to time.Time) []repository.Bucket {
	var buckets []repository.Bucket
	for start := from; start.Before(to); {
		end := WeekStart(start, start.Location()).AddDate(0, 0, 7)
		if end.After(to) {
			end = to
		}
		buckets = append(buckets, repository.Bucket{Label: weekOfYear(start), From: start, To: end})
		start = end
	}
	return buckets
}

// weekOfYear numbers weeks from the first Monday of the year; earlier days
// are week 00.
func weekOfYear(t time.Time) string {
	yday := t.YearDay() - 1
	weekday := (int(t.Weekday()) + 6) % 7
	return fmt.Sprintf("%02d", (yday+7-weekday)/7)
}
