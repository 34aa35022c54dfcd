package model

// AreaTotal is the summed activity of one area over a range.
type AreaTotal struct {
	Area         Area `json:"area"`
	TotalMinutes int  `json:"totalMinutes"`
	Sessions     int  `json:"sessions"`
}

// CategoryTotal is the summed activity of one category over a range.
type CategoryTotal struct {
	CategoryID    uint    `json:"categoryId"`
	CategoryName  *string `json:"categoryName"`
	CategoryColor *string `json:"categoryColor"`
	CategoryType  *string `json:"categoryType,omitempty"`
	TotalMinutes  int     `json:"totalMinutes"`
	Sessions      int     `json:"sessions"`
}

// DailyTotal is one point of the per-day series.
type DailyTotal struct {
	Date         string `json:"date"`
	Area         Area   `json:"area"`
	TotalMinutes int    `json:"totalMinutes"`
	Sessions     int    `json:"sessions"`
}

// WeeklyTotal is one point of the per-week series, keyed by week of year.
type WeeklyTotal struct {
	WeekNumber   string `json:"weekNumber"`
	Area         Area   `json:"area"`
	TotalMinutes int    `json:"totalMinutes"`
	Sessions     int    `json:"sessions"`
}
