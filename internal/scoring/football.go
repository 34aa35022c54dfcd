// Package scoring turns completed football sessions into attribute points
// and compares them against weekly targets.
package scoring

import (
	"sort"

	"study-tracker/internal/model"
)

// Attribute is a trained football quality.
type Attribute string

const (
	Technique Attribute = "Technique"
	Endurance Attribute = "Endurance"
	Strength  Attribute = "Strength"
	Tactic    Attribute = "Tactic"
	Recovery  Attribute = "Recovery"
)

// Attributes lists every attribute in display order.
var Attributes = []Attribute{Technique, Endurance, Strength, Tactic, Recovery}

// Rules maps a session type (the category name) to the points it awards.
var Rules = map[string]map[Attribute]int{
	"Technique":     {Technique: 2},
	"Endurance":     {Endurance: 2},
	"Strength":      {Strength: 2},
	"Tactic":        {Tactic: 1},
	"Recovery":      {Recovery: 1},
	"Team Training": {Technique: 2, Endurance: 2, Tactic: 1},
	"Match":         {Technique: 2, Endurance: 2, Tactic: 1},
	"Physio":        {Strength: 1, Recovery: 2},
}

// WeeklyTargets are the minimum points per attribute per week.
var WeeklyTargets = map[Attribute]int{
	Technique: 18,
	Endurance: 12,
	Strength:  4,
	Tactic:    5,
	Recovery:  6,
}

var suggestions = map[Attribute]string{
	Technique: "Technique session",
	Endurance: "Endurance session",
	Strength:  "Strength session",
	Tactic:    "Tactic session or Team Training",
	Recovery:  "Recovery session or Physio",
}

// SessionTypes returns the known session types, sorted.
func SessionTypes() []string {
	types := make([]string, 0, len(Rules))
	for name := range Rules {
		types = append(types, name)
	}
	sort.Strings(types)
	return types
}

// PointsFor sums the points a single session of this type awards.
// It returns nil for unknown session types.
func PointsFor(sessionType string) *int {
	rule, ok := Rules[sessionType]
	if !ok {
		return nil
	}
	total := 0
	for _, pts := range rule {
		total += pts
	}
	return &total
}

// Warning flags an attribute below its weekly target.
type Warning struct {
	Attribute  Attribute `json:"attribute"`
	Current    int       `json:"current"`
	Target     int       `json:"target"`
	Shortfall  int       `json:"shortfall"`
	Suggestion string    `json:"suggestion"`
}

// Report is the scored result of one week.
type Report struct {
	Totals        map[Attribute]int `json:"totals"`
	Targets       map[Attribute]int `json:"targets"`
	SessionCounts map[string]int    `json:"sessionCounts"`
	Groups        GroupTotals       `json:"groups"`
	Warnings      []Warning         `json:"warnings"`
}

// GroupTotals aggregates session types shown together.
type GroupTotals struct {
	TeamTrainingAndMatch int `json:"teamTrainingAndMatch"`
}

// Calculate scores the completed items of a derived week. Items that are not
// completed, or whose category is not a known session type, are ignored.
func Calculate(items []model.WeekStatus) Report {
	totals := make(map[Attribute]int, len(Attributes))
	for _, attr := range Attributes {
		totals[attr] = 0
	}
	counts := make(map[string]int)

	for _, item := range items {
		if !item.IsCompleted || item.CategoryName == nil {
			continue
		}
		name := *item.CategoryName
		rule, ok := Rules[name]
		if !ok {
			continue
		}
		for attr, pts := range rule {
			totals[attr] += pts
		}
		counts[name]++
	}

	targets := make(map[Attribute]int, len(WeeklyTargets))
	for attr, target := range WeeklyTargets {
		targets[attr] = target
	}

	return Report{
		Totals:        totals,
		Targets:       targets,
		SessionCounts: counts,
		Groups:        GroupTotals{TeamTrainingAndMatch: counts["Team Training"] + counts["Match"]},
		Warnings:      warnings(totals),
	}
}

func warnings(totals map[Attribute]int) []Warning {
	out := []Warning{}
	for _, attr := range Attributes {
		target := WeeklyTargets[attr]
		current := totals[attr]
		if current < target {
			out = append(out, Warning{
				Attribute:  attr,
				Current:    current,
				Target:     target,
				Shortfall:  target - current,
				Suggestion: suggestions[attr],
			})
		}
	}
	return out
}
