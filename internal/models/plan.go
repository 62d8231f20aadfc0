package models

import "time"

// DailyPlan is today's ranked action list plus derived views.
// It is a derived snapshot: recomputed in full from the source stores
// on every build, never persisted as a source of truth.
type DailyPlan struct {
	UserID               string    `json:"user_id"`
	Date                 string    `json:"date"` // YYYY-MM-DD
	Actions              []Action  `json:"actions"`
	CompletedCount       int       `json:"completed_count"`
	TotalCount           int       `json:"total_count"`
	CompletionPercentage int       `json:"completion_percentage"`
	QuickWins            []Action  `json:"quick_wins"`
	EnergyBoosters       []Action  `json:"energy_boosters"`
	DeepPractices        []Action  `json:"deep_practices"`
	Top3                 []Action  `json:"top3"`
	Warnings             []string  `json:"warnings,omitempty"`
	GeneratedAt          time.Time `json:"generated_at"`
}

// WeeklyDay is one day's entry in the weekly plan grid
type WeeklyDay struct {
	Date           string   `json:"date"` // YYYY-MM-DD
	DayOfWeek      int      `json:"day_of_week"` // 0 = Sunday
	Actions        []Action `json:"actions"`
	CompletedCount int      `json:"completed_count"`
	TotalCount     int      `json:"total_count"`
}

// WeeklyPlanData covers exactly 7 consecutive days starting at the
// Monday on or before the requested anchor date.
type WeeklyPlanData struct {
	UserID      string      `json:"user_id"`
	WeekStart   string      `json:"week_start"` // YYYY-MM-DD, always a Monday
	Days        []WeeklyDay `json:"days"`
	Warnings    []string    `json:"warnings,omitempty"`
	GeneratedAt time.Time   `json:"generated_at"`
}
