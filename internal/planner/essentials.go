package planner

import "github.com/biohackher/vitality-api/internal/models"

// Essential is one entry of the fixed daily-essentials catalog
type Essential struct {
	ID               string
	Title            string
	Category         models.ActionCategory
	EstimatedMinutes int
	TimeOfDay        models.TimeOfDay
}

// DailyEssentials is the fixed, non-personalized baseline shown every day.
// The set is identical for every user and every date.
var DailyEssentials = []Essential{
	{ID: "morning_sunlight", Title: "Get 10 minutes of morning sunlight", Category: models.CategoryEnergyBooster, EstimatedMinutes: 10, TimeOfDay: models.TimeOfDayMorning},
	{ID: "hydration", Title: "Drink a full glass of water", Category: models.CategoryQuickWin, EstimatedMinutes: 2, TimeOfDay: models.TimeOfDayMorning},
	{ID: "deep_breathing", Title: "5 minutes of deep breathing", Category: models.CategoryEnergyBooster, EstimatedMinutes: 5, TimeOfDay: models.TimeOfDayAfternoon},
	{ID: "sleep_log", Title: "Log your sleep", Category: models.CategoryQuickWin, EstimatedMinutes: 2, TimeOfDay: models.TimeOfDayEvening},
}

// IsEssentialID reports whether id names a catalog essential
func IsEssentialID(id string) bool {
	for _, e := range DailyEssentials {
		if e.ID == id {
			return true
		}
	}
	return false
}

// normalizeEssential converts a catalog essential into a per-day action
func normalizeEssential(e Essential, dateKey string) models.Action {
	return models.Action{
		ID:               "essential-" + e.ID + "-" + dateKey,
		Type:             models.ActionTypeHabit,
		Title:            e.Title,
		Category:         e.Category,
		EstimatedMinutes: e.EstimatedMinutes,
		TimeOfDay:        []models.TimeOfDay{e.TimeOfDay},
	}
}
