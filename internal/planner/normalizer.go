package planner

import (
	"fmt"

	"github.com/biohackher/vitality-api/internal/models"
)

// Category and duration lookup tables, fixed at normalization time.
// An action's category is assigned once here and never changes afterward.
var itemCategories = map[models.ProtocolItemType]models.ActionCategory{
	models.ItemTypeSupplement: models.CategoryQuickWin,
	models.ItemTypeDiet:       models.CategoryQuickWin,
	models.ItemTypeHabit:      models.CategoryEnergyBooster,
	models.ItemTypeExercise:   models.CategoryDeepPractice,
	models.ItemTypeTherapy:    models.CategoryDeepPractice,
}

var itemMinutes = map[models.ProtocolItemType]int{
	models.ItemTypeSupplement: 2,
	models.ItemTypeHabit:      10,
	models.ItemTypeDiet:       15,
	models.ItemTypeTherapy:    20,
	models.ItemTypeExercise:   30,
}

const (
	defaultItemMinutes = 10
	goalMinutes        = 30
	energyMinutes      = 15
)

var mealMinutes = map[models.MealType]int{
	models.MealTypeBreakfast: 15,
	models.MealTypeLunch:     20,
	models.MealTypeDinner:    30,
}

var mealTimeOfDay = map[models.MealType]models.TimeOfDay{
	models.MealTypeBreakfast: models.TimeOfDayMorning,
	models.MealTypeLunch:     models.TimeOfDayAfternoon,
	models.MealTypeDinner:    models.TimeOfDayEvening,
}

// ItemCategory maps a protocol item type to its plan category
func ItemCategory(t models.ProtocolItemType) models.ActionCategory {
	if c, ok := itemCategories[t]; ok {
		return c
	}
	return models.CategoryOptional
}

// ItemMinutes maps a protocol item type to its estimated duration
func ItemMinutes(t models.ProtocolItemType) int {
	if m, ok := itemMinutes[t]; ok {
		return m
	}
	return defaultItemMinutes
}

// NormalizeProtocolItem converts a protocol item into a plan action.
// Action ids are derived deterministically from the source id so that
// recomputation over identical inputs yields identical ids.
func NormalizeProtocolItem(item *models.ProtocolItem) models.Action {
	itemID := item.ID.String()
	return models.Action{
		ID:               fmt.Sprintf("protocol-%s", itemID),
		Type:             models.ActionTypeProtocol,
		Title:            item.Name,
		Description:      item.Description,
		Category:         ItemCategory(item.ItemType),
		EstimatedMinutes: ItemMinutes(item.ItemType),
		TimeOfDay:        item.TimeOfDay,
		ProtocolItemID:   &itemID,
	}
}

// NormalizeGoal converts an active goal into one synthetic deep-practice action
func NormalizeGoal(goal *models.Goal) models.Action {
	goalID := goal.ID.String()
	return models.Action{
		ID:               fmt.Sprintf("goal-%s", goalID),
		Type:             models.ActionTypeGoal,
		Title:            fmt.Sprintf("Work on: %s", goal.Title),
		Description:      goal.Description,
		Category:         models.CategoryDeepPractice,
		EstimatedMinutes: goalMinutes,
		GoalID:           &goalID,
	}
}

// NormalizeEnergyAction converts an energy-loop action into a plan action
func NormalizeEnergyAction(ea *models.EnergyAction) models.Action {
	eaID := ea.ID.String()
	return models.Action{
		ID:               fmt.Sprintf("energy-%s", eaID),
		Type:             models.ActionTypeEnergy,
		Title:            ea.Title,
		Description:      ea.Description,
		Category:         models.CategoryEnergyBooster,
		EstimatedMinutes: energyMinutes,
		EnergyActionID:   &eaID,
	}
}

// NormalizeMeal converts a template meal slot into a nutrition action.
// The date key participates in the id since meals are per-day instances.
func NormalizeMeal(slot models.MealType, meal *models.Meal, dateKey string) models.Action {
	mealType := slot
	return models.Action{
		ID:               fmt.Sprintf("meal-%s-%s", slot, dateKey),
		Type:             models.ActionTypeMeal,
		Title:            meal.Name,
		Description:      fmt.Sprintf("%d kcal, %dg protein", meal.Calories, meal.Protein),
		Category:         models.CategoryNutrition,
		EstimatedMinutes: mealMinutes[slot],
		TimeOfDay:        []models.TimeOfDay{mealTimeOfDay[slot]},
		MealType:         &mealType,
	}
}

// normalizeMealsForDay emits actions for the slots present in a template day,
// in breakfast/lunch/dinner order. A missing slot yields no action.
func normalizeMealsForDay(day *models.DayMeals, dateKey string) []models.Action {
	if day == nil {
		return nil
	}
	var actions []models.Action
	for _, slot := range []models.MealType{models.MealTypeBreakfast, models.MealTypeLunch, models.MealTypeDinner} {
		if meal := day.Slot(slot); meal != nil {
			actions = append(actions, NormalizeMeal(slot, meal, dateKey))
		}
	}
	return actions
}
