package models

// MealType identifies one of the three daily meal slots
type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
)

// Meal is one meal record inside a template day
type Meal struct {
	Name     string `json:"name" yaml:"name"`
	Calories int    `json:"calories" yaml:"calories"`
	Protein  int    `json:"protein" yaml:"protein"`
}

// DayMeals holds the meal slots a template defines for one weekday.
// Absent slots are nil; a missing slot yields no plan action.
type DayMeals struct {
	Breakfast *Meal `json:"breakfast,omitempty" yaml:"breakfast,omitempty"`
	Lunch     *Meal `json:"lunch,omitempty" yaml:"lunch,omitempty"`
	Dinner    *Meal `json:"dinner,omitempty" yaml:"dinner,omitempty"`
}

// Slot returns the meal for the given slot, or nil if the template omits it
func (d *DayMeals) Slot(t MealType) *Meal {
	if d == nil {
		return nil
	}
	switch t {
	case MealTypeBreakfast:
		return d.Breakfast
	case MealTypeLunch:
		return d.Lunch
	case MealTypeDinner:
		return d.Dinner
	default:
		return nil
	}
}
