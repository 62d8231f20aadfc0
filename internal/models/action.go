package models

// ActionType discriminates the source a plan action was derived from
type ActionType string

const (
	ActionTypeProtocol ActionType = "protocol"
	ActionTypeGoal     ActionType = "goal"
	ActionTypeEnergy   ActionType = "energy"
	ActionTypeHabit    ActionType = "habit"
	ActionTypeMeal     ActionType = "meal"
)

// ActionCategory classifies an action for plan presentation and scoring
type ActionCategory string

const (
	CategoryQuickWin      ActionCategory = "quick_win"
	CategoryEnergyBooster ActionCategory = "energy_booster"
	CategoryDeepPractice  ActionCategory = "deep_practice"
	CategoryOptional      ActionCategory = "optional"
	CategoryNutrition     ActionCategory = "nutrition"
)

// TimeOfDay is a coarse scheduling bucket within a day
type TimeOfDay string

const (
	TimeOfDayMorning   TimeOfDay = "morning"
	TimeOfDayAfternoon TimeOfDay = "afternoon"
	TimeOfDayEvening   TimeOfDay = "evening"
)

// TimeOfDayRank orders time buckets within a day (morning first)
func TimeOfDayRank(t TimeOfDay) int {
	switch t {
	case TimeOfDayMorning:
		return 0
	case TimeOfDayAfternoon:
		return 1
	case TimeOfDayEvening:
		return 2
	default:
		return 3
	}
}

// Action is one normalized, schedulable unit of recommended behavior.
// Actions are derived values: they are rebuilt in full on every plan
// computation and never persisted. Exactly one source linkage field is
// set, matching Type.
type Action struct {
	ID               string         `json:"id"`
	Type             ActionType     `json:"type"`
	Title            string         `json:"title"`
	Description      string         `json:"description,omitempty"`
	Category         ActionCategory `json:"category"`
	EstimatedMinutes int            `json:"estimated_minutes"`
	Priority         float64        `json:"priority"`
	TimeOfDay        []TimeOfDay    `json:"time_of_day,omitempty"`
	Completed        bool           `json:"completed"`

	// Source linkage (exactly one set, matching Type)
	ProtocolItemID *string   `json:"protocol_item_id,omitempty"`
	GoalID         *string   `json:"goal_id,omitempty"`
	EnergyActionID *string   `json:"energy_action_id,omitempty"`
	MealType       *MealType `json:"meal_type,omitempty"`

	// ChildItems carries per-item completion for grouped weekly actions
	// (supplement buckets) so the UI can drill down.
	ChildItems []ChildItem `json:"child_items,omitempty"`
}

// ChildItem is one constituent of a grouped weekly action
type ChildItem struct {
	ProtocolItemID string `json:"protocol_item_id"`
	Title          string `json:"title"`
	Completed      bool   `json:"completed"`
}
