package models

import (
	"time"

	"github.com/google/uuid"
)

// ProtocolItemType represents the kind of item inside a protocol
type ProtocolItemType string

const (
	ItemTypeSupplement ProtocolItemType = "supplement"
	ItemTypeTherapy    ProtocolItemType = "therapy"
	ItemTypeHabit      ProtocolItemType = "habit"
	ItemTypeExercise   ProtocolItemType = "exercise"
	ItemTypeDiet       ProtocolItemType = "diet"
)

// Protocol is a named bundle of supplement/exercise/therapy/habit/diet
// items a user follows. A user is expected to have at most one active
// protocol; the plan engine still merges items from all of them if more
// are found.
type Protocol struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProtocolItem belongs to one protocol. IncludedInPlan is tri-state:
// only an explicit false excludes the item from plan computation.
type ProtocolItem struct {
	ID             uuid.UUID        `json:"id"`
	ProtocolID     uuid.UUID        `json:"protocol_id"`
	Name           string           `json:"name"`
	Description    string           `json:"description,omitempty"`
	ItemType       ProtocolItemType `json:"item_type"`
	IsActive       bool             `json:"is_active"`
	IncludedInPlan *bool            `json:"included_in_plan,omitempty"`
	Frequency      string           `json:"frequency,omitempty"`
	TimeOfDay      []TimeOfDay      `json:"time_of_day,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// InPlan reports whether the item participates in plan computation
func (i *ProtocolItem) InPlan() bool {
	return i.IsActive && (i.IncludedInPlan == nil || *i.IncludedInPlan)
}

// FirstTimeOfDay returns the item's first time bucket, defaulting to morning
func (i *ProtocolItem) FirstTimeOfDay() TimeOfDay {
	if len(i.TimeOfDay) > 0 {
		return i.TimeOfDay[0]
	}
	return TimeOfDayMorning
}
