package models

import (
	"time"

	"github.com/google/uuid"
)

// EnergyAction is a user-defined energy-loop nudge. Energy actions are
// open-ended: they contribute one plan action each until the user marks
// them completed through the energy-loop program itself, with no per-day
// completion join.
type EnergyAction struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
