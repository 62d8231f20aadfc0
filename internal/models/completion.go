package models

import (
	"time"

	"github.com/google/uuid"
)

// ProtocolCompletion records that a protocol item was marked done on a date
type ProtocolCompletion struct {
	UserID         uuid.UUID `json:"user_id"`
	ProtocolItemID uuid.UUID `json:"protocol_item_id"`
	Date           string    `json:"date"` // YYYY-MM-DD
	CreatedAt      time.Time `json:"created_at"`
}

// MealCompletion records that a meal slot was marked done on a date
type MealCompletion struct {
	UserID    uuid.UUID `json:"user_id"`
	MealType  MealType  `json:"meal_type"`
	Date      string    `json:"date"` // YYYY-MM-DD
	CreatedAt time.Time `json:"created_at"`
}

// EssentialCompletion records that a daily essential was marked done on a date
type EssentialCompletion struct {
	UserID      uuid.UUID `json:"user_id"`
	EssentialID string    `json:"essential_id"`
	Date        string    `json:"date"` // YYYY-MM-DD
	CreatedAt   time.Time `json:"created_at"`
}

// DateKey formats a time as the canonical completion date key
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
