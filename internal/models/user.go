package models

import (
	"time"

	"github.com/google/uuid"
)

// User identifies the plan owner. Authentication lives at the gateway;
// the API only receives an already-resolved identity.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
