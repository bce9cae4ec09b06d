package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the display-facing slice of the account owned by the auth
// service. The booking core never creates or mutates users; it reads
// them for ticket rendering only.
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Mobile    string    `json:"mobile" db:"mobile"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
