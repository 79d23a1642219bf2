package user

import (
	"time"

	"github.com/google/uuid"
)

// User is an offerwall account. Earnings reference it by ID.String().
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Country      string    `json:"country,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LedgerID is the key used for this user's earnings and postbacks.
func (u *User) LedgerID() string {
	return u.ID.String()
}
