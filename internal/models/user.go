package models

import "time"

// User is the identity placeholder for the single-user deployment. A
// default row with id 1 is seeded at startup and every entity hangs off it.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     *string   `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DefaultUserID is the seeded single-user account.
const DefaultUserID int64 = 1
