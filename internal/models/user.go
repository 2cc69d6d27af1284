package models

import "time"

// User is the public profile for an account. Only anonymous data lives
// here; the password hash never leaves the database layer.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}
