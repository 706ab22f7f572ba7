package models

import "time"

// User is a vault owner account.
type User struct {
	// UserID is the internal identifier. It is never exposed via JSON.
	UserID int64 `json:"-"`

	// Login is the unique account name.
	Login string `json:"login"`

	// Password is the client-derived authentication secret received on
	// register and login. It is never stored as is.
	Password string `json:"password,omitempty"`

	// PasswordHash is the bcrypt hash of Password kept in the database.
	PasswordHash string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
