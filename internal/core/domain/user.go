package domain

import "time"

// User models a registered account. The TOTP secret is generated at
// registration time; the account only becomes usable for protected
// operations after the owner proves possession of it.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	TOTPSecret   string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}
