package model

import "time"

// Roles a user can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account. The password hash never leaves the service layer.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsAdmin reports whether the user may manage instrument prices.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
