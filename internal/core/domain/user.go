package domain

import "time"

// User models a registered account. PasswordHash never leaves the service
// layer: it is excluded from JSON and stripped from every returned copy.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	Surname      string    `json:"surname"`
	Phone        string    `json:"phone,omitempty"`
	Role         RoleRef   `json:"role"`
	RegisteredAt time.Time `json:"registered_at"`
	Active       bool      `json:"active"`
}

// RoleRef is the denormalised role reference stored on a user.
type RoleRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title"`
}

// Redacted returns a copy of u that is safe to serialise.
func (u *User) Redacted() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = ""
	return &clone
}

// Profile is the summary returned alongside a session token.
type Profile struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Surname     string `json:"surname"`
	Role        string `json:"role"`
}

// ProfileOf builds the token response summary for u.
func ProfileOf(u *User) Profile {
	return Profile{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Surname:     u.Surname,
		Role:        u.Role.Name,
	}
}
