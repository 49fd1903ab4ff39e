package domain

import "time"

// Emprendedor is a local business listed on the platform.
type Emprendedor struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Location    string    `json:"location"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	OwnerEmail  string    `json:"owner_email"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Actor is the caller of an operation restricted to admins and owners.
type Actor struct {
	Email string
	Admin bool
}

// ManageableBy reports whether a may change e or moderate its reviews.
func (e *Emprendedor) ManageableBy(a Actor) bool {
	return a.Admin || (a.Email != "" && a.Email == e.OwnerEmail)
}
