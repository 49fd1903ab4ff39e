package domain

import "time"

// ReviewStatus is the moderation state of a review.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// Valid reports whether s is a known moderation state.
func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewPending, ReviewApproved, ReviewRejected:
		return true
	}
	return false
}

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a rating left on an emprendedor.
type Review struct {
	ID            string       `json:"id"`
	EmprendedorID string       `json:"emprendedor_id"`
	AuthorName    string       `json:"author_name"`
	AuthorEmail   string       `json:"author_email,omitempty"`
	Comment       string       `json:"comment"`
	Rating        int          `json:"rating"`
	Images        []string     `json:"images,omitempty"`
	Status        ReviewStatus `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}
