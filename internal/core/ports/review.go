package ports

import (
	"context"
	"time"

	"github.com/turismo/turismo-api/internal/core/domain"
)

type ReviewRepository interface {
	ListByEmprendedor(ctx context.Context, emprendedorID string) ([]*domain.Review, error)
	Create(ctx context.Context, r *domain.Review) (*domain.Review, error)
	// UpdateStatus and Delete only touch the review when it belongs to
	// emprendedorID; otherwise they return domain.ErrReviewNotFound.
	UpdateStatus(ctx context.Context, emprendedorID, id string, status domain.ReviewStatus, at time.Time) (*domain.Review, error)
	Delete(ctx context.Context, emprendedorID, id string) error
}

// CreateReviewInput holds a new review as submitted by a client.
type CreateReviewInput struct {
	AuthorName  string
	AuthorEmail string
	Comment     string
	Rating      int
	Images      []string
}

type ReviewService interface {
	List(ctx context.Context, emprendedorID string) ([]*domain.Review, error)
	Create(ctx context.Context, emprendedorID string, input CreateReviewInput) (*domain.Review, error)
	// UpdateStatus moderates a review. Only admins and the emprendedor's
	// owner may do so; anyone else gets domain.ErrForbidden.
	UpdateStatus(ctx context.Context, actor domain.Actor, emprendedorID, id string, status domain.ReviewStatus) (*domain.Review, error)
	Delete(ctx context.Context, actor domain.Actor, emprendedorID, id string) error
}
