package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/turismo/turismo-api/internal/core/domain"
	"github.com/turismo/turismo-api/internal/core/ports"
)

const (
	maxAuthorNameLen = 100
	maxCommentLen    = 500
)

type ReviewService struct {
	reviews       ports.ReviewRepository
	emprendedores ports.EmprendedorRepository
	log           zerolog.Logger
}

func NewReviewService(reviews ports.ReviewRepository, emprendedores ports.EmprendedorRepository, log zerolog.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, emprendedores: emprendedores, log: log}
}

// List returns the reviews of an emprendedor, or ErrEmprendedorNotFound.
func (s *ReviewService) List(ctx context.Context, emprendedorID string) ([]*domain.Review, error) {
	if err := s.ensureEmprendedor(ctx, emprendedorID); err != nil {
		return nil, err
	}
	return s.reviews.ListByEmprendedor(ctx, emprendedorID)
}

func (s *ReviewService) Create(ctx context.Context, emprendedorID string, in ports.CreateReviewInput) (*domain.Review, error) {
	if err := validateReview(in); err != nil {
		return nil, err
	}
	if err := s.ensureEmprendedor(ctx, emprendedorID); err != nil {
		return nil, err
	}

	now := nowUTC()
	return s.reviews.Create(ctx, &domain.Review{
		EmprendedorID: emprendedorID,
		AuthorName:    strings.TrimSpace(in.AuthorName),
		AuthorEmail:   in.AuthorEmail,
		Comment:       strings.TrimSpace(in.Comment),
		Rating:        in.Rating,
		Images:        in.Images,
		Status:        domain.ReviewPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
}

func (s *ReviewService) UpdateStatus(ctx context.Context, actor domain.Actor, emprendedorID, id string, status domain.ReviewStatus) (*domain.Review, error) {
	if !status.Valid() {
		return nil, domain.NewValidationError("status", fmt.Sprintf("status must be one of %s, %s, %s",
			domain.ReviewPending, domain.ReviewApproved, domain.ReviewRejected))
	}
	if err := s.authorize(ctx, actor, emprendedorID); err != nil {
		return nil, err
	}

	rv, err := s.reviews.UpdateStatus(ctx, emprendedorID, id, status, nowUTC())
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("review", id).Str("status", string(status)).Str("actor", actor.Email).Msg("review moderated")
	return rv, nil
}

func (s *ReviewService) Delete(ctx context.Context, actor domain.Actor, emprendedorID, id string) error {
	if err := s.authorize(ctx, actor, emprendedorID); err != nil {
		return err
	}
	return s.reviews.Delete(ctx, emprendedorID, id)
}

// authorize checks that actor manages the emprendedor owning the reviews.
func (s *ReviewService) authorize(ctx context.Context, actor domain.Actor, emprendedorID string) error {
	e, err := s.emprendedores.FindByID(ctx, emprendedorID)
	if err != nil {
		return err
	}
	if !e.ManageableBy(actor) {
		return domain.ErrForbidden
	}
	return nil
}

func (s *ReviewService) ensureEmprendedor(ctx context.Context, id string) error {
	ok, err := s.emprendedores.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("lookup emprendedor: %w", err)
	}
	if !ok {
		return domain.ErrEmprendedorNotFound
	}
	return nil
}

func validateReview(in ports.CreateReviewInput) error {
	name := strings.TrimSpace(in.AuthorName)
	comment := strings.TrimSpace(in.Comment)
	switch {
	case name == "":
		return domain.NewValidationError("author_name", "author name is required")
	case len([]rune(name)) > maxAuthorNameLen:
		return domain.NewValidationError("author_name", fmt.Sprintf("author name must be at most %d characters", maxAuthorNameLen))
	case comment == "":
		return domain.NewValidationError("comment", "comment is required")
	case len([]rune(comment)) > maxCommentLen:
		return domain.NewValidationError("comment", fmt.Sprintf("comment must be at most %d characters", maxCommentLen))
	case in.Rating < domain.MinRating || in.Rating > domain.MaxRating:
		return domain.NewValidationError("rating", fmt.Sprintf("rating must be between %d and %d", domain.MinRating, domain.MaxRating))
	}
	return nil
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
