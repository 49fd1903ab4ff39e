package ports

import (
	"context"

	"github.com/turismo/turismo-api/internal/core/domain"
)

type EmprendedorRepository interface {
	ListActive(ctx context.Context) ([]*domain.Emprendedor, error)
	FindByID(ctx context.Context, id string) (*domain.Emprendedor, error)
	Exists(ctx context.Context, id string) (bool, error)
	Create(ctx context.Context, e *domain.Emprendedor) (*domain.Emprendedor, error)
	Update(ctx context.Context, e *domain.Emprendedor) (*domain.Emprendedor, error)
	Delete(ctx context.Context, id string) error
}

// EmprendedorInput holds the writable fields of an emprendedor.
type EmprendedorInput struct {
	Name        string
	Description string
	Category    string
	Location    string
	Phone       string
	Email       string
	Active      *bool
}

type EmprendedorService interface {
	ListActive(ctx context.Context) ([]*domain.Emprendedor, error)
	Get(ctx context.Context, id string) (*domain.Emprendedor, error)
	Create(ctx context.Context, ownerEmail string, input EmprendedorInput) (*domain.Emprendedor, error)
	// Update and Delete return domain.ErrForbidden unless actor is an admin
	// or the owner.
	Update(ctx context.Context, actor domain.Actor, id string, input EmprendedorInput) (*domain.Emprendedor, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}
