package ports

import (
	"context"

	"github.com/turismo/turismo-api/internal/core/domain"
)

// CreateUserInput is the admin-side account creation payload.
type CreateUserInput struct {
	Email       string
	Password    string
	Role        string
	DisplayName string
	Surname     string
	Phone       string
}

// UserPatch carries the optional fields of an admin user update.
type UserPatch struct {
	Email       *string
	Password    *string
	Role        *string
	DisplayName *string
	Surname     *string
	Phone       *string
	Active      *bool
}

// UserService is the admin user CRUD surface. Returned users are redacted.
type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, id string, patch UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
