package ports

import (
	"context"

	"github.com/turismo/turismo-api/internal/core/domain"
)

// AuthRepository is the credential store. Implementations return
// domain.ErrUserNotFound for missing users and domain.ErrEmailTaken when an
// insert or update collides with the unique email index.
type AuthRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

// UserRepository extends the credential store with the admin CRUD surface.
type UserRepository interface {
	AuthRepository
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
