package ports

import (
	"context"

	"github.com/turismo/turismo-api/internal/core/domain"
)

// RolePatch carries the optional fields of a role update.
type RolePatch struct {
	Name        *string
	Title       *string
	Description *string
	Permissions *[]domain.Permission
}

type RoleService interface {
	List(ctx context.Context) ([]*domain.Role, error)
	Get(ctx context.Context, id string) (*domain.Role, error)
	GetByName(ctx context.Context, name string) (*domain.Role, error)
	Create(ctx context.Context, role domain.Role) (*domain.Role, error)
	Update(ctx context.Context, id string, patch RolePatch) (*domain.Role, error)
	Delete(ctx context.Context, id string) error
	// InitializeRoles creates the default roles that are missing. It reports
	// how many were created.
	InitializeRoles(ctx context.Context) (int, error)
	// SeedStatus reports whether every default role exists.
	SeedStatus(ctx context.Context) (bool, error)
}
