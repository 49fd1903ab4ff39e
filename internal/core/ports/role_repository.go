package ports

import (
	"context"

	"github.com/turismo/turismo-api/internal/core/domain"
)

// RoleRepository persists roles. Missing roles yield domain.ErrRoleNotFound
// and name collisions yield domain.ErrRoleExists.
type RoleRepository interface {
	List(ctx context.Context) ([]*domain.Role, error)
	FindByID(ctx context.Context, id string) (*domain.Role, error)
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, role *domain.Role) (*domain.Role, error)
	Update(ctx context.Context, role *domain.Role) (*domain.Role, error)
	Delete(ctx context.Context, id string) error
}

// RoleHolders tracks the users referencing a role. Users keep a copy of
// the role's name and title, which SyncRoleRef rewrites after a rename.
type RoleHolders interface {
	CountByRole(ctx context.Context, roleID string) (int64, error)
	SyncRoleRef(ctx context.Context, ref domain.RoleRef) (int64, error)
}

// RoleCache is a read-through cache of roles keyed by name.
type RoleCache interface {
	Get(ctx context.Context, name string) (*domain.Role, bool, error)
	Set(ctx context.Context, role *domain.Role) error
	Invalidate(ctx context.Context, names ...string) error
}
