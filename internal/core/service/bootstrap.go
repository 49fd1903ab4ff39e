package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/turismo/turismo-api/internal/core/domain"
	"github.com/turismo/turismo-api/internal/core/ports"
)

// AdminAccount describes the account created on first start.
type AdminAccount struct {
	Email    string
	Password string
}

// Bootstrapper seeds the default roles and the initial admin account.
type Bootstrapper struct {
	roles  ports.RoleService
	users  ports.AuthRepository
	hasher ports.PasswordHasher
	log    zerolog.Logger
}

func NewBootstrapper(roles ports.RoleService, users ports.AuthRepository, hasher ports.PasswordHasher, log zerolog.Logger) *Bootstrapper {
	return &Bootstrapper{roles: roles, users: users, hasher: hasher, log: log}
}

// Run is idempotent. The admin account is skipped when admin.Password is
// empty or the email is already registered.
func (b *Bootstrapper) Run(ctx context.Context, admin AdminAccount) error {
	created, err := b.roles.InitializeRoles(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	b.log.Info().Int("created", created).Msg("default roles ensured")

	if admin.Email == "" || admin.Password == "" {
		b.log.Info().Msg("admin bootstrap skipped: no credentials configured")
		return nil
	}

	exists, err := b.users.ExistsByEmail(ctx, admin.Email)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	if exists {
		b.log.Debug().Str("email", admin.Email).Msg("admin account already present")
		return nil
	}

	role, err := b.roles.GetByName(ctx, domain.RoleAdmin)
	if err != nil {
		return fmt.Errorf("bootstrap: admin role: %w", err)
	}
	hash, err := b.hasher.Hash(admin.Password)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	_, err = b.users.Create(ctx, &domain.User{
		Email:        admin.Email,
		PasswordHash: hash,
		DisplayName:  "Admin",
		Surname:      "User",
		Role:         role.Ref(),
		RegisteredAt: time.Now().UTC(),
		Active:       true,
	})
	if errors.Is(err, domain.ErrEmailTaken) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("bootstrap: create admin: %w", err)
	}

	b.log.Warn().Str("email", admin.Email).Msg("admin account created; rotate its password after first login")
	return nil
}
