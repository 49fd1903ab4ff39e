package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/turismo/turismo-api/internal/core/domain"
	"github.com/turismo/turismo-api/internal/core/ports"
)

// UserService is the admin-facing user CRUD. Every returned user is redacted.
type UserService struct {
	repo   ports.UserRepository
	roles  ports.RoleService
	hasher ports.PasswordHasher
	log    zerolog.Logger
}

func NewUserService(repo ports.UserRepository, roles ports.RoleService, hasher ports.PasswordHasher, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, roles: roles, hasher: hasher, log: log}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Redacted())
	}
	return out, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Redacted(), nil
}

func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	switch {
	case in.Email == "":
		return nil, domain.NewValidationError("email", "email is required")
	case in.Password == "":
		return nil, domain.NewValidationError("password", "password is required")
	}

	exists, err := s.repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if exists {
		return nil, domain.ErrEmailTaken
	}

	role, err := resolveRole(ctx, s.roles, in.Role)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Email:        in.Email,
		PasswordHash: hash,
		DisplayName:  in.DisplayName,
		Surname:      in.Surname,
		Phone:        in.Phone,
		Role:         role.Ref(),
		RegisteredAt: nowUTC(),
		Active:       true,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("email", created.Email).Str("role", role.Name).Msg("user created by admin")
	return created.Redacted(), nil
}

func (s *UserService) Update(ctx context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil {
		if strings.TrimSpace(*patch.Email) == "" {
			return nil, domain.NewValidationError("email", "email cannot be empty")
		}
		user.Email = *patch.Email
	}
	if patch.Password != nil {
		if *patch.Password == "" {
			return nil, domain.NewValidationError("password", "password cannot be empty")
		}
		hash, err := s.hasher.Hash(*patch.Password)
		if err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		user.PasswordHash = hash
	}
	if patch.Role != nil {
		role, err := resolveRole(ctx, s.roles, *patch.Role)
		if err != nil {
			return nil, err
		}
		user.Role = role.Ref()
	}
	if patch.DisplayName != nil {
		user.DisplayName = *patch.DisplayName
	}
	if patch.Surname != nil {
		user.Surname = *patch.Surname
	}
	if patch.Phone != nil {
		user.Phone = *patch.Phone
	}
	if patch.Active != nil {
		user.Active = *patch.Active
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}
	return updated.Redacted(), nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
