package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/turismo/turismo-api/internal/core/domain"
	"github.com/turismo/turismo-api/internal/core/ports"
)

// RoleService manages roles and the default role seed. Lookups by name are
// served from the cache when one is configured.
type RoleService struct {
	repo    ports.RoleRepository
	holders ports.RoleHolders
	cache   ports.RoleCache
	log     zerolog.Logger
}

// NewRoleService returns a RoleService. holders and cache may be nil; without
// holders, roles can be deleted while assigned and renames are not copied to
// users.
func NewRoleService(repo ports.RoleRepository, holders ports.RoleHolders, cache ports.RoleCache, log zerolog.Logger) *RoleService {
	return &RoleService{repo: repo, holders: holders, cache: cache, log: log}
}

func (s *RoleService) List(ctx context.Context) ([]*domain.Role, error) {
	return s.repo.List(ctx)
}

func (s *RoleService) Get(ctx context.Context, id string) (*domain.Role, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *RoleService) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	if s.cache != nil {
		role, ok, err := s.cache.Get(ctx, name)
		if err != nil {
			s.log.Warn().Err(err).Str("role", name).Msg("role cache read failed")
		} else if ok {
			return role, nil
		}
	}

	role, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, role); err != nil {
			s.log.Warn().Err(err).Str("role", name).Msg("role cache write failed")
		}
	}
	return role, nil
}

func (s *RoleService) Create(ctx context.Context, role domain.Role) (*domain.Role, error) {
	role.Name = strings.TrimSpace(role.Name)
	if role.Name == "" {
		return nil, domain.NewValidationError("name", "role name is required")
	}
	if role.Title == "" {
		role.Title = role.Name
	}

	exists, err := s.repo.ExistsByName(ctx, role.Name)
	if err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}
	if exists {
		return nil, domain.ErrRoleExists
	}

	created, err := s.repo.Create(ctx, &role)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, created.Name)
	return created, nil
}

func (s *RoleService) Update(ctx context.Context, id string, patch ports.RolePatch) (*domain.Role, error) {
	role, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := role.Ref()

	if patch.Name != nil {
		role.Name = strings.TrimSpace(*patch.Name)
		if role.Name == "" {
			return nil, domain.NewValidationError("name", "role name cannot be empty")
		}
	}
	if patch.Title != nil {
		role.Title = *patch.Title
	}
	if patch.Description != nil {
		role.Description = *patch.Description
	}
	if patch.Permissions != nil {
		role.Permissions = *patch.Permissions
	}

	updated, err := s.repo.Update(ctx, role)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, previous.Name, updated.Name)

	if ref := updated.Ref(); ref != previous && s.holders != nil {
		n, err := s.holders.SyncRoleRef(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("update role holders: %w", err)
		}
		s.log.Info().Str("role", ref.Name).Int64("users", n).Msg("role reference updated")
	}
	return updated, nil
}

func (s *RoleService) Delete(ctx context.Context, id string) error {
	role, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if s.holders != nil {
		n, err := s.holders.CountByRole(ctx, role.ID)
		if err != nil {
			return fmt.Errorf("delete role: %w", err)
		}
		if n > 0 {
			return domain.ErrRoleInUse
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, role.Name)
	return nil
}

func (s *RoleService) InitializeRoles(ctx context.Context) (int, error) {
	created := 0
	for _, role := range domain.DefaultRoles() {
		exists, err := s.repo.ExistsByName(ctx, role.Name)
		if err != nil {
			return created, fmt.Errorf("initialize roles: %w", err)
		}
		if exists {
			s.log.Debug().Str("role", role.Name).Msg("role already present")
			continue
		}

		if _, err := s.repo.Create(ctx, &role); err != nil {
			// A concurrent seed won the insert; the role exists either way.
			if errors.Is(err, domain.ErrRoleExists) {
				continue
			}
			return created, fmt.Errorf("initialize roles: %w", err)
		}
		created++
		s.log.Info().Str("role", role.Name).Msg("role created")
	}
	return created, nil
}

func (s *RoleService) SeedStatus(ctx context.Context) (bool, error) {
	for _, name := range domain.DefaultRoleNames() {
		exists, err := s.repo.ExistsByName(ctx, name)
		if err != nil {
			return false, fmt.Errorf("seed status: %w", err)
		}
		if !exists {
			return false, nil
		}
	}
	return true, nil
}

func (s *RoleService) invalidate(ctx context.Context, names ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, names...); err != nil {
		s.log.Warn().Err(err).Strs("roles", names).Msg("role cache invalidation failed")
	}
}
