package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/turismo/turismo-api/internal/core/domain"
	"github.com/turismo/turismo-api/internal/core/ports"
)

type EmprendedorService struct {
	repo ports.EmprendedorRepository
	log  zerolog.Logger
}

func NewEmprendedorService(repo ports.EmprendedorRepository, log zerolog.Logger) *EmprendedorService {
	return &EmprendedorService{repo: repo, log: log}
}

func (s *EmprendedorService) ListActive(ctx context.Context) ([]*domain.Emprendedor, error) {
	return s.repo.ListActive(ctx)
}

func (s *EmprendedorService) Get(ctx context.Context, id string) (*domain.Emprendedor, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *EmprendedorService) Create(ctx context.Context, ownerEmail string, in ports.EmprendedorInput) (*domain.Emprendedor, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.NewValidationError("name", "name is required")
	}

	now := nowUTC()
	e := &domain.Emprendedor{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Location:    in.Location,
		Phone:       in.Phone,
		Email:       in.Email,
		OwnerEmail:  ownerEmail,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Active != nil {
		e.Active = *in.Active
	}

	created, err := s.repo.Create(ctx, e)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("id", created.ID).Str("owner", ownerEmail).Msg("emprendedor created")
	return created, nil
}

func (s *EmprendedorService) Update(ctx context.Context, actor domain.Actor, id string, in ports.EmprendedorInput) (*domain.Emprendedor, error) {
	e, err := s.managed(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		e.Name = in.Name
	}
	if in.Description != "" {
		e.Description = in.Description
	}
	if in.Category != "" {
		e.Category = in.Category
	}
	if in.Location != "" {
		e.Location = in.Location
	}
	if in.Phone != "" {
		e.Phone = in.Phone
	}
	if in.Email != "" {
		e.Email = in.Email
	}
	if in.Active != nil {
		e.Active = *in.Active
	}
	e.UpdatedAt = nowUTC()

	return s.repo.Update(ctx, e)
}

func (s *EmprendedorService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if _, err := s.managed(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// managed loads emprendedor id, failing with ErrForbidden when actor may not
// manage it.
func (s *EmprendedorService) managed(ctx context.Context, actor domain.Actor, id string) (*domain.Emprendedor, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !e.ManageableBy(actor) {
		s.log.Warn().Str("id", id).Str("actor", actor.Email).Msg("emprendedor change refused: not owner")
		return nil, domain.ErrForbidden
	}
	return e, nil
}
