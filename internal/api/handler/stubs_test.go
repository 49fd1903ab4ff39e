package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/turismo/turismo-api/internal/api/middleware"
	"github.com/turismo/turismo-api/internal/core/domain"
	"github.com/turismo/turismo-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn       func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn          func(ctx context.Context, email, password, requestID string) (*ports.AuthResult, error)
	registerLegacyFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password, requestID string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password, requestID)
}

func (s *stubAuthService) RegisterLegacy(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerLegacyFn(ctx, in)
}

type stubRoleService struct {
	roles   []*domain.Role
	created int
	seeded  bool
	err     error
	updated ports.RolePatch
}

func (s *stubRoleService) List(context.Context) ([]*domain.Role, error) { return s.roles, s.err }

func (s *stubRoleService) Get(_ context.Context, id string) (*domain.Role, error) {
	for _, r := range s.roles {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

func (s *stubRoleService) GetByName(_ context.Context, name string) (*domain.Role, error) {
	for _, r := range s.roles {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

func (s *stubRoleService) Create(_ context.Context, role domain.Role) (*domain.Role, error) {
	if s.err != nil {
		return nil, s.err
	}
	role.ID = "new"
	return &role, nil
}

func (s *stubRoleService) Update(_ context.Context, id string, patch ports.RolePatch) (*domain.Role, error) {
	s.updated = patch
	role := &domain.Role{ID: id}
	if patch.Name != nil {
		role.Name = *patch.Name
	}
	return role, s.err
}

func (s *stubRoleService) Delete(context.Context, string) error { return s.err }

func (s *stubRoleService) InitializeRoles(context.Context) (int, error) { return s.created, s.err }

func (s *stubRoleService) SeedStatus(context.Context) (bool, error) { return s.seeded, s.err }

type stubEmprendedorService struct {
	ports.EmprendedorService
	createOwner string
	createIn    ports.EmprendedorInput
	actor       domain.Actor
	err         error
}

func (s *stubEmprendedorService) Create(_ context.Context, owner string, in ports.EmprendedorInput) (*domain.Emprendedor, error) {
	s.createOwner = owner
	s.createIn = in
	return &domain.Emprendedor{ID: "e1", Name: in.Name, OwnerEmail: owner, Active: true}, nil
}

func (s *stubEmprendedorService) Delete(_ context.Context, actor domain.Actor, id string) error {
	s.actor = actor
	return s.err
}

type stubReviewService struct {
	ports.ReviewService
	listErr  error
	createIn ports.CreateReviewInput
	actor    domain.Actor
	status   domain.ReviewStatus
	err      error
}

func (s *stubReviewService) UpdateStatus(_ context.Context, actor domain.Actor, emprendedorID, id string, status domain.ReviewStatus) (*domain.Review, error) {
	s.actor = actor
	s.status = status
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Review{ID: id, EmprendedorID: emprendedorID, Status: status}, nil
}

func (s *stubReviewService) List(context.Context, string) ([]*domain.Review, error) {
	return nil, s.listErr
}

func (s *stubReviewService) Create(_ context.Context, emprendedorID string, in ports.CreateReviewInput) (*domain.Review, error) {
	s.createIn = in
	return &domain.Review{ID: "rv1", EmprendedorID: emprendedorID, Rating: in.Rating, Status: domain.ReviewPending}, nil
}

// newContext builds an echo context with the validator registered and an
// optional JSON body.
func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withIdentity(c echo.Context, subject, role string) {
	middleware.SetIdentity(c, &middleware.Identity{
		Subject:     subject,
		Role:        role,
		Authorities: []string{domain.Authority(role)},
	})
}
