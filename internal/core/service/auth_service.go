package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/turismo/turismo-api/internal/api/metrics"
	"github.com/turismo/turismo-api/internal/core/domain"
	"github.com/turismo/turismo-api/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	users  ports.AuthRepository
	roles  ports.RoleService
	hasher ports.PasswordHasher
	tokens ports.TokenCodec
	audit  ports.AuditSink
	log    zerolog.Logger
	now    func() time.Time

	// dummyHash is compared against when the email is unknown so that both
	// login failure branches pay the bcrypt cost.
	dummyHash string
}

func NewAuthService(
	users ports.AuthRepository,
	roles ports.RoleService,
	hasher ports.PasswordHasher,
	tokens ports.TokenCodec,
	audit ports.AuditSink,
	log zerolog.Logger,
) (*AuthService, error) {
	dummy, err := hasher.Hash("turismo-timing-equaliser")
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	if audit == nil {
		audit = discardAudit{}
	}
	return &AuthService{
		users:     users,
		roles:     roles,
		hasher:    hasher,
		tokens:    tokens,
		audit:     audit,
		log:       log,
		now:       time.Now,
		dummyHash: dummy,
	}, nil
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	user, role, err := s.createAccount(ctx, in)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(outcome(err)).Inc()
		return nil, err
	}

	token, err := s.tokens.Issue(user.Email, role.Name)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	s.record(domain.AuthEventRegister, user.Email, role.Name, in.RequestID)
	s.log.Info().Str("email", user.Email).Str("role", role.Name).Msg("user registered")

	return &ports.AuthResult{
		Token:     token,
		RoleTitle: role.Title,
		Message:   fmt.Sprintf("Welcome %s!", user.DisplayName),
		User:      user.Redacted(),
	}, nil
}

func (s *AuthService) RegisterLegacy(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	user, role, err := s.createAccount(ctx, in)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(outcome(err)).Inc()
		return nil, err
	}
	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	s.record(domain.AuthEventRegister, user.Email, role.Name, in.RequestID)
	return user.Redacted(), nil
}

func (s *AuthService) Login(ctx context.Context, email, password, requestID string) (*ports.AuthResult, error) {
	if email == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("invalid_input").Inc()
		return nil, domain.NewValidationError("credentials", "email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: %w", err)
	}

	hash := s.dummyHash
	if user != nil {
		hash = user.PasswordHash
	}
	matched := s.hasher.Verify(password, hash)

	if user == nil || !matched || !user.Active {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		s.record(domain.AuthEventLoginFailure, email, "", requestID)
		s.log.Debug().Str("email", email).Msg("login rejected")
		return nil, domain.ErrInvalidCredentials
	}

	// The stored reference may predate a rename or deletion of the role.
	role, err := s.roles.Get(ctx, user.Role.ID)
	if errors.Is(err, domain.ErrRoleNotFound) {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		s.record(domain.AuthEventLoginFailure, email, "", requestID)
		s.log.Warn().Str("email", email).Str("role_id", user.Role.ID).Msg("login rejected: role no longer exists")
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: %w", err)
	}
	user.Role = role.Ref()

	token, err := s.tokens.Issue(user.Email, role.Name)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.record(domain.AuthEventLoginSuccess, user.Email, role.Name, requestID)

	return &ports.AuthResult{
		Token:     token,
		RoleTitle: role.Title,
		Message:   fmt.Sprintf("Welcome back %s!", user.DisplayName),
		User:      user.Redacted(),
	}, nil
}

// createAccount validates in (first violation wins), then persists the user.
func (s *AuthService) createAccount(ctx context.Context, in ports.RegisterInput) (*domain.User, *domain.Role, error) {
	switch {
	case in.Email == "":
		return nil, nil, domain.NewValidationError("email", "email is required")
	case in.Password == "":
		return nil, nil, domain.NewValidationError("password", "password is required")
	case in.DisplayName == "":
		return nil, nil, domain.NewValidationError("display_name", "display name is required")
	case in.Surname == "":
		return nil, nil, domain.NewValidationError("surname", "surname is required")
	}

	exists, err := s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("register: %w", err)
	}
	if exists {
		return nil, nil, domain.ErrEmailTaken
	}

	role, err := resolveRole(ctx, s.roles, in.Role)
	if err != nil {
		return nil, nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("register: %w", err)
	}

	created, err := s.users.Create(ctx, &domain.User{
		Email:        in.Email,
		PasswordHash: hash,
		DisplayName:  in.DisplayName,
		Surname:      in.Surname,
		Phone:        in.Phone,
		Role:         role.Ref(),
		RegisteredAt: s.now().UTC(),
		Active:       true,
	})
	if err != nil {
		return nil, nil, err
	}
	return created, role, nil
}

func (s *AuthService) record(kind domain.AuthEventKind, email, role, requestID string) {
	s.audit.Enqueue(domain.AuthEvent{
		Kind:      kind,
		Email:     email,
		Role:      role,
		RequestID: requestID,
		At:        s.now().UTC(),
	})
}

// resolveRole looks up name, defaulting to the regular role. A missing role
// is reported as a validation failure that still matches ErrRoleNotFound.
func resolveRole(ctx context.Context, roles ports.RoleService, name string) (*domain.Role, error) {
	if name == "" {
		name = domain.RoleRegular
	}
	role, err := roles.GetByName(ctx, name)
	if errors.Is(err, domain.ErrRoleNotFound) {
		return nil, &domain.ValidationError{
			Field:   "role",
			Message: fmt.Sprintf("role '%s' does not exist. Available roles: admin, regular, emprendedor", name),
			Err:     domain.ErrRoleNotFound,
		}
	}
	if err != nil {
		return nil, fmt.Errorf("resolve role: %w", err)
	}
	return role, nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return "invalid_input"
	case errors.Is(err, domain.ErrEmailTaken):
		return "conflict"
	default:
		return "error"
	}
}

type discardAudit struct{}

func (discardAudit) Enqueue(domain.AuthEvent) {}
