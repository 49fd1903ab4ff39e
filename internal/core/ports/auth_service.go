package ports

import (
	"context"

	"github.com/turismo/turismo-api/internal/core/domain"
)

// RegisterInput carries the fields accepted by registration. Role is optional
// and defaults to domain.RoleRegular.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
	Surname     string
	Phone       string
	Role        string
	RequestID   string
}

// AuthResult is returned by a successful register or login.
type AuthResult struct {
	Token     string
	RoleTitle string
	Message   string
	User      *domain.User
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password, requestID string) (*AuthResult, error)
	// RegisterLegacy creates the account without issuing a token.
	RegisterLegacy(ctx context.Context, input RegisterInput) (*domain.User, error)
}
