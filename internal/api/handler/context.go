package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/turismo/turismo-api/internal/api/middleware"
	"github.com/turismo/turismo-api/internal/core/domain"
)

// currentIdentity returns the caller resolved by the gate. Routes reaching a
// handler that needs it without one are misconfigured in the policy, so the
// request is refused rather than served anonymously.
func currentIdentity(c echo.Context) (*middleware.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return nil, domain.ErrForbidden
	}
	return id, nil
}

// currentActor describes the caller for ownership checks.
func currentActor(c echo.Context) (domain.Actor, error) {
	id, err := currentIdentity(c)
	if err != nil {
		return domain.Actor{}, err
	}
	return domain.Actor{
		Email: id.Subject,
		Admin: id.HasAuthority(domain.Authority(domain.RoleAdmin)),
	}, nil
}

// bind decodes the body into req and runs the registered validator on it.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.NewValidationError("body", "invalid payload")
	}
	return c.Validate(req)
}

func requestID(c echo.Context) string {
	if id := c.Response().Header().Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Request().Header.Get(echo.HeaderXRequestID)
}
