package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/turismo/turismo-api/internal/core/domain"
	"github.com/turismo/turismo-api/internal/core/ports"
)

// LegacyUserHandler serves the older /api/users endpoints kept for existing
// clients.
type LegacyUserHandler struct {
	auth ports.AuthService
}

func NewLegacyUserHandler(auth ports.AuthService) *LegacyUserHandler {
	return &LegacyUserHandler{auth: auth}
}

type legacyLoginResponse struct {
	Token   string `json:"token"`
	Rol     string `json:"rol"`
	Message string `json:"message"`
}

// Register creates an account without issuing a token.
//
// @Summary      Register a user (legacy)
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/users/register [post]
func (h *LegacyUserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("body", "invalid payload")
	}

	user, err := h.auth.RegisterLegacy(c.Request().Context(), req.toInput(requestID(c)))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Login authenticates a user. The token is returned with its "Bearer " prefix.
//
// @Summary      Login (legacy)
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  legacyLoginResponse
// @Failure      401   {object}  map[string]string
// @Router       /api/users/login [post]
func (h *LegacyUserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("body", "invalid payload")
	}

	res, err := h.auth.Login(c.Request().Context(), req.Email, req.Password, requestID(c))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) || errors.Is(err, domain.ErrValidation) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		}
		return err
	}

	greeting := "Welcome, User"
	if res.User.Role.Name == domain.RoleAdmin {
		greeting = "Welcome, Admin"
	}
	return c.JSON(http.StatusOK, legacyLoginResponse{
		Token:   "Bearer " + res.Token,
		Rol:     strings.ToUpper(res.User.Role.Name),
		Message: greeting,
	})
}
