package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/turismo/turismo-api/internal/core/domain"
	"github.com/turismo/turismo-api/internal/core/ports"
)

type AuthHandler struct {
	auth  ports.AuthService
	roles ports.RoleService
}

func NewAuthHandler(auth ports.AuthService, roles ports.RoleService) *AuthHandler {
	return &AuthHandler{auth: auth, roles: roles}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	Surname     string `json:"surname"`
	Phone       string `json:"phone,omitempty"`
	Role        string `json:"role,omitempty"`
}

func (r registerRequest) toInput(requestID string) ports.RegisterInput {
	return ports.RegisterInput{
		Email:       r.Email,
		Password:    r.Password,
		DisplayName: r.DisplayName,
		Surname:     r.Surname,
		Phone:       r.Phone,
		Role:        r.Role,
		RequestID:   requestID,
	}
}

type authResponse struct {
	Token     string         `json:"token"`
	RoleTitle string         `json:"role_title"`
	Message   string         `json:"message"`
	Profile   domain.Profile `json:"profile"`
}

func toAuthResponse(res *ports.AuthResult) authResponse {
	return authResponse{
		Token:     res.Token,
		RoleTitle: res.RoleTitle,
		Message:   res.Message,
		Profile:   domain.ProfileOf(res.User),
	}
}

type initRolesResponse struct {
	Message      string `json:"message"`
	RolesCreated int    `json:"roles_created"`
}

// Login authenticates a user and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("body", "invalid payload")
	}

	res, err := h.auth.Login(c.Request().Context(), req.Email, req.Password, requestID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAuthResponse(res))
}

// Register creates an account and returns a session token for it.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return domain.NewValidationError("body", "invalid payload")
	}

	res, err := h.auth.Register(c.Request().Context(), req.toInput(requestID(c)))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAuthResponse(res))
}

// Roles lists the roles a client may register with.
//
// @Summary      List roles
// @Tags         auth
// @Produce      json
// @Success      200  {array}  domain.Role
// @Router       /api/auth/roles [get]
func (h *AuthHandler) Roles(c echo.Context) error {
	roles, err := h.roles.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, roles)
}

// InitRoles creates the default roles that are missing.
//
// @Summary      Initialize default roles
// @Tags         auth
// @Produce      json
// @Success      200  {object}  initRolesResponse
// @Router       /api/auth/init-roles [post]
func (h *AuthHandler) InitRoles(c echo.Context) error {
	created, err := h.roles.InitializeRoles(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, initRolesResponse{
		Message:      "Roles initialized",
		RolesCreated: created,
	})
}
