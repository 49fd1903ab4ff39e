package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/turismo/turismo-api/internal/core/ports"
)

// UserHandler serves /api/admin/users.
type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type createUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	Role        string `json:"role"`
	DisplayName string `json:"display_name" validate:"max=100"`
	Surname     string `json:"surname" validate:"max=100"`
	Phone       string `json:"phone" validate:"max=30"`
}

type updateUserRequest struct {
	Email       *string `json:"email" validate:"omitempty,email"`
	Password    *string `json:"password" validate:"omitempty,min=6"`
	Role        *string `json:"role" validate:"omitempty,min=1"`
	DisplayName *string `json:"display_name" validate:"omitempty,max=100"`
	Surname     *string `json:"surname" validate:"omitempty,max=100"`
	Phone       *string `json:"phone" validate:"omitempty,max=30"`
	Active      *bool   `json:"active"`
}

// List returns every user without password hashes.
//
// @Summary      List users
// @Tags         admin-users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      403  {object}  map[string]string
// @Router       /api/admin/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Get returns a user by id.
//
// @Summary      Get user
// @Tags         admin-users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  domain.User
// @Failure      404
// @Router       /api/admin/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.users.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Create adds a user with any role.
//
// @Summary      Create user
// @Tags         admin-users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/admin/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.users.Create(c.Request().Context(), ports.CreateUserInput{
		Email:       req.Email,
		Password:    req.Password,
		Role:        req.Role,
		DisplayName: req.DisplayName,
		Surname:     req.Surname,
		Phone:       req.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Update applies a partial update to a user.
//
// @Summary      Update user
// @Tags         admin-users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      404
// @Router       /api/admin/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.users.Update(c.Request().Context(), c.Param("id"), ports.UserPatch{
		Email:       req.Email,
		Password:    req.Password,
		Role:        req.Role,
		DisplayName: req.DisplayName,
		Surname:     req.Surname,
		Phone:       req.Phone,
		Active:      req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete removes a user.
//
// @Summary      Delete user
// @Tags         admin-users
// @Security     BearerAuth
// @Param        id  path  string  true  "User ID"
// @Success      200
// @Failure      404
// @Router       /api/admin/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.users.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}
