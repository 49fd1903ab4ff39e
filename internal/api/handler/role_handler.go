package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/turismo/turismo-api/internal/core/domain"
	"github.com/turismo/turismo-api/internal/core/ports"
)

// RoleHandler serves /api/admin/roles.
type RoleHandler struct {
	roles ports.RoleService
}

func NewRoleHandler(roles ports.RoleService) *RoleHandler {
	return &RoleHandler{roles: roles}
}

type permissionRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"required,max=100"`
	Title       string `json:"title" validate:"max=100"`
	Description string `json:"description" validate:"max=500"`
}

type roleRequest struct {
	Name        string              `json:"name" validate:"required,max=50"`
	Title       string              `json:"title" validate:"max=100"`
	Description string              `json:"description" validate:"max=500"`
	Permissions []permissionRequest `json:"permissions" validate:"dive"`
}

type rolePatchRequest struct {
	Name        *string              `json:"name" validate:"omitempty,min=1,max=50"`
	Title       *string              `json:"title" validate:"omitempty,max=100"`
	Description *string              `json:"description" validate:"omitempty,max=500"`
	Permissions *[]permissionRequest `json:"permissions" validate:"omitempty,dive"`
}

func toPermissions(in []permissionRequest) []domain.Permission {
	out := make([]domain.Permission, 0, len(in))
	for _, p := range in {
		out = append(out, domain.Permission(p))
	}
	return out
}

// List returns every role.
//
// @Summary      List roles
// @Tags         admin-roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Role
// @Failure      403  {object}  map[string]string
// @Router       /api/admin/roles [get]
func (h *RoleHandler) List(c echo.Context) error {
	roles, err := h.roles.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, roles)
}

// Get returns a role by id.
//
// @Summary      Get role
// @Tags         admin-roles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Role ID"
// @Success      200  {object}  domain.Role
// @Failure      404
// @Router       /api/admin/roles/{id} [get]
func (h *RoleHandler) Get(c echo.Context) error {
	role, err := h.roles.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, role)
}

// GetByName returns a role by name.
//
// @Summary      Get role by name
// @Tags         admin-roles
// @Produce      json
// @Security     BearerAuth
// @Param        name  path      string  true  "Role name"
// @Success      200   {object}  domain.Role
// @Failure      404
// @Router       /api/admin/roles/name/{name} [get]
func (h *RoleHandler) GetByName(c echo.Context) error {
	role, err := h.roles.GetByName(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, role)
}

// Create adds a role.
//
// @Summary      Create role
// @Tags         admin-roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      roleRequest  true  "Role"
// @Success      200   {object}  domain.Role
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/admin/roles [post]
func (h *RoleHandler) Create(c echo.Context) error {
	var req roleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	role, err := h.roles.Create(c.Request().Context(), domain.Role{
		Name:        req.Name,
		Title:       req.Title,
		Description: req.Description,
		Permissions: toPermissions(req.Permissions),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, role)
}

// Update applies a partial update to a role.
//
// @Summary      Update role
// @Tags         admin-roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Role ID"
// @Param        body  body      rolePatchRequest  true  "Fields to change"
// @Success      200   {object}  domain.Role
// @Failure      400   {object}  map[string]string
// @Failure      404
// @Router       /api/admin/roles/{id} [put]
func (h *RoleHandler) Update(c echo.Context) error {
	var req rolePatchRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	patch := ports.RolePatch{Name: req.Name, Title: req.Title, Description: req.Description}
	if req.Permissions != nil {
		perms := toPermissions(*req.Permissions)
		patch.Permissions = &perms
	}

	role, err := h.roles.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, role)
}

// Delete removes a role.
//
// @Summary      Delete role
// @Tags         admin-roles
// @Security     BearerAuth
// @Param        id  path  string  true  "Role ID"
// @Success      200
// @Failure      404
// @Router       /api/admin/roles/{id} [delete]
func (h *RoleHandler) Delete(c echo.Context) error {
	if err := h.roles.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

// Init creates the default roles that are missing.
//
// @Summary      Initialize default roles
// @Tags         admin-roles
// @Produce      json
// @Success      200  {object}  initRolesResponse
// @Router       /api/admin/roles/init [post]
func (h *RoleHandler) Init(c echo.Context) error {
	created, err := h.roles.InitializeRoles(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, initRolesResponse{
		Message:      "Roles initialized",
		RolesCreated: created,
	})
}
