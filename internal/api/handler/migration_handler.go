package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/turismo/turismo-api/internal/core/ports"
)

// MigrationHandler exposes the role seed to operators.
type MigrationHandler struct {
	roles ports.RoleService
}

func NewMigrationHandler(roles ports.RoleService) *MigrationHandler {
	return &MigrationHandler{roles: roles}
}

type migrationStatusResponse struct {
	RolesInitialized bool `json:"roles_initialized"`
	RoleCount        int  `json:"role_count"`
}

// Setup runs the default role seed.
//
// @Summary      Run role seed
// @Tags         migracion
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  initRolesResponse
// @Router       /api/migracion/setup [post]
func (h *MigrationHandler) Setup(c echo.Context) error {
	created, err := h.roles.InitializeRoles(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, initRolesResponse{
		Message:      "Migration completed",
		RolesCreated: created,
	})
}

// Status reports whether the default roles exist.
//
// @Summary      Migration status
// @Tags         migracion
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  migrationStatusResponse
// @Router       /api/migracion/status [get]
func (h *MigrationHandler) Status(c echo.Context) error {
	ctx := c.Request().Context()
	ok, err := h.roles.SeedStatus(ctx)
	if err != nil {
		return err
	}
	roles, err := h.roles.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, migrationStatusResponse{RolesInitialized: ok, RoleCount: len(roles)})
}
