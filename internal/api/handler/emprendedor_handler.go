package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/turismo/turismo-api/internal/core/domain"
	"github.com/turismo/turismo-api/internal/core/ports"
)

// EmprendedorHandler serves /api/emprendedores and its nested reviews.
type EmprendedorHandler struct {
	emprendedores ports.EmprendedorService
	reviews       ports.ReviewService
}

func NewEmprendedorHandler(emprendedores ports.EmprendedorService, reviews ports.ReviewService) *EmprendedorHandler {
	return &EmprendedorHandler{emprendedores: emprendedores, reviews: reviews}
}

type emprendedorRequest struct {
	Name        string `json:"name" validate:"required,max=150"`
	Description string `json:"description" validate:"max=2000"`
	Category    string `json:"category" validate:"max=100"`
	Location    string `json:"location" validate:"max=255"`
	Phone       string `json:"phone" validate:"max=30"`
	Email       string `json:"email" validate:"omitempty,email"`
	Active      *bool  `json:"active"`
}

type emprendedorPatchRequest struct {
	Name        string `json:"name" validate:"max=150"`
	Description string `json:"description" validate:"max=2000"`
	Category    string `json:"category" validate:"max=100"`
	Location    string `json:"location" validate:"max=255"`
	Phone       string `json:"phone" validate:"max=30"`
	Email       string `json:"email" validate:"omitempty,email"`
	Active      *bool  `json:"active"`
}

type reviewStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}

type reviewRequest struct {
	AuthorName string   `json:"author_name" validate:"required,max=100"`
	Comment    string   `json:"comment" validate:"required,max=500"`
	Rating     int      `json:"rating" validate:"gte=1,lte=5"`
	Images     []string `json:"images" validate:"omitempty,dive,url"`
}

// List returns the active emprendedores.
//
// @Summary      List emprendedores
// @Tags         emprendedores
// @Produce      json
// @Success      200  {array}  domain.Emprendedor
// @Router       /api/emprendedores [get]
func (h *EmprendedorHandler) List(c echo.Context) error {
	list, err := h.emprendedores.ListActive(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// Get returns one emprendedor.
//
// @Summary      Get emprendedor
// @Tags         emprendedores
// @Produce      json
// @Param        id   path      string  true  "Emprendedor ID"
// @Success      200  {object}  domain.Emprendedor
// @Failure      404
// @Router       /api/emprendedores/{id} [get]
func (h *EmprendedorHandler) Get(c echo.Context) error {
	e, err := h.emprendedores.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

// Create registers an emprendedor owned by the caller.
//
// @Summary      Create emprendedor
// @Tags         emprendedores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      emprendedorRequest  true  "Emprendedor"
// @Success      200   {object}  domain.Emprendedor
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/emprendedores [post]
func (h *EmprendedorHandler) Create(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req emprendedorRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	e, err := h.emprendedores.Create(c.Request().Context(), id.Subject, ports.EmprendedorInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		Phone:       req.Phone,
		Email:       req.Email,
		Active:      req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

// Update changes the non-empty fields of an emprendedor.
//
// @Summary      Update emprendedor
// @Tags         emprendedores
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                   true  "Emprendedor ID"
// @Param        body  body      emprendedorPatchRequest  true  "Fields to change"
// @Success      200   {object}  domain.Emprendedor
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404
// @Router       /api/emprendedores/{id} [put]
func (h *EmprendedorHandler) Update(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req emprendedorPatchRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	e, err := h.emprendedores.Update(c.Request().Context(), actor, c.Param("id"), ports.EmprendedorInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		Phone:       req.Phone,
		Email:       req.Email,
		Active:      req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

// Delete removes an emprendedor.
//
// @Summary      Delete emprendedor
// @Tags         emprendedores
// @Security     BearerAuth
// @Param        id  path  string  true  "Emprendedor ID"
// @Success      200
// @Failure      403  {object}  map[string]string
// @Failure      404
// @Router       /api/emprendedores/{id} [delete]
func (h *EmprendedorHandler) Delete(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	if err := h.emprendedores.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

// ListReviews returns the reviews of an emprendedor.
//
// @Summary      List reviews
// @Tags         resenas
// @Produce      json
// @Param        id   path      string  true  "Emprendedor ID"
// @Success      200  {array}   domain.Review
// @Failure      404
// @Router       /api/emprendedores/{id}/resenas [get]
func (h *EmprendedorHandler) ListReviews(c echo.Context) error {
	list, err := h.reviews.List(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// CreateReview adds a pending review signed with the caller's email.
//
// @Summary      Create review
// @Tags         resenas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Emprendedor ID"
// @Param        body  body      reviewRequest  true  "Review"
// @Success      200   {object}  domain.Review
// @Failure      400   {object}  map[string]string
// @Failure      404
// @Router       /api/emprendedores/{id}/resenas [post]
func (h *EmprendedorHandler) CreateReview(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req reviewRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	rv, err := h.reviews.Create(c.Request().Context(), c.Param("id"), ports.CreateReviewInput{
		AuthorName:  req.AuthorName,
		AuthorEmail: id.Subject,
		Comment:     req.Comment,
		Rating:      req.Rating,
		Images:      req.Images,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rv)
}

// DeleteReview removes a review of an emprendedor.
//
// @Summary      Delete review
// @Tags         resenas
// @Security     BearerAuth
// @Param        id         path  string  true  "Emprendedor ID"
// @Param        review_id  path  string  true  "Review ID"
// @Success      200
// @Failure      403  {object}  map[string]string
// @Failure      404
// @Router       /api/emprendedores/{id}/resenas/{review_id} [delete]
func (h *EmprendedorHandler) DeleteReview(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	if err := h.reviews.Delete(c.Request().Context(), actor, c.Param("id"), c.Param("review_id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

// UpdateReviewStatus approves or rejects a review. Restricted to admins and
// the emprendedor's owner.
//
// @Summary      Moderate review
// @Tags         resenas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id         path      string               true  "Emprendedor ID"
// @Param        review_id  path      string               true  "Review ID"
// @Param        body       body      reviewStatusRequest  true  "New status"
// @Success      200        {object}  domain.Review
// @Failure      400        {object}  map[string]string
// @Failure      403        {object}  map[string]string
// @Failure      404
// @Router       /api/emprendedores/{id}/resenas/{review_id}/estado [put]
func (h *EmprendedorHandler) UpdateReviewStatus(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}
	var req reviewStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	rv, err := h.reviews.UpdateStatus(c.Request().Context(), actor, c.Param("id"), c.Param("review_id"), domain.ReviewStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rv)
}
