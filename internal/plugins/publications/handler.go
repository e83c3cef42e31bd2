package publications

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/suydacity/syuda/internal/apperror"
)

// Handler handles HTTP requests for publications.
type Handler struct {
	service Service
}

// NewHandler creates a new publications handler with the given service.
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Create stores a new publication (POST /publications/create). The request
// body is the publication itself.
func (h *Handler) Create(c echo.Context) error {
	var p Publication
	if err := c.Bind(&p); err != nil {
		return apperror.NewValidation("Invalid publication data")
	}

	if err := h.service.Create(c.Request().Context(), &p); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"ok":          true,
		"publication": p,
	})
}

// List returns all publications newest-first (GET /publications/list).
func (h *Handler) List(c echo.Context) error {
	list, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"ok":           true,
		"publications": list,
	})
}

// Delete removes a publication by id (POST /publications/delete).
func (h *Handler) Delete(c echo.Context) error {
	var req DeleteRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewValidation("Invalid request body")
	}

	if err := h.service.Delete(c.Request().Context(), req.PublicationID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}
