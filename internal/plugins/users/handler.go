package users

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/suydacity/syuda/internal/apperror"
)

// Handler handles HTTP requests for profiles. Handlers are thin: they bind
// the request, call the service, and write the response. No business logic
// lives here.
type Handler struct {
	service Service
}

// NewHandler creates a new users handler with the given service.
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetProfile returns a profile by email (GET /users/profile?email=).
// The passwordHash never leaves the server on this path.
func (h *Handler) GetProfile(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return apperror.NewValidation("Email is required")
	}

	profile, err := h.service.GetProfile(c.Request().Context(), email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"ok":      true,
		"profile": profile.WithoutPassword(),
	})
}

// SaveProfile creates or updates a profile (POST /users/profile).
func (h *Handler) SaveProfile(c echo.Context) error {
	var req SaveProfileRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewValidation("Invalid request body")
	}
	if req.Email == "" || req.Profile == nil {
		return apperror.NewValidation("Email and profile are required")
	}

	if err := h.service.SaveProfile(c.Request().Context(), req.Email, req.Profile); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}

// CheckUsername reports username availability (POST /users/check-username).
func (h *Handler) CheckUsername(c echo.Context) error {
	var req CheckUsernameRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewValidation("Invalid request body")
	}
	if req.Username == "" {
		return apperror.NewValidation("Username is required")
	}

	available, err := h.service.CheckUsername(c.Request().Context(), req.Username, req.CurrentEmail)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"ok":        true,
		"available": available,
	})
}
