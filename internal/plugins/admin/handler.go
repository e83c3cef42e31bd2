// Package admin exposes the danger-zone endpoints: user diagnostics, user
// deletion, and bulk data clearing. These are the only flows that delete
// profiles. They are meant for operators, not end users.
package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/suydacity/syuda/internal/apperror"
	"github.com/suydacity/syuda/internal/plugins/publications"
	"github.com/suydacity/syuda/internal/plugins/users"
)

// EmailRequest is the body of check-user and delete-user.
type EmailRequest struct {
	Email string `json:"email"`
}

// ClearRequest is the body of clear-all.
type ClearRequest struct {
	Secret string `json:"secret"`
}

// Handler handles the administrative endpoints.
type Handler struct {
	users        users.Service
	publications publications.Service
	clearSecret  string
}

// NewHandler creates a new admin handler.
func NewHandler(usersSvc users.Service, pubsSvc publications.Service, clearSecret string) *Handler {
	return &Handler{
		users:        usersSvc,
		publications: pubsSvc,
		clearSecret:  clearSecret,
	}
}

// CheckUser reports diagnostics for an account (POST /admin/check-user):
// whether a profile exists and whether it carries a password hash.
func (h *Handler) CheckUser(c echo.Context) error {
	var req EmailRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewValidation("Invalid request body")
	}
	if req.Email == "" {
		return apperror.NewValidation("Email is required")
	}

	normalized := users.NormalizeEmail(req.Email)

	profile, err := h.users.GetProfile(c.Request().Context(), normalized)
	if err != nil {
		if apperror.SafeCode(err) == http.StatusNotFound {
			return c.JSON(http.StatusNotFound, map[string]any{
				"error":      "User not found",
				"email":      normalized,
				"hasProfile": false,
			})
		}
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"ok":              true,
		"email":           normalized,
		"hasProfile":      true,
		"hasPasswordHash": profile.PasswordHash != "",
		"profile":         profile.WithoutPassword(),
	})
}

// DeleteUser removes a profile and its username index entry
// (POST /admin/delete-user).
func (h *Handler) DeleteUser(c echo.Context) error {
	var req EmailRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewValidation("Invalid request body")
	}
	if req.Email == "" {
		return apperror.NewValidation("Email is required")
	}

	normalized := users.NormalizeEmail(req.Email)
	if err := h.users.DeleteProfile(c.Request().Context(), normalized); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"ok":      true,
		"message": "User " + normalized + " deleted successfully",
	})
}

// ClearAll wipes every publication (POST /admin/clear-all). Guarded by a
// shared secret; profiles are untouched since their emails are not
// enumerable from the store.
func (h *Handler) ClearAll(c echo.Context) error {
	var req ClearRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewValidation("Invalid request body")
	}

	if h.clearSecret == "" {
		return apperror.NewConfiguration("CLEAR_SECRET is not configured")
	}
	if subtle.ConstantTimeCompare([]byte(req.Secret), []byte(h.clearSecret)) != 1 {
		return apperror.NewUnauthorized("Unauthorized. Provide correct secret.")
	}

	if err := h.publications.DeleteAll(c.Request().Context()); err != nil {
		return err
	}

	slog.Warn("cleared all publications")

	return c.JSON(http.StatusOK, map[string]any{
		"ok":      true,
		"message": "Publications cleared",
	})
}

// RegisterRoutes sets up all admin routes on the given Echo instance.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.POST("/admin/check-user", h.CheckUser)
	e.POST("/admin/delete-user", h.DeleteUser)
	e.POST("/admin/clear-all", h.ClearAll)
}
