package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/suydacity/syuda/internal/apperror"
)

// Handler handles HTTP requests for authentication.
type Handler struct {
	service Service

	// fallbackBaseURL is used for magic-link construction when the
	// request carries no forwarding headers and no Host.
	fallbackBaseURL string
}

// NewHandler creates a new auth handler with the given service.
func NewHandler(service Service, fallbackBaseURL string) *Handler {
	return &Handler{service: service, fallbackBaseURL: fallbackBaseURL}
}

// RequestLink issues a magic link (POST /auth/request-link).
func (h *Handler) RequestLink(c echo.Context) error {
	var req RequestLinkRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewValidation("Invalid request body")
	}

	baseURL := h.baseURL(c)
	if err := h.service.RequestLink(c.Request().Context(), req.Email, req.Mode, baseURL); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}

// Verify redeems a magic-link token (POST /auth/verify). On success the
// verified email is returned for the client to carry forward.
func (h *Handler) Verify(c echo.Context) error {
	var req VerifyRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewValidation("Invalid request body")
	}

	email, err := h.service.Redeem(c.Request().Context(), req.Token)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"ok":    true,
		"email": email,
	})
}

// Login authenticates email+password (POST /auth/login).
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewValidation("Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return apperror.NewValidation("Email и пароль обязательны")
	}

	profile, err := h.service.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		// Accounts without a password get an extra hint field so the
		// client can steer the user to the link-based flow.
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Type == "no_password_set" {
			return c.JSON(appErr.Code, map[string]any{
				"error":         appErr.Message,
				"needsPassword": true,
			})
		}
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"ok":      true,
		"profile": profile,
	})
}

// baseURL derives the public base URL from the reverse proxy's forwarding
// headers, matching how the redemption links are reached from outside.
func (h *Handler) baseURL(c echo.Context) string {
	req := c.Request()

	proto := req.Header.Get("X-Forwarded-Proto")
	if proto == "" {
		proto = "https"
	}

	host := req.Header.Get("X-Forwarded-Host")
	if host == "" {
		host = req.Host
	}
	if host == "" {
		return h.fallbackBaseURL
	}

	return proto + "://" + host
}
