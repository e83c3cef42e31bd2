package auth

import "github.com/labstack/echo/v4"

// RegisterRoutes sets up all auth routes on the given Echo instance. All
// three are public by nature -- they are how a session comes to exist.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.POST("/auth/request-link", h.RequestLink)
	e.POST("/auth/verify", h.Verify)
	e.POST("/auth/login", h.Login)
}
