package users

import "github.com/labstack/echo/v4"

// RegisterRoutes sets up all profile routes on the given Echo instance.
// Echo answers 405 for any other verb on these paths.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/users/profile", h.GetProfile)
	e.POST("/users/profile", h.SaveProfile)
	e.POST("/users/check-username", h.CheckUsername)
}
