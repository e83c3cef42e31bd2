package publications

import "github.com/labstack/echo/v4"

// RegisterRoutes sets up all publication routes on the given Echo instance.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.POST("/publications/create", h.Create)
	e.GET("/publications/list", h.List)
	e.POST("/publications/delete", h.Delete)
}
