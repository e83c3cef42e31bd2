package app

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/suydacity/syuda/internal/plugins/admin"
	"github.com/suydacity/syuda/internal/plugins/auth"
	"github.com/suydacity/syuda/internal/plugins/images"
	"github.com/suydacity/syuda/internal/plugins/publications"
	"github.com/suydacity/syuda/internal/plugins/users"
)

// RegisterRoutes builds every plugin's repository/service/handler stack and
// registers its routes. This is the single place where all routes are
// aggregated.
func RegisterRoutes(a *App) {
	e := a.Echo

	// Health check endpoint for container health monitoring.
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// users plugin -- profiles and the username uniqueness index.
	userRepo := users.NewRepository(a.Redis)
	userSvc := users.NewService(userRepo)
	users.RegisterRoutes(e, users.NewHandler(userSvc))

	// auth plugin -- magic links and password login. Password login reads
	// profiles straight from the users repository.
	tokenRepo := auth.NewTokenRepository(a.Redis)
	authSvc := auth.NewService(tokenRepo, userRepo, a.Mail, a.Config.Auth.MagicLinkTTL)
	auth.RegisterRoutes(e, auth.NewHandler(authSvc, a.Config.BaseURL))

	// publications plugin -- the shared post collection.
	pubRepo := publications.NewRepository(a.Redis)
	pubSvc := publications.NewService(pubRepo)
	publications.RegisterRoutes(e, publications.NewHandler(pubSvc))

	// images plugin -- Cloudinary passthrough.
	images.RegisterRoutes(e, images.NewHandler(a.Uploader))

	// admin plugin -- danger-zone endpoints.
	admin.RegisterRoutes(e, admin.NewHandler(userSvc, pubSvc, a.Config.Admin.ClearSecret))
}
