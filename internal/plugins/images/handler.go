package images

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/suydacity/syuda/internal/apperror"
)

// UploadRequest is the body of POST /images/upload.
type UploadRequest struct {
	Image string `json:"image"`
}

// Handler handles HTTP requests for image uploads.
type Handler struct {
	// uploader may be nil when Cloudinary credentials are absent;
	// requests then fail with a configuration error instead of at boot.
	uploader Uploader
}

// NewHandler creates a new images handler. A nil uploader is allowed.
func NewHandler(uploader Uploader) *Handler {
	return &Handler{uploader: uploader}
}

// Upload accepts a data URI and returns the hosted URL (POST /images/upload).
func (h *Handler) Upload(c echo.Context) error {
	var req UploadRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewValidation("Invalid request body")
	}
	if req.Image == "" || !strings.HasPrefix(req.Image, "data:image/") {
		return apperror.NewValidation("Invalid image data")
	}

	if h.uploader == nil {
		return apperror.NewConfiguration("Image hosting is not configured")
	}

	result, err := h.uploader.Upload(c.Request().Context(), req.Image)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"ok":       true,
		"url":      result.URL,
		"publicId": result.PublicID,
		"width":    result.Width,
		"height":   result.Height,
	})
}

// RegisterRoutes sets up the image upload route.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.POST("/images/upload", h.Upload)
}
