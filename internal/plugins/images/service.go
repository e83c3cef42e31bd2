// Package images is a thin passthrough to the external image host: it takes
// a data URI from the browser and returns a hosted URL.
package images

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/suydacity/syuda/internal/apperror"
	"github.com/suydacity/syuda/internal/config"
)

// uploadFolder is where publication images land in the Cloudinary account.
const uploadFolder = "suydacity/publications"

// uploadTransformation limits stored images to 1200x1200 and lets the host
// pick quality and format.
const uploadTransformation = "c_limit,w_1200,h_1200/q_auto,f_auto"

// UploadResult is what the client gets back for a hosted image.
type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// Uploader is the contract for the image host.
type Uploader interface {
	Upload(ctx context.Context, dataURI string) (*UploadResult, error)
}

// cloudinaryUploader implements Uploader against Cloudinary.
type cloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryUploader creates an Uploader from Cloudinary credentials.
// Returns an error when any credential is missing.
func NewCloudinaryUploader(cfg config.CloudinaryConfig) (Uploader, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials are not configured")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("creating cloudinary client: %w", err)
	}

	return &cloudinaryUploader{cld: cld}, nil
}

// Upload sends the data URI to Cloudinary and returns the hosted URL.
func (u *cloudinaryUploader) Upload(ctx context.Context, dataURI string) (*UploadResult, error) {
	res, err := u.cld.Upload.Upload(ctx, dataURI, uploader.UploadParams{
		Folder:         uploadFolder,
		Transformation: uploadTransformation,
		ResourceType:   "image",
	})
	if err != nil {
		return nil, apperror.NewDelivery("Failed to upload image", err)
	}
	if res.Error.Message != "" {
		return nil, apperror.NewDelivery("Failed to upload image: "+res.Error.Message, nil)
	}

	return &UploadResult{
		URL:      res.SecureURL,
		PublicID: res.PublicID,
		Width:    res.Width,
		Height:   res.Height,
	}, nil
}
