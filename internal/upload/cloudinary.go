package upload

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryConfig holds the credentials and has no ambient fallback:
// partial credentials fail construction instead of failing the first
// upload.
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

// CloudinaryUploader publishes images to a Cloudinary account.
type CloudinaryUploader struct {
	client *cloudinary.Cloudinary
}

// NewCloudinaryUploader creates an uploader from explicit credentials.
func NewCloudinaryUploader(cfg CloudinaryConfig) (*CloudinaryUploader, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials are incomplete")
	}
	client, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %w", err)
	}
	return &CloudinaryUploader{client: client}, nil
}

// Upload stores one image and returns the host's reference to it.
func (u *CloudinaryUploader) Upload(ctx context.Context, req Request) (*Result, error) {
	if len(req.Data) == 0 {
		return nil, fmt.Errorf("no image data to upload")
	}

	resp, err := u.client.Upload.Upload(ctx, bytes.NewReader(req.Data), uploader.UploadParams{
		PublicID: req.PublicID,
		Folder:   req.Folder,
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload failed: %w", err)
	}
	if resp.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary rejected upload: %s", resp.Error.Message)
	}

	return &Result{
		SecureURL: resp.SecureURL,
		PublicID:  resp.PublicID,
		Format:    resp.Format,
		Width:     resp.Width,
		Height:    resp.Height,
		Bytes:     resp.Bytes,
	}, nil
}
