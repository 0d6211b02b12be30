package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"gestion/internal/config"
)

// Driver is the object store behind item images.
type Driver interface {
	// Upload stores file under path and returns the stored key and the URL
	// clients use to fetch it.
	Upload(ctx context.Context, file io.Reader, path string) (storagePath string, publicURL string, err error)
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
}

// New picks the driver named by STORAGE_DRIVER.
func New(ctx context.Context, cfg *config.Config) (Driver, error) {
	switch cfg.StorageDriver {
	case "local", "":
		path := cfg.UploadsPath
		if path == "" {
			path = "./uploads"
		}
		return NewLocal(path), nil
	case "s3":
		return NewS3(ctx, S3Config{
			Bucket:          cfg.AWSBucket,
			Region:          cfg.AWSRegion,
			Endpoint:        cfg.AWSEndpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
	default:
		return nil, fmt.Errorf("storage: driver no soportado %q", cfg.StorageDriver)
	}
}

func contentType(path string) string {
	switch {
	case strings.HasSuffix(path, ".jpg"), strings.HasSuffix(path, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(path, ".png"):
		return "image/png"
	case strings.HasSuffix(path, ".webp"):
		return "image/webp"
	}
	return "application/octet-stream"
}
