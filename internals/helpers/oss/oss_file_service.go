// file: internals/helpers/oss/oss_file_service.go

package helper

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

/*
BlobService is the upload/delete facade used by the pages feature.

- Upload(ctx, path, data, contentType) -> publicURL
  path is relative to the driver prefix, e.g. "pages/{slug}/photo_0.jpg"
- Delete(ctx, publicURL) is idempotent: a missing object is not an error.
*/
type BlobService interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (publicURL string, err error)
	Delete(ctx context.Context, publicURL string) error
}

const cacheForever = "public, max-age=31536000, immutable"

// NewBlobServiceFromEnv picks the driver by BLOB_DRIVER: oss | s3 | memory.
func NewBlobServiceFromEnv(driver, prefix string) (BlobService, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "oss":
		return NewOSSServiceFromEnv(prefix)
	case "s3", "minio":
		return NewS3ServiceFromEnv(prefix)
	case "memory":
		return NewMemoryBlobService("http://localhost/blobs"), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %q", driver)
	}
}

func joinKey(prefix, path string) string {
	prefix = strings.Trim(prefix, "/")
	path = strings.TrimLeft(path, "/")
	if prefix == "" {
		return path
	}
	return prefix + "/" + path
}

// --------------------------------------------------
// Mock for unit tests
// --------------------------------------------------

type MockBlobService struct {
	UploadFn func(ctx context.Context, path string, data []byte, contentType string) (string, error)
	DeleteFn func(ctx context.Context, publicURL string) error
}

func (m *MockBlobService) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if m.UploadFn == nil {
		return "", errors.New("not implemented")
	}
	return m.UploadFn(ctx, path, data, contentType)
}

func (m *MockBlobService) Delete(ctx context.Context, publicURL string) error {
	if m.DeleteFn == nil {
		return errors.New("not implemented")
	}
	return m.DeleteFn(ctx, publicURL)
}
