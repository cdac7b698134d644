// Package storage provides the image-hosting collaborator: binary in,
// public URL out. The catalog services depend only on the Uploader
// interface so tests can substitute fakes.
package storage

import (
	"context"
	"errors"
	"io"
)

// Upload folders, mirroring the hosting account layout.
const (
	CategoryFolder = "powermed/categories"
	ProductFolder  = "powermed/products"
)

// MaxImageSize is the largest accepted image upload, in bytes.
const MaxImageSize = 5 << 20

// ErrUploadsDisabled is returned when storage credentials were not
// configured. The process still runs; only image uploads degrade.
var ErrUploadsDisabled = errors.New("image uploads are not configured")

// Uploader stores an image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, body io.Reader, contentType, folder string) (string, error)
}

// Disabled is an Uploader that always fails with ErrUploadsDisabled.
type Disabled struct{}

func (Disabled) Upload(ctx context.Context, body io.Reader, contentType, folder string) (string, error) {
	return "", ErrUploadsDisabled
}
