// Package blob stores product and banner images in a remote public bucket.
package blob

import (
	"context"
	"errors"
	"strings"
)

// MaxUploadSize is the largest accepted image payload.
const MaxUploadSize = 5 << 20

var (
	// ErrNotImage indicates the payload's content type is not an image.
	ErrNotImage = errors.New("file is not an image")
	// ErrTooLarge indicates the payload exceeds MaxUploadSize.
	ErrTooLarge = errors.New("image exceeds the 5 MiB limit")
	// ErrForeignURL indicates a delete target outside the configured bucket.
	ErrForeignURL = errors.New("url is not hosted in the image bucket")
)

// Store uploads images and deletes them by their public URL.
type Store interface {
	// Upload stores the image and returns its public URL.
	Upload(ctx context.Context, filename, contentType string, data []byte) (string, error)
	// Delete removes the image behind a public URL previously returned by
	// Upload. URLs outside the bucket are rejected with ErrForeignURL.
	Delete(ctx context.Context, publicURL string) error
}

// ValidateImage applies the local pre-checks shared by every Store
// implementation. Rejections here never reach the network.
func ValidateImage(contentType string, size int) error {
	if !strings.HasPrefix(contentType, "image/") {
		return ErrNotImage
	}
	if size > MaxUploadSize {
		return ErrTooLarge
	}
	return nil
}
