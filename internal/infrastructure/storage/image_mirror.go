// Package storage mirrors wholesaler product images into object storage
// so listings do not depend on wholesaler CDNs staying up.
package storage

import (
	"context"

	"github.com/google/uuid"
)

// ImageMirror copies product images from wholesaler URLs into storage we
// control and returns the URLs to serve them from
type ImageMirror interface {
	MirrorImages(ctx context.Context, productID uuid.UUID, sourceURLs []string) ([]string, error)
}

// NoopImageMirror passes wholesaler URLs through unchanged. Used when
// image mirroring is disabled.
type NoopImageMirror struct{}

// NewNoopImageMirror creates a NoopImageMirror
func NewNoopImageMirror() *NoopImageMirror {
	return &NoopImageMirror{}
}

// MirrorImages returns the source URLs as-is
func (m *NoopImageMirror) MirrorImages(ctx context.Context, productID uuid.UUID, sourceURLs []string) ([]string, error) {
	return sourceURLs, nil
}

// Ensure NoopImageMirror implements ImageMirror
var _ ImageMirror = (*NoopImageMirror)(nil)
