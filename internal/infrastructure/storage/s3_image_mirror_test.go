package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraconfig "github.com/sunwoo0067/yooni-03-sub011/internal/infrastructure/config"
)

func validStorageConfig() *infraconfig.StorageConfig {
	return &infraconfig.StorageConfig{
		Enabled:         true,
		Endpoint:        "http://localhost:9000",
		Region:          "ap-northeast-2",
		Bucket:          "product-images",
		AccessKeyID:     "ak",
		SecretAccessKey: "sk",
		UsePathStyle:    true,
		PublicBaseURL:   "https://img.example.com/",
	}
}

func TestNewS3ImageMirror_Validation(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		mirror, err := NewS3ImageMirror(validStorageConfig())
		require.NoError(t, err)
		assert.Equal(t, "https://img.example.com", mirror.publicBaseURL)
	})

	t.Run("nil config", func(t *testing.T) {
		_, err := NewS3ImageMirror(nil)
		assert.Error(t, err)
	})

	tests := []struct {
		name   string
		mutate func(*infraconfig.StorageConfig)
	}{
		{"missing bucket", func(c *infraconfig.StorageConfig) { c.Bucket = "" }},
		{"missing access key", func(c *infraconfig.StorageConfig) { c.AccessKeyID = "" }},
		{"missing secret key", func(c *infraconfig.StorageConfig) { c.SecretAccessKey = "" }},
		{"missing public base URL", func(c *infraconfig.StorageConfig) { c.PublicBaseURL = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validStorageConfig()
			tt.mutate(cfg)
			_, err := NewS3ImageMirror(cfg)
			assert.Error(t, err)
		})
	}
}

func TestObjectKey(t *testing.T) {
	productID := uuid.New()

	key := ObjectKey(productID, 0, "https://cdn.wholesaler.com/a.jpg", "image/jpeg")
	assert.True(t, strings.HasPrefix(key, "products/"+productID.String()+"/0-"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))

	// Same source URL yields the same key across runs
	again := ObjectKey(productID, 0, "https://cdn.wholesaler.com/a.jpg", "image/jpeg")
	assert.Equal(t, key, again)

	other := ObjectKey(productID, 0, "https://cdn.wholesaler.com/b.jpg", "image/jpeg")
	assert.NotEqual(t, key, other)

	assert.True(t, strings.HasSuffix(ObjectKey(productID, 1, "u", "image/png"), ".png"))
	assert.True(t, strings.HasSuffix(ObjectKey(productID, 1, "u", "image/webp"), ".webp"))
	assert.False(t, strings.Contains(ObjectKey(productID, 1, "u", "application/octet-stream"), "."))
}

func TestNoopImageMirror(t *testing.T) {
	mirror := NewNoopImageMirror()

	urls := []string{"https://cdn.wholesaler.com/a.jpg", "https://cdn.wholesaler.com/b.jpg"}
	out, err := mirror.MirrorImages(context.Background(), uuid.New(), urls)
	require.NoError(t, err)
	assert.Equal(t, urls, out)
}
