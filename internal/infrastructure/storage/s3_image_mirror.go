package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	infraconfig "github.com/sunwoo0067/yooni-03-sub011/internal/infrastructure/config"
)

// maxImageSize caps a single downloaded image at 20MB
const maxImageSize = 20 * 1024 * 1024

// downloadTimeout bounds one image download
const downloadTimeout = 30 * time.Second

// S3ImageMirror downloads wholesaler images and re-hosts them in an
// S3-compatible bucket (AWS S3, MinIO, RustFS)
type S3ImageMirror struct {
	client        *s3.Client
	httpClient    *http.Client
	bucket        string
	publicBaseURL string
	logger        *zap.Logger
}

// S3ImageMirrorOption is a functional option for configuring S3ImageMirror
type S3ImageMirrorOption func(*S3ImageMirror)

// WithLogger sets a custom logger
func WithLogger(logger *zap.Logger) S3ImageMirrorOption {
	return func(m *S3ImageMirror) {
		m.logger = logger
	}
}

// WithHTTPClient sets the client used to download source images
func WithHTTPClient(client *http.Client) S3ImageMirrorOption {
	return func(m *S3ImageMirror) {
		m.httpClient = client
	}
}

// NewS3ImageMirror creates an image mirror from configuration
func NewS3ImageMirror(cfg *infraconfig.StorageConfig, opts ...S3ImageMirrorOption) (*S3ImageMirror, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKeyID == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretAccessKey == "" {
		return nil, errors.New("storage secret key is required")
	}
	if cfg.PublicBaseURL == "" {
		return nil, errors.New("storage public base URL is required")
	}

	region := cfg.Region
	if region == "" {
		region = "ap-northeast-2"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	mirror := &S3ImageMirror{
		client:        client,
		httpClient:    &http.Client{Timeout: downloadTimeout},
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(mirror)
	}

	return mirror, nil
}

// EnsureBucket creates the bucket if it doesn't exist. Call during startup.
func (m *S3ImageMirror) EnsureBucket(ctx context.Context) error {
	_, err := m.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(m.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	m.logger.Info("Creating storage bucket", zap.String("bucket", m.bucket))
	_, err = m.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(m.bucket),
	})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	return nil
}

// MirrorImages copies each source image into the bucket and returns the
// public URLs. A failed download skips that image rather than failing the
// whole product; an empty result with a non-nil error means nothing could
// be mirrored.
func (m *S3ImageMirror) MirrorImages(ctx context.Context, productID uuid.UUID, sourceURLs []string) ([]string, error) {
	if len(sourceURLs) == 0 {
		return nil, nil
	}

	mirrored := make([]string, 0, len(sourceURLs))
	var lastErr error

	for i, sourceURL := range sourceURLs {
		publicURL, err := m.mirrorOne(ctx, productID, i, sourceURL)
		if err != nil {
			lastErr = err
			m.logger.Warn("Failed to mirror product image",
				zap.String("product_id", productID.String()),
				zap.String("source_url", sourceURL),
				zap.Error(err),
			)
			continue
		}
		mirrored = append(mirrored, publicURL)
	}

	if len(mirrored) == 0 && lastErr != nil {
		return nil, fmt.Errorf("all %d images failed to mirror: %w", len(sourceURLs), lastErr)
	}
	return mirrored, nil
}

func (m *S3ImageMirror) mirrorOne(ctx context.Context, productID uuid.UUID, index int, sourceURL string) (string, error) {
	if _, err := url.ParseRequestURI(sourceURL); err != nil {
		return "", fmt.Errorf("invalid image URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image download returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageSize))
	if err != nil {
		return "", fmt.Errorf("failed to read image body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	key := ObjectKey(productID, index, sourceURL, contentType)

	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return m.publicBaseURL + "/" + key, nil
}

// DeleteProductImages removes every mirrored image of a product
func (m *S3ImageMirror) DeleteProductImages(ctx context.Context, productID uuid.UUID) error {
	prefix := "products/" + productID.String() + "/"

	list, err := m.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(m.bucket),
		Prefix: aws.String(prefix),
	})
	if err != nil {
		return fmt.Errorf("failed to list product images: %w", err)
	}

	for _, obj := range list.Contents {
		_, err := m.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(m.bucket),
			Key:    obj.Key,
		})
		if err != nil {
			return fmt.Errorf("failed to delete object %s: %w", aws.ToString(obj.Key), err)
		}
	}

	return nil
}

// ObjectKey builds the bucket key for one product image. The source URL
// hash keeps keys stable across collection runs so re-mirroring the same
// image overwrites instead of duplicating.
func ObjectKey(productID uuid.UUID, index int, sourceURL, contentType string) string {
	sum := sha256.Sum256([]byte(sourceURL))
	return fmt.Sprintf("products/%s/%d-%s%s",
		productID.String(), index, hex.EncodeToString(sum[:4]), extensionFor(contentType))
}

func extensionFor(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/jpeg"):
		return ".jpg"
	case strings.HasPrefix(contentType, "image/png"):
		return ".png"
	case strings.HasPrefix(contentType, "image/gif"):
		return ".gif"
	case strings.HasPrefix(contentType, "image/webp"):
		return ".webp"
	default:
		return ""
	}
}

// Ensure S3ImageMirror implements ImageMirror
var _ ImageMirror = (*S3ImageMirror)(nil)
