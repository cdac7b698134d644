package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	appconfig "powermed-api/internal/config"
)

// S3Uploader uploads images to an S3-compatible bucket and returns public
// URLs for them.
type S3Uploader struct {
	client        *s3.Client
	bucket        string
	region        string
	publicBaseURL string
	endpoint      string
}

// NewS3Uploader builds an uploader from storage configuration. Callers are
// expected to check cfg.Enabled() first; see NewUploader.
func NewS3Uploader(ctx context.Context, cfg appconfig.StorageConfig) (*S3Uploader, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage credentials: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Uploader{
		client:        client,
		bucket:        cfg.Bucket,
		region:        cfg.Region,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		endpoint:      strings.TrimSuffix(cfg.Endpoint, "/"),
	}, nil
}

// NewUploader returns the configured S3 uploader, or Disabled when storage
// credentials are missing.
func NewUploader(ctx context.Context, cfg appconfig.StorageConfig) (Uploader, error) {
	if !cfg.Enabled() {
		return Disabled{}, nil
	}
	return NewS3Uploader(ctx, cfg)
}

// Upload stores the image under a random key in the given folder and
// returns its public URL.
func (u *S3Uploader) Upload(ctx context.Context, body io.Reader, contentType, folder string) (string, error) {
	key := objectKey(folder, contentType)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return u.publicURL(key), nil
}

// objectKey builds a collision-free key: folder prefix, random UUID, and
// an extension matching the content type.
func objectKey(folder, contentType string) string {
	return fmt.Sprintf("%s/%s%s", strings.Trim(folder, "/"), uuid.New(), extensionFor(contentType))
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	case "image/svg+xml":
		return ".svg"
	default:
		return ""
	}
}

func (u *S3Uploader) publicURL(key string) string {
	if u.publicBaseURL != "" {
		return u.publicBaseURL + "/" + key
	}
	if u.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", u.endpoint, u.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key)
}
