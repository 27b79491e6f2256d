package store

import (
	"bytes"
	"context"
	"fmt"

	"github.com/MKhiriev/go-recipe-keeper/internal/config"
	"github.com/MKhiriev/go-recipe-keeper/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3API is the subset of *s3.Client used by [s3ImageStorage].
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// s3ImageStorage keeps images in an S3 (or S3-compatible) bucket.
type s3ImageStorage struct {
	client    s3API
	bucket    string
	publicURL string
}

// NewS3ImageStorage builds an S3 client from cfg. Static credentials are
// used when both keys are set, otherwise the default AWS credential chain.
// A custom Endpoint switches to path-style addressing for MinIO and friends.
func NewS3ImageStorage(ctx context.Context, cfg config.S3) (ImageStorage, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3ImageStorage(client, cfg), nil
}

func newS3ImageStorage(client s3API, cfg config.S3) *s3ImageStorage {
	publicURL := cfg.PublicURL
	switch {
	case publicURL != "":
	case cfg.Endpoint != "":
		publicURL = joinURL(cfg.Endpoint, cfg.Bucket)
	default:
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &s3ImageStorage{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: publicURL,
	}
}

func (s *s3ImageStorage) Save(ctx context.Context, key string, upload models.ImageUpload) error {
	if key == "" {
		return ErrInvalidImageKey
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(upload.Data),
		ContentLength: aws.Int64(int64(len(upload.Data))),
	}
	if upload.ContentType != "" {
		input.ContentType = aws.String(upload.ContentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("error uploading image to s3: %w", err)
	}

	return nil
}

// Delete removes key; S3 reports success for missing objects as well.
func (s *s3ImageStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrInvalidImageKey
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("error deleting image from s3: %w", err)
	}

	return nil
}

func (s *s3ImageStorage) URL(key string) string {
	return joinURL(s.publicURL, key)
}
