package store

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Blobs implements BlobStore on an S3-compatible backend (AWS S3, MinIO,
// or a hosted storage API speaking the S3 protocol). The logical bucket
// names (client-assets, voice-notes) map to object-store buckets directly.
type S3Blobs struct {
	client  *s3.Client
	baseURL string // public URL prefix; objects resolve at {baseURL}/{bucket}/{key}
	region  string
}

// S3Config holds explicit construction parameters, mostly for tests; prod
// reads the environment via OpenS3FromEnv.
type S3Config struct {
	Region        string
	Endpoint      string // optional, enables MinIO-style deployments
	PublicBaseURL string // optional explicit public prefix
	PathStyle     bool
}

func NewS3Blobs(ctx context.Context, cfg S3Config) (*S3Blobs, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	base := cfg.PublicBaseURL
	if base == "" && cfg.Endpoint != "" {
		base = strings.TrimRight(cfg.Endpoint, "/")
	}
	return &S3Blobs{client: client, baseURL: base, region: region}, nil
}

// OpenS3FromEnv constructs the blob store from process environment:
//
//	BLOB_S3_REGION     (default us-east-1)
//	BLOB_S3_ENDPOINT   (optional, custom endpoint)
//	BLOB_PUBLIC_URL    (optional, public URL prefix)
//	BLOB_S3_PATH_STYLE (true|false, default false)
func OpenS3FromEnv(ctx context.Context) (*S3Blobs, error) {
	return NewS3Blobs(ctx, S3Config{
		Region:        os.Getenv("BLOB_S3_REGION"),
		Endpoint:      os.Getenv("BLOB_S3_ENDPOINT"),
		PublicBaseURL: os.Getenv("BLOB_PUBLIC_URL"),
		PathStyle:     strings.EqualFold(os.Getenv("BLOB_S3_PATH_STYLE"), "true"),
	})
}

func (b *S3Blobs) Put(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error) {
	input := &s3.PutObjectInput{Bucket: &bucket, Key: &key, Body: bytes.NewReader(data)}
	if contentType != "" {
		input.ContentType = &contentType
	}
	if _, err := b.client.PutObject(ctx, input); err != nil {
		return "", wrap("put blob", err)
	}
	return b.PublicURL(bucket, key), nil
}

func (b *S3Blobs) Delete(ctx context.Context, bucket, key string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &bucket, Key: &key})
	return wrap("delete blob", err)
}

// PublicURL builds the stable public URL of an object.
func (b *S3Blobs) PublicURL(bucket, key string) string {
	if b.baseURL != "" {
		return fmt.Sprintf("%s/%s/%s", b.baseURL, bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, b.region, key)
}
