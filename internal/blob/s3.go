// Package blob stores attachment binaries on the S3-compatible bucket that
// backs the hosted storage. Callers pass URLs around; the key never leaves
// this package.
package blob

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appcfg "github.com/avolkov/hearth/internal/config"
	"github.com/avolkov/hearth/internal/models"
)

// Storage uploads and deletes attachment blobs.
type Storage interface {
	Upload(ctx context.Context, name string, data []byte, contentType string) (string, error)
	DeleteByURL(ctx context.Context, url string) error
}

// S3Storage implements Storage against an S3-compatible endpoint.
type S3Storage struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// NewS3Storage builds the client with static credentials and the configured
// base endpoint (MinIO, Supabase storage, or AWS proper).
func NewS3Storage(ctx context.Context, c *appcfg.Config) (*S3Storage, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(c.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.S3RootUser,
			c.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(c.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return &S3Storage{
		client:  client,
		bucket:  c.S3Bucket,
		baseURL: strings.TrimRight(c.S3BaseEndpoint, "/"),
	}, nil
}

// storageKey spreads objects by date so a bucket listing stays navigable.
func storageKey(name string) string {
	d := time.Now()
	return fmt.Sprintf("attachments/%d/%d/%d/%s-%s", d.Year(), d.Month(), d.Day(), models.NewID(), name)
}

// Upload writes the blob and returns its public URL.
func (s *S3Storage) Upload(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	key := storageKey(name)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, key), nil
}

// DeleteByURL removes the blob a previously returned URL points at. URLs
// from a different bucket or host are rejected rather than guessed at.
func (s *S3Storage) DeleteByURL(ctx context.Context, url string) error {
	prefix := fmt.Sprintf("%s/%s/", s.baseURL, s.bucket)
	key, ok := strings.CutPrefix(url, prefix)
	if !ok || key == "" {
		return fmt.Errorf("url %q does not belong to bucket %s", url, s.bucket)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	return nil
}
