package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/johnquangdev/meetnotes/pkg/config"
)

// MinIOSink publishes exported documents to a MinIO bucket
type MinIOSink struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

// NewMinIOSink creates a MinIO client and ensures the bucket exists
func NewMinIOSink(ctx context.Context, cfg *config.StorageConfig) (*MinIOSink, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	sink := &MinIOSink{
		client: minioClient,
		bucket: cfg.BucketName,
		expiry: 24 * time.Hour,
	}
	if err := sink.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}
	return sink, nil
}

func (m *MinIOSink) ensureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Publish uploads the document and returns a presigned download URL
func (m *MinIOSink) Publish(ctx context.Context, name string, content []byte) (string, error) {
	_, err := m.client.PutObject(ctx, m.bucket, name, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: MarkdownContentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	url, err := m.client.PresignedGetObject(ctx, m.bucket, name, m.expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return url.String(), nil
}

// Ping checks the bucket is reachable
func (m *MinIOSink) Ping(ctx context.Context) error {
	_, err := m.client.BucketExists(ctx, m.bucket)
	return err
}
