package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"portfolio-backend/internal/config"
)

// MinIOStorage is the blob store for portfolio images. Objects are addressed
// by their public URL in the relational layer; only this package knows how to
// map a URL back to a bucket key.
type MinIOStorage struct {
	client *minio.Client
	bucket string
}

// ObjectInfo describes a stored blob, returned by List for the
// reconciliation sweep.
type ObjectInfo struct {
	URL          string
	LastModified time.Time
}

func NewMinIOStorage(cfg config.MinIOConfig) (*MinIOStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinIOStorage{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// Upload stores data under folder with a generated object name and returns
// the public URL (e.g. http://localhost:9000/portfolios/images/<uuid>_cover.png).
func (s *MinIOStorage) Upload(ctx context.Context, folder, filename string, data []byte, contentType string) (string, error) {
	key := fmt.Sprintf("%s/%s_%s", folder, uuid.New().String(), filename)

	_, err := s.client.PutObject(
		ctx,
		s.bucket,
		key,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return "", fmt.Errorf("failed to upload to minio: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, key)
	return url, nil
}

// Delete removes the object a previously returned URL points at.
func (s *MinIOStorage) Delete(ctx context.Context, url string) error {
	key, err := s.keyFromURL(url)
	if err != nil {
		return err
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// List returns every object under prefix with its URL and modification time.
func (s *MinIOStorage) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	objectsCh := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	var objects []ObjectInfo
	for object := range objectsCh {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", object.Err)
		}
		objects = append(objects, ObjectInfo{
			URL:          fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, object.Key),
			LastModified: object.LastModified,
		})
	}

	return objects, nil
}

// keyFromURL strips the endpoint and bucket segments off a public URL.
func (s *MinIOStorage) keyFromURL(url string) (string, error) {
	prefix := fmt.Sprintf("%s/%s/", s.client.EndpointURL().String(), s.bucket)
	if !strings.HasPrefix(url, prefix) {
		return "", fmt.Errorf("url %q does not belong to bucket %s", url, s.bucket)
	}
	return strings.TrimPrefix(url, prefix), nil
}
