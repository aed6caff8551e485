// Package archive keeps the original uploaded study documents in object
// storage so flashcard sources can be re-examined later.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/planora-app/planora/internal/config"
)

// Service writes uploaded documents to a MinIO bucket.
type Service struct {
	client *minio.Client
	bucket string
}

// NewService creates the archive service and ensures the bucket exists.
func NewService(ctx context.Context, cfg *config.Config) (*Service, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &Service{client: client, bucket: cfg.MinioBucket}, nil
}

// Put stores one uploaded document under a per-user, per-day key and
// returns the storage key.
func (s *Service) Put(ctx context.Context, userID, filename, contentType string, data []byte) (string, error) {
	key := fmt.Sprintf("%s/%s/%s-%s", userID, time.Now().UTC().Format("2006/01/02"), uuid.NewString(), filename)

	_, err := s.client.PutObject(ctx, s.bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return "", fmt.Errorf("failed to store document: %w", err)
	}
	return key, nil
}
