package objstore

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/profwarlock/warlock/internal/config"
	"github.com/profwarlock/warlock/internal/logger"
)

// Stored describes an uploaded object.
type Stored struct {
	Name         string    `json:"name"`
	ID           uuid.UUID `json:"id"`
	MimeType     string    `json:"mime_type"`
	DownloadLink string    `json:"download_link"`
}

// Store archives generated posters in S3-compatible storage.
type Store interface {
	Upload(ctx context.Context, name, mimeType string, content []byte) (Stored, error)
}

// MinioStore uploads through the S3 API. Objects are keyed by a fresh
// uuid so repeated submissions never overwrite each other.
type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewMinioStore(cfg config.Storage, accessKey, secretKey string) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("object store client: %w", err)
	}
	return &MinioStore{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}, nil
}

func (s *MinioStore) Upload(ctx context.Context, name, mimeType string, content []byte) (Stored, error) {
	id := uuid.New()
	key := fmt.Sprintf("%s/%s", id, name)

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(content), int64(len(content)),
		minio.PutObjectOptions{ContentType: mimeType})
	if err != nil {
		return Stored{}, fmt.Errorf("upload %s: %w", key, err)
	}

	stored := Stored{
		Name:         name,
		ID:           id,
		MimeType:     mimeType,
		DownloadLink: fmt.Sprintf("%s/%s", s.publicURL, key),
	}
	logger.Log.Info("object stored", "key", key, "size", len(content))
	return stored, nil
}
