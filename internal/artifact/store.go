package artifact

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DefaultPresignExpiry — срок жизни временной ссылки по умолчанию.
const DefaultPresignExpiry = 15 * time.Minute

// Store — хранилище артефактов поверх MinIO.
type Store struct {
	client *minio.Client
	logger *slog.Logger
}

// NewStore создаёт Store.
func NewStore(client *minio.Client, logger *slog.Logger) *Store {
	return &Store{client: client, logger: logger}
}

// NewStoreFromEnv создаёт Store из переменных окружения:
// MINIO_ENDPOINT_URL, MINIO_ACCESS_KEY, MINIO_SECRET_ACCESS_KEY.
func NewStoreFromEnv(logger *slog.Logger) (*Store, error) {
	endpoint := os.Getenv("MINIO_ENDPOINT_URL")
	if endpoint == "" {
		endpoint = "localhost:9000"
	}
	accessKey := os.Getenv("MINIO_ACCESS_KEY")
	secretKey := os.Getenv("MINIO_SECRET_ACCESS_KEY")

	secure := false
	if u, err := url.Parse("//" + endpoint); err == nil && u.Port() == "443" {
		secure = true
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	return NewStore(client, logger), nil
}

// Save загружает артефакт и возвращает его URI.
func (s *Store) Save(ctx context.Context, bucket, object string, data []byte, contentType string) (string, error) {
	if err := s.ensureBucket(ctx, bucket); err != nil {
		return "", err
	}

	_, err := s.client.PutObject(ctx, bucket, object, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("put object %s/%s: %w", bucket, object, err)
	}

	s.logger.Info("artifact saved", "bucket", bucket, "object", object, "size", len(data))
	return "s3://" + bucket + "/" + object, nil
}

// SaveStream загружает артефакт из reader'а неизвестного размера.
func (s *Store) SaveStream(ctx context.Context, bucket, object string, r io.Reader, contentType string) (string, error) {
	if err := s.ensureBucket(ctx, bucket); err != nil {
		return "", err
	}

	_, err := s.client.PutObject(ctx, bucket, object, r, -1,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("put object %s/%s: %w", bucket, object, err)
	}
	return "s3://" + bucket + "/" + object, nil
}

// Download скачивает артефакт целиком.
func (s *Store) Download(ctx context.Context, bucket, object string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s/%s: %w", bucket, object, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read object %s/%s: %w", bucket, object, err)
	}
	return data, nil
}

// Delete удаляет артефакт.
func (s *Store) Delete(ctx context.Context, bucket, object string) error {
	if err := s.client.RemoveObject(ctx, bucket, object, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s/%s: %w", bucket, object, err)
	}
	s.logger.Info("artifact deleted", "bucket", bucket, "object", object)
	return nil
}

// PresignedURL выдаёт временную ссылку на скачивание артефакта.
func (s *Store) PresignedURL(ctx context.Context, bucket, object string, expiry time.Duration) (string, error) {
	if expiry <= 0 {
		expiry = DefaultPresignExpiry
	}

	u, err := s.client.PresignedGetObject(ctx, bucket, object, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("presign %s/%s: %w", bucket, object, err)
	}
	return u.String(), nil
}

// ensureBucket создаёт бакет, если его ещё нет.
func (s *Store) ensureBucket(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket %q: %w", bucket, err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("make bucket %q: %w", bucket, err)
	}
	s.logger.Info("bucket created", "bucket", bucket)
	return nil
}
