package artifacts

import (
	"context"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mofml/ffpgen/internal/config"
	"github.com/mofml/ffpgen/internal/infrastructure/monitoring/logging"
	"github.com/mofml/ffpgen/pkg/errors"
)

// minioStore serves artifacts from one object-storage bucket.
type minioStore struct {
	client *minio.Client
	bucket string
	logger logging.Logger
}

// NewMinIOStore connects to the object store per cfg and verifies the
// artifact bucket exists.
func NewMinIOStore(ctx context.Context, cfg *config.ArtifactsConfig, logger logging.Logger) (Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to create minio client")
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	ok, err := client.BucketExists(checkCtx, cfg.Bucket)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to connect to minio")
	}
	if !ok {
		return nil, errors.Newf(errors.ErrCodeStorageError, "artifact bucket %q does not exist", cfg.Bucket)
	}

	logger.Info("connected to artifact store",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket))
	return &minioStore{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

func (s *minioStore) Fetch(ctx context.Context, name string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to fetch artifact "+name)
	}
	// GetObject is lazy; a missing key only surfaces on first read.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return nil, errors.Newf(errors.ErrCodeArtifactNotFound, "artifact %q not found", name)
		}
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "failed to stat artifact "+name)
	}
	return obj, nil
}

func (s *minioStore) Exists(ctx context.Context, name string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{})
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return false, nil
		}
		return false, errors.Wrap(err, errors.ErrCodeStorageError, "failed to stat artifact "+name)
	}
	return true, nil
}

func (s *minioStore) Close() error { return nil }
