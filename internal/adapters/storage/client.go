package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// LinkTTL is how long a presigned download stays valid.
const LinkTTL = 15 * time.Minute

var errNotConfigured = errors.New("minio endpoint is not configured")

// MinIOStore implements ObjectStore over minio-go.
type MinIOStore struct {
	client      *minio.Client
	maxFileSize int64
	now         func() time.Time
}

var _ ObjectStore = (*MinIOStore)(nil)

// NewMinIOStore connects to the configured endpoint. It does not touch the
// network until the first call.
func NewMinIOStore(cfg Config) (*MinIOStore, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, errNotConfigured
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	return &MinIOStore{client: client, maxFileSize: cfg.GetMinIOMaxFileSize(), now: time.Now}, nil
}

// EnsureBucket creates bucket when it is missing.
func (s *MinIOStore) EnsureBucket(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", bucket, err)
	}
	return nil
}

func (s *MinIOStore) Put(ctx context.Context, bucket string, obj Object) (string, error) {
	key := objectKey(obj.Folder, obj.Name)
	_, err := s.client.PutObject(ctx, bucket, key, obj.Body, obj.Size, minio.PutObjectOptions{
		ContentType:  obj.ContentType,
		UserMetadata: obj.Metadata,
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return key, nil
}

// PresignGet signs a download that saves under the object's base name.
func (s *MinIOStore) PresignGet(ctx context.Context, bucket, key string) (DownloadLink, error) {
	params := url.Values{}
	params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", path.Base(key)))

	signed, err := s.client.PresignedGetObject(ctx, bucket, key, LinkTTL, params)
	if err != nil {
		return DownloadLink{}, fmt.Errorf("presign %s: %w", key, err)
	}
	return DownloadLink{URL: signed.String(), FileKey: key, ExpiresAt: s.now().Add(LinkTTL)}, nil
}

// objectKey appends a short random token to the base name, keeping the
// extension, so two archives taken in the same second do not collide.
func objectKey(folder, name string) string {
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return path.Join(folder, base+"_"+uuid.NewString()[:8]+ext)
}
