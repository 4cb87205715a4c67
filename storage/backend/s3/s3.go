package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/indieinfra/mediavault/config"
	"github.com/indieinfra/mediavault/storage/backend"
	storageutil "github.com/indieinfra/mediavault/storage/util"
)

// s3Client is the subset of the minio client the store uses; it exists so
// tests can substitute a stub.
type s3Client interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

var newMinioClient = func(endpoint string, opts *minio.Options) (s3Client, error) {
	return minio.New(endpoint, opts)
}

// Store uploads media to S3 or any compatible service (R2, Backblaze, MinIO).
// Refs are object keys within the configured bucket.
type Store struct {
	client     s3Client
	bucket     string
	publicBase string
	pattern    *storageutil.KeyPattern
}

func NewS3Store(cfg *config.S3StorageStrategy, pattern *storageutil.KeyPattern) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("s3 storage config is nil")
	}

	region := strings.TrimSpace(cfg.Region)
	if strings.EqualFold(region, "auto") {
		region = ""
	}

	endpointHost := strings.TrimSpace(cfg.Endpoint)
	if endpointHost == "" {
		if region == "" {
			endpointHost = "s3.amazonaws.com"
		} else {
			endpointHost = fmt.Sprintf("s3.%s.amazonaws.com", region)
		}
	} else {
		if parsed, err := url.Parse(endpointHost); err == nil && parsed.Host != "" {
			endpointHost = parsed.Host
		}
	}

	lookup := minio.BucketLookupAuto
	if cfg.ForcePathStyle {
		lookup = minio.BucketLookupPath
	}

	client, err := newMinioClient(endpointHost, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKeyId, cfg.SecretKeyId, ""),
		Secure:       !cfg.DisableSSL,
		Region:       region,
		BucketLookup: lookup,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to verify s3 bucket %q: %w", cfg.Bucket, err)
	}

	if !exists {
		return nil, fmt.Errorf("s3 bucket %q does not exist or is not accessible", cfg.Bucket)
	}

	if pattern == nil {
		pattern = storageutil.DefaultKeyPattern()
	}

	return &Store{
		client:     client,
		bucket:     cfg.Bucket,
		publicBase: storageutil.NormalizeBaseURL(cfg.PublicUrl),
		pattern:    pattern,
	}, nil
}

// Put streams the upload to the bucket. If the put fails partway, a
// best-effort remove runs so no residual object survives the failure.
func (s *Store) Put(ctx context.Context, up *backend.Upload) (*backend.Artifact, error) {
	if up == nil || up.Body == nil {
		return nil, fmt.Errorf("upload body is required")
	}

	key, err := s.pattern.Generate(up.Filename, up.ContentType, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}

	opts := minio.PutObjectOptions{ContentType: up.ContentType}

	if _, err := s.client.PutObject(ctx, s.bucket, key, up.Body, up.Size, opts); err != nil {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.client.RemoveObject(cleanupCtx, s.bucket, key, minio.RemoveObjectOptions{})
		return nil, fmt.Errorf("upload to s3 failed: %w", err)
	}

	return &backend.Artifact{Ref: key, Location: s.publicBase + key}, nil
}

// Remove deletes the object the ref points at. S3 deletes are idempotent, so
// an absent key reports success; only genuine backend failures surface.
func (s *Store) Remove(ctx context.Context, ref string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, ref, minio.RemoveObjectOptions{}); err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NoSuchBucket" {
			return nil
		}
		return fmt.Errorf("delete from s3 failed: %w", err)
	}

	return nil
}

func (s *Store) ResolveURL(location string) string {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return location
	}

	return s.publicBase + strings.TrimPrefix(location, "/")
}

func (s *Store) Kind() string {
	return "s3"
}
