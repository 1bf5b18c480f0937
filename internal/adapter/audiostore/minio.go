package audiostore

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/heartmarshall/instant-voices/internal/domain"
)

// MinioConfig holds object storage connection settings.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// BaseURL is the public address objects are served from. Empty means
	// <scheme>://<endpoint>/<bucket>.
	BaseURL string
}

// Minio stores audio as objects in an S3-compatible bucket.
type Minio struct {
	cli *minio.Client
	cfg MinioConfig
}

// NewMinio connects to the endpoint and makes sure the bucket exists.
func NewMinio(ctx context.Context, cfg MinioConfig) (*Minio, error) {
	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	m := &Minio{cli: cli, cfg: cfg}
	if err := m.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("%w: minio bucket %s: %w", domain.ErrUnavailable, cfg.Bucket, err)
	}
	return m, nil
}

func (m *Minio) ensureBucket(ctx context.Context) error {
	exists, err := m.cli.BucketExists(ctx, m.cfg.Bucket)
	if err != nil {
		return err
	}
	if !exists {
		return m.cli.MakeBucket(ctx, m.cfg.Bucket, minio.MakeBucketOptions{})
	}
	return nil
}

// Put uploads the payload under a fresh key.
func (m *Minio) Put(ctx context.Context, recordID string, p *domain.AudioPayload) (domain.AudioRef, error) {
	key := objectKey(recordID, p.MIMEType)

	_, err := m.cli.PutObject(ctx, m.cfg.Bucket, key, bytes.NewReader(p.Data), p.Size(), minio.PutObjectOptions{
		ContentType: p.MIMEType,
		UserMetadata: map[string]string{
			"record-id":     recordID,
			"original-name": p.OriginalFileName,
		},
	})
	if err != nil {
		return domain.AudioRef{}, fmt.Errorf("%w: put object %s: %w", domain.ErrUnavailable, key, err)
	}

	return domain.AudioRef{
		Kind: domain.AudioKindURL,
		URL:  m.PublicURL(key),
		Key:  key,
	}, nil
}

// Release removes the object behind ref. A missing object is not an error.
func (m *Minio) Release(ctx context.Context, ref domain.AudioRef) error {
	if !ref.IsExternal() {
		return nil
	}
	err := m.cli.RemoveObject(ctx, m.cfg.Bucket, ref.Key, minio.RemoveObjectOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return fmt.Errorf("remove object %s: %w", ref.Key, err)
	}
	return nil
}

// Ping checks the bucket is reachable. Used by readiness probes.
func (m *Minio) Ping(ctx context.Context) error {
	if _, err := m.cli.BucketExists(ctx, m.cfg.Bucket); err != nil {
		return fmt.Errorf("minio: %w", err)
	}
	return nil
}

// PublicURL returns the address clients use to fetch key.
func (m *Minio) PublicURL(key string) string {
	return publicObjectURL(m.cfg, key)
}

// Name identifies the strategy in logs.
func (m *Minio) Name() string { return "minio" }

func publicObjectURL(cfg MinioConfig, key string) string {
	if cfg.BaseURL != "" {
		return strings.TrimRight(cfg.BaseURL, "/") + "/" + key
	}
	scheme := "http://"
	if cfg.UseSSL {
		scheme = "https://"
	}
	return scheme + cfg.Endpoint + "/" + cfg.Bucket + "/" + key
}
