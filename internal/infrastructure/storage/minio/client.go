// Package minio archives analysis reports in S3-compatible object storage.
package minio

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"

	"github.com/turtacn/DPR-Intelligence/internal/config"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DPR-Intelligence/pkg/errors"
)

// DefaultReportBucket holds archived analysis reports.
const DefaultReportBucket = "dpr-reports"

// ObjectAPI is the slice of the MinIO SDK the archive uses. GetObject returns
// a plain reader so the archive can be tested without a server.
type ObjectAPI interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	SetBucketLifecycle(ctx context.Context, bucket string, cfg *lifecycle.Configuration) error
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	StatObject(ctx context.Context, bucket, key string) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucket, key string) error
	ListObjects(ctx context.Context, bucket, prefix string) <-chan minio.ObjectInfo
}

// Client owns the SDK handle and the archive bucket settings.
type Client struct {
	api    ObjectAPI
	bucket string
	region string
	logger logging.Logger

	mu     sync.RWMutex
	closed bool
}

var ErrClientClosed = errors.New(errors.ErrCodeArchiveFailed, "minio client is closed")

// NewClient connects to cfg.Endpoint and checks the report bucket is reachable.
func NewClient(ctx context.Context, cfg config.MinIOConfig, log logging.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New(errors.ErrCodeValidation, "minio endpoint is required")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeArchiveFailed, "failed to create minio client")
	}
	c := NewClientFromAPI(sdkAPI{mc}, cfg.ReportBucket, cfg.Region, log)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := c.api.BucketExists(pingCtx, c.bucket); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeArchiveFailed, "failed to connect to minio")
	}
	c.logger.Info("MinIO client connected", logging.String("endpoint", cfg.Endpoint), logging.Bool("ssl", cfg.UseSSL))
	return c, nil
}

// NewClientFromAPI wraps an existing ObjectAPI.
func NewClientFromAPI(api ObjectAPI, bucket, region string, log logging.Logger) *Client {
	if bucket == "" {
		bucket = DefaultReportBucket
	}
	if region == "" {
		region = "us-east-1"
	}
	return &Client{api: api, bucket: bucket, region: region, logger: logging.OrNop(log)}
}

// Bucket returns the report bucket name.
func (c *Client) Bucket() string { return c.bucket }

func (c *Client) objects() (ObjectAPI, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, ErrClientClosed
	}
	return c.api, nil
}

// EnsureBucket creates the report bucket when missing and, when
// retentionDays > 0, expires reports after that many days.
func (c *Client) EnsureBucket(ctx context.Context, retentionDays int) error {
	api, err := c.objects()
	if err != nil {
		return err
	}
	exists, err := api.BucketExists(ctx, c.bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeArchiveFailed, "failed to check bucket existence")
	}
	if !exists {
		if err := api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{Region: c.region}); err != nil {
			return errors.Wrapf(err, errors.ErrCodeArchiveFailed, "failed to create bucket %s", c.bucket)
		}
		c.logger.Info("Created bucket", logging.String("bucket", c.bucket))
	}
	if retentionDays <= 0 {
		return nil
	}

	lc := lifecycle.NewConfiguration()
	lc.Rules = []lifecycle.Rule{{
		ID:         "report-retention",
		Status:     "Enabled",
		RuleFilter: lifecycle.Filter{Prefix: reportPrefix},
		Expiration: lifecycle.Expiration{Days: lifecycle.ExpirationDays(retentionDays)},
	}}
	if err := api.SetBucketLifecycle(ctx, c.bucket, lc); err != nil {
		// Some S3 implementations reject lifecycle rules; reports are still archived.
		c.logger.Warn("Failed to set report lifecycle", logging.String("bucket", c.bucket), logging.Err(err))
	}
	return nil
}

// HealthCheck reports whether the bucket is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	api, err := c.objects()
	if err != nil {
		return err
	}
	ok, err := api.BucketExists(ctx, c.bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeArchiveFailed, "minio health check failed")
	}
	if !ok {
		return errors.Newf(errors.ErrCodeArchiveFailed, "bucket %s missing", c.bucket)
	}
	return nil
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// sdkAPI adapts *minio.Client to ObjectAPI.
type sdkAPI struct{ c *minio.Client }

func (a sdkAPI) BucketExists(ctx context.Context, bucket string) (bool, error) {
	return a.c.BucketExists(ctx, bucket)
}

func (a sdkAPI) MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error {
	return a.c.MakeBucket(ctx, bucket, opts)
}

func (a sdkAPI) SetBucketLifecycle(ctx context.Context, bucket string, cfg *lifecycle.Configuration) error {
	return a.c.SetBucketLifecycle(ctx, bucket, cfg)
}

func (a sdkAPI) PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return a.c.PutObject(ctx, bucket, key, r, size, opts)
}

// GetObject stats first because minio-go defers the not-found error to the
// first Read.
func (a sdkAPI) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj, err := a.c.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, err
	}
	return obj, nil
}

func (a sdkAPI) StatObject(ctx context.Context, bucket, key string) (minio.ObjectInfo, error) {
	return a.c.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
}

func (a sdkAPI) RemoveObject(ctx context.Context, bucket, key string) error {
	return a.c.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{})
}

func (a sdkAPI) ListObjects(ctx context.Context, bucket, prefix string) <-chan minio.ObjectInfo {
	return a.c.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true})
}

//Personal.AI order the ending
