package report

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/umputun/feedtriage/pkg/domain"
)

// S3Config defines S3-compatible storage used for report archive
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// Archive copies generated reports to S3-compatible object storage
type Archive struct {
	client *minio.Client
	bucket string
	region string
	prefix string

	mu    sync.Mutex
	ready bool // bucket checked or created
}

// NewArchive makes archive for the given storage
func NewArchive(cfg S3Config) (*Archive, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access, secret := strings.TrimSpace(cfg.AccessKey), strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	prefix := strings.Trim(cfg.Prefix, "/")
	if prefix == "" {
		prefix = "reports"
	}
	return &Archive{client: client, bucket: bucket, region: region, prefix: prefix}, nil
}

// Store uploads report content and returns the object key
func (a *Archive) Store(ctx context.Context, file domain.ReportFile) (string, error) {
	if err := a.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}
	key := a.objectKey(file)
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(file.Content), int64(len(file.Content)),
		minio.PutObjectOptions{ContentType: contentType(file.Format)})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return key, nil
}

// ensureBucket checks the bucket once it succeeds, failures are retried on the next call
func (a *Archive) ensureBucket(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ready {
		return nil
	}
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return err
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{Region: a.region}); err != nil {
			return err
		}
	}
	a.ready = true
	return nil
}

// objectKey groups reports by year, i.e. reports/2025/weekly_report_2025-06-02.md
func (a *Archive) objectKey(file domain.ReportFile) string {
	return path.Join(a.prefix, file.GeneratedAt.Format("2006"), file.Name)
}

func contentType(f domain.Format) string {
	if f == domain.FormatJSON {
		return "application/json"
	}
	return "text/markdown; charset=utf-8"
}
