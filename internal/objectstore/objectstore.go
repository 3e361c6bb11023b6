package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"photovault/internal/logging"
	"photovault/internal/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ThumbnailPrefix is the top-level key prefix for derived thumbnails.
const ThumbnailPrefix = "thumbnails"

// Config holds connection settings for an S3-compatible object store
// (AWS S3, DigitalOcean Spaces, MinIO, Ceph).
type Config struct {
	Bucket          string
	Region          string
	Endpoint        string // empty = default AWS endpoint
	AccessKeyID     string
	SecretAccessKey string
	PathStyle       bool // path-style addressing instead of virtual-host
}

// Store uploads and retrieves objects from a single bucket.
type Store struct {
	client *s3.Client
	bucket string
}

// New creates a Store from the given configuration.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("object store bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
	})

	return &Store{client: client, bucket: cfg.Bucket}, nil
}

// Put uploads data under key with the given content type.
func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) error {
	start := time.Now()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		metrics.ObjectStoreOps.WithLabelValues("put", "error").Inc()
		return fmt.Errorf("failed to put %s: %w", key, err)
	}

	metrics.ObjectStoreOps.WithLabelValues("put", "success").Inc()
	metrics.ObjectStoreUploadBytes.Add(float64(len(data)))
	logging.Debug("Uploaded %s (%d bytes) in %v", key, len(data), time.Since(start))
	return nil
}

// Get downloads the object stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		metrics.ObjectStoreOps.WithLabelValues("get", "error").Inc()
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		metrics.ObjectStoreOps.WithLabelValues("get", "error").Inc()
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	metrics.ObjectStoreOps.WithLabelValues("get", "success").Inc()
	return data, nil
}

// List returns the keys of all objects under prefix, following pagination.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			metrics.ObjectStoreOps.WithLabelValues("list", "error").Inc()
			return nil, fmt.Errorf("failed to list %s: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}
	}

	metrics.ObjectStoreOps.WithLabelValues("list", "success").Inc()
	return keys, nil
}

// ThumbnailKey maps an original's destination key to its thumbnail key by
// swapping the top-level prefix: photos/a/b.jpg -> thumbnails/a/b.jpg.
func ThumbnailKey(key string) string {
	idx := strings.Index(key, "/")
	if idx < 0 {
		return ThumbnailPrefix + "/" + key
	}
	return ThumbnailPrefix + key[idx:]
}
