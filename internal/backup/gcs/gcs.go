package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/evanofslack/route53-restore/internal/backup"
	"github.com/evanofslack/route53-restore/internal/config"
	"github.com/evanofslack/route53-restore/internal/metrics"
)

const backendName = "gcs"

// API is the subset of the GCS client used to read backups.
type API interface {
	NewReader(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	Close() error
}

type client struct {
	c *storage.Client
}

func (c client) NewReader(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	r, err := c.c.Bucket(bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (c client) Close() error {
	return c.c.Close()
}

// Store reads backups mirrored to a Google Cloud Storage bucket.
type Store struct {
	client  API
	bucket  string
	metrics *metrics.Metrics
}

func New(ctx context.Context, cfg config.Backup, metrics *metrics.Metrics) (*Store, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	c, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS storage client: %w", err)
	}
	return NewWithClient(client{c: c}, cfg.Bucket, metrics), nil
}

func NewWithClient(api API, bucket string, metrics *metrics.Metrics) *Store {
	return &Store{client: api, bucket: bucket, metrics: metrics}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	r, err := s.client.NewReader(ctx, s.bucket, key)
	if err != nil {
		s.metrics.IncStorageRequest(backendName, false)
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("gs://%s/%s: %w", s.bucket, key, backup.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to open GCS object: %w", err)
	}
	defer r.Close()

	b, err := io.ReadAll(r)
	if err != nil {
		s.metrics.IncStorageRequest(backendName, false)
		return nil, fmt.Errorf("failed to read GCS object: %w", err)
	}

	s.metrics.IncStorageRequest(backendName, true)
	slog.Debug("Read backup object", "bucket", s.bucket, "key", key, "bytes", len(b), "duration", time.Since(start))
	return b, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
