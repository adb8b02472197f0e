package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/evanofslack/route53-restore/internal/backup"
	"github.com/evanofslack/route53-restore/internal/config"
	"github.com/evanofslack/route53-restore/internal/metrics"
)

const backendName = "s3"

// API is the subset of the S3 client used to read backups.
type API interface {
	GetObject(ctx context.Context, params *awss3.GetObjectInput, optFns ...func(*awss3.Options)) (*awss3.GetObjectOutput, error)
}

type Store struct {
	client  API
	bucket  string
	metrics *metrics.Metrics
}

func New(awsCfg aws.Config, cfg config.Backup, metrics *metrics.Metrics) *Store {
	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.Region != "" {
			o.Region = cfg.Region
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewWithClient(client, cfg.Bucket, metrics)
}

func NewWithClient(client API, bucket string, metrics *metrics.Metrics) *Store {
	return &Store{client: client, bucket: bucket, metrics: metrics}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	out, err := s.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		s.metrics.IncStorageRequest(backendName, false)
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("s3://%s/%s: %w", s.bucket, key, backup.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get s3 object: %w", err)
	}
	defer out.Body.Close()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		s.metrics.IncStorageRequest(backendName, false)
		return nil, fmt.Errorf("failed to read s3 object body: %w", err)
	}

	s.metrics.IncStorageRequest(backendName, true)
	slog.Debug("Read backup object", "bucket", s.bucket, "key", key, "bytes", len(b), "duration", time.Since(start))
	return b, nil
}
