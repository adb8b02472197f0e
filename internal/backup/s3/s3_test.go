package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/evanofslack/route53-restore/internal/backup"
	"github.com/evanofslack/route53-restore/internal/metrics"
)

type MockS3 struct {
	objects map[string]string
	err     error
	input   *awss3.GetObjectInput
}

func (m *MockS3) GetObject(ctx context.Context, in *awss3.GetObjectInput, _ ...func(*awss3.Options)) (*awss3.GetObjectOutput, error) {
	m.input = in
	if m.err != nil {
		return nil, m.err
	}
	obj, ok := m.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &awss3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(obj))}, nil
}

func TestGet(t *testing.T) {
	client := &MockS3{objects: map[string]string{"latest_backup_timestamp": "t1"}}
	store := NewWithClient(client, "backups", metrics.New(false))

	b, err := store.Get(context.Background(), "latest_backup_timestamp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != "t1" {
		t.Errorf("Get() = %q, want t1", b)
	}
	if aws.ToString(client.input.Bucket) != "backups" {
		t.Errorf("bucket = %q, want backups", aws.ToString(client.input.Bucket))
	}
}

func TestGetNotFound(t *testing.T) {
	store := NewWithClient(&MockS3{objects: map[string]string{}}, "backups", metrics.New(false))
	_, err := store.Get(context.Background(), "t1/zones.json")
	if !errors.Is(err, backup.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetError(t *testing.T) {
	store := NewWithClient(&MockS3{err: errors.New("access denied")}, "backups", metrics.New(false))
	_, err := store.Get(context.Background(), "t1/zones.json")
	if err == nil {
		t.Fatal("expected error but got none")
	}
	if errors.Is(err, backup.ErrNotFound) {
		t.Errorf("access error should not be ErrNotFound: %v", err)
	}
}
