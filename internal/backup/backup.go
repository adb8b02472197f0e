package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/evanofslack/route53-restore/internal/provider"
)

const (
	latestKey       = "latest_backup_timestamp"
	zonesFile       = "zones.json"
	healthCheckFile = "Health checks.json"
)

// ErrNotFound is returned by a Store when the requested object does not exist.
var ErrNotFound = errors.New("backup object not found")

// Store is read-only access to the bucket holding the backups.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// Zone is a hosted zone as recorded by the backup job.
type Zone struct {
	provider.Zone
	VPCs []provider.VPC `json:"VPCs,omitempty"`
}

type Reader struct {
	store Store
}

func NewReader(store Store) *Reader {
	return &Reader{store: store}
}

// Locate returns backupTime when set, otherwise the latest backup pointer.
func (r *Reader) Locate(ctx context.Context, backupTime string) (string, error) {
	if backupTime != "" {
		return backupTime, nil
	}
	b, err := r.store.Get(ctx, latestKey)
	if err != nil {
		return "", fmt.Errorf("get %s: %w", latestKey, err)
	}
	latest := strings.TrimSpace(string(b))
	slog.Debug("Resolved latest backup", "backup_time", latest)
	return latest, nil
}

func (r *Reader) Zones(ctx context.Context, backupTime string) ([]Zone, error) {
	var zones []Zone
	if err := r.getJSON(ctx, objectKey(backupTime, zonesFile), &zones); err != nil {
		return nil, err
	}
	return zones, nil
}

// Records returns the record sets saved for the zone with the given name.
func (r *Reader) Records(ctx context.Context, backupTime, zoneName string) ([]provider.RecordSet, error) {
	var records []provider.RecordSet
	if err := r.getJSON(ctx, objectKey(backupTime, zoneName+".json"), &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *Reader) HealthChecks(ctx context.Context, backupTime string) ([]provider.HealthCheck, error) {
	var checks []provider.HealthCheck
	if err := r.getJSON(ctx, objectKey(backupTime, healthCheckFile), &checks); err != nil {
		return nil, err
	}
	return checks, nil
}

// objectKey joins without cleaning, the backup time is an opaque prefix.
func objectKey(backupTime, name string) string {
	return backupTime + "/" + name
}

func (r *Reader) getJSON(ctx context.Context, key string, v any) error {
	b, err := r.store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}
