package restore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/evanofslack/route53-restore/internal/backup"
	"github.com/evanofslack/route53-restore/internal/config"
	"github.com/evanofslack/route53-restore/internal/metrics"
	"github.com/evanofslack/route53-restore/internal/provider"
)

const callerReferenceLayout = "2006-01-02T15:04:05Z"

type Engine interface {
	Restore(ctx context.Context, event Event) (Results, error)
}

type engine struct {
	backups     *backup.Reader
	dnsProvider provider.Provider
	dryRun      bool
	comment     string
	metrics     *metrics.Metrics
	now         func() time.Time
}

type Option func(*engine)

// WithClock replaces the clock used to build caller references.
func WithClock(now func() time.Time) Option {
	return func(e *engine) {
		e.now = now
	}
}

func NewEngine(br *backup.Reader, dp provider.Provider, cfg *config.Config, metrics *metrics.Metrics, opts ...Option) *engine {
	e := &engine{
		backups:     br,
		dnsProvider: dp,
		dryRun:      cfg.Restore.DryRun,
		comment:     cfg.Restore.Comment,
		metrics:     metrics,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// callerReference is unique per second and resource id, so a retried restore
// never replays a request from an earlier partial attempt.
func callerReference(now time.Time, id string) string {
	return now.UTC().Format(callerReferenceLayout) + "-" + id
}

func (e *engine) Restore(ctx context.Context, event Event) (Results, error) {
	backupTime, err := e.backups.Locate(ctx, event.BackupTime)
	if err != nil {
		return Results{}, fmt.Errorf("locate backup: %w", err)
	}
	slog.Info("Restoring from backup", "backup_time", backupTime, "dry_run", e.dryRun)

	results := Results{
		BackupTime:          backupTime,
		DryRun:              e.dryRun,
		RecordsUpserted:     make(map[string]int),
		HealthChecksCreated: []string{},
	}

	zones, err := e.backups.Zones(ctx, backupTime)
	if err != nil {
		return results, fmt.Errorf("load backup zones: %w", err)
	}
	slog.Info("Loaded backup zones", "count", len(zones))

	for _, bz := range zones {
		outcome, err := e.ensureZone(ctx, bz)
		results.Zones = append(results.Zones, outcome)
		if err != nil {
			return results, fmt.Errorf("restore zone %s: %w", bz.Name, err)
		}
		if outcome.Status == ZoneSkipped {
			continue
		}

		upserted, err := e.reconcileRecords(ctx, backupTime, outcome)
		if err != nil {
			return results, fmt.Errorf("restore records for zone %s: %w", bz.Name, err)
		}
		results.RecordsUpserted[bz.Name] = upserted
	}

	if err := e.reconcileHealthChecks(ctx, backupTime, &results); err != nil {
		return results, fmt.Errorf("restore health checks: %w", err)
	}
	return results, nil
}

// ensureZone returns an error only when zone creation itself fails. Any other
// failure to read the zone is reported as a skipped outcome.
func (e *engine) ensureZone(ctx context.Context, bz backup.Zone) (ZoneOutcome, error) {
	outcome := ZoneOutcome{Name: bz.Name, BackupID: bz.Id}

	zone, err := e.dnsProvider.GetZone(ctx, bz.Id)
	if err == nil {
		slog.Debug("Zone exists", "name", bz.Name, "id", zone.Id)
		outcome.ZoneID = zone.Id
		outcome.Status = ZoneExisting
		return outcome, nil
	}
	if !errors.Is(err, provider.ErrZoneNotFound) {
		slog.Error("Failed to get zone, skipping", "name", bz.Name, "id", bz.Id, "error", err)
		return e.skipZone(outcome, err), nil
	}

	params := provider.CreateZoneParams{
		Name:            bz.Name,
		CallerReference: callerReference(e.now(), bz.Id),
		Config:          bz.Config,
	}
	if bz.Config.PrivateZone {
		if len(bz.VPCs) == 0 {
			slog.Error("Private zone without vpc in backup, skipping", "name", bz.Name, "id", bz.Id)
			return e.skipZone(outcome, ErrMissingVPC), nil
		}
		vpc := bz.VPCs[0]
		params.VPC = &vpc
	}

	e.metrics.IncDNSOperation("create", "zone", e.dryRun)
	outcome.Status = ZoneCreated
	if e.dryRun {
		slog.Info("Dry run mode - would restore zone", "name", bz.Name, "id", bz.Id, "private", bz.Config.PrivateZone)
		return outcome, nil
	}

	created, err := e.dnsProvider.CreateZone(ctx, params)
	if err != nil {
		outcome.Err = err
		return outcome, err
	}
	slog.Info("Restored zone", "name", bz.Name, "backup_id", bz.Id, "id", created.Id)
	outcome.ZoneID = created.Id
	return outcome, nil
}

func (e *engine) skipZone(outcome ZoneOutcome, reason error) ZoneOutcome {
	e.metrics.IncDNSOperation("skip", "zone", e.dryRun)
	outcome.Status = ZoneSkipped
	outcome.Err = reason
	return outcome
}

func (e *engine) reconcileRecords(ctx context.Context, backupTime string, zone ZoneOutcome) (int, error) {
	// Backups are keyed by zone name, the restored zone may have a new id.
	backupRecords, err := e.backups.Records(ctx, backupTime, zone.Name)
	if err != nil {
		return 0, err
	}

	var current []provider.RecordSet
	if zone.ZoneID != "" {
		current, err = e.dnsProvider.ListRecords(ctx, zone.ZoneID)
		if err != nil {
			return 0, err
		}
	}

	toUpsert := provider.Missing(backupRecords, current)
	slog.Debug("Record comparison", "zone", zone.Name, "backup", len(backupRecords), "current", len(current), "missing", len(toUpsert))
	if len(toUpsert) == 0 {
		return 0, nil
	}

	batch := provider.ChangeBatch{Comment: e.comment}
	for _, r := range toUpsert {
		batch.Changes = append(batch.Changes, provider.Change{Action: provider.ActionUpsert, ResourceRecordSet: r})
		e.metrics.IncDNSOperation("upsert", "record", e.dryRun)
	}

	if e.dryRun {
		slog.Info("Dry run mode - would upsert records", "zone", zone.Name, "count", len(toUpsert))
		return len(toUpsert), nil
	}
	if err := e.dnsProvider.ChangeRecords(ctx, zone.ZoneID, batch); err != nil {
		return 0, err
	}
	slog.Info("Upserted records", "zone", zone.Name, "id", zone.ZoneID, "count", len(toUpsert))
	return len(toUpsert), nil
}

func (e *engine) reconcileHealthChecks(ctx context.Context, backupTime string, results *Results) error {
	backupChecks, err := e.backups.HealthChecks(ctx, backupTime)
	if err != nil {
		return err
	}
	current, err := e.dnsProvider.ListHealthChecks(ctx)
	if err != nil {
		return err
	}

	// Matched by id only, a changed config on a live check is left alone.
	toCreate := provider.MissingHealthChecks(backupChecks, current)
	slog.Debug("Health check comparison", "backup", len(backupChecks), "current", len(current), "missing", len(toCreate))

	for _, hc := range toCreate {
		e.metrics.IncDNSOperation("create", "healthcheck", e.dryRun)
		if e.dryRun {
			slog.Info("Dry run mode - would restore health check", "id", hc.Id, "tags", len(hc.Tags))
			results.HealthChecksCreated = append(results.HealthChecksCreated, hc.Id)
			continue
		}

		created, err := e.dnsProvider.CreateHealthCheck(ctx, callerReference(e.now(), hc.Id), hc.HealthCheckConfig)
		if err != nil {
			return fmt.Errorf("create health check %s: %w", hc.Id, err)
		}
		results.HealthChecksCreated = append(results.HealthChecksCreated, hc.Id)
		slog.Info("Restored health check", "backup_id", hc.Id, "id", created.Id)

		if len(hc.Tags) == 0 {
			continue
		}
		if err := e.dnsProvider.AddHealthCheckTags(ctx, created.Id, hc.Tags); err != nil {
			return fmt.Errorf("tag health check %s: %w", created.Id, err)
		}
		e.metrics.IncDNSOperation("tag", "healthcheck", e.dryRun)
		results.HealthChecksTagged++
	}
	return nil
}
