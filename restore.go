package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/spf13/cobra"

	"github.com/evanofslack/route53-restore/internal/backup"
	"github.com/evanofslack/route53-restore/internal/backup/gcs"
	"github.com/evanofslack/route53-restore/internal/backup/s3"
	"github.com/evanofslack/route53-restore/internal/config"
	"github.com/evanofslack/route53-restore/internal/journal"
	"github.com/evanofslack/route53-restore/internal/metrics"
	"github.com/evanofslack/route53-restore/internal/provider/route53"
	"github.com/evanofslack/route53-restore/internal/restore"
)

// app holds the clients built once per process and shared by every restore.
type app struct {
	cfg     *config.Config
	engine  restore.Engine
	journal journal.Journal
	metrics *metrics.Metrics
	closers []func() error
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	m := metrics.New(true)
	a := &app{cfg: cfg, metrics: m}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	var store backup.Store
	switch cfg.Backup.Backend {
	case "gcs":
		gcsStore, err := gcs.New(ctx, cfg.Backup, m)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, gcsStore.Close)
		store = gcsStore
	default:
		store = s3.New(awsCfg, cfg.Backup, m)
	}

	dns := route53.New(awsCfg, cfg.DNS, m)
	a.engine = restore.NewEngine(backup.NewReader(store), dns, cfg, m)

	if cfg.JournalPath != "" {
		j, err := journal.Open(cfg.JournalPath, m)
		if err != nil {
			// History is informational, never block a restore on it.
			slog.Warn("Failed to open restore journal, continuing without it", "path", cfg.JournalPath, "error", err)
		} else {
			a.journal = j
			a.closers = append(a.closers, j.Close)
		}
	}
	return a, nil
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			slog.Warn("Failed to close resource", "error", err)
		}
	}
}

func (a *app) performRestore(ctx context.Context, event restore.Event) (restore.Results, error) {
	slog.Info("Starting restore operation", "backup_time", event.BackupTime)
	start := time.Now()

	results, err := a.engine.Restore(ctx, event)
	duration := time.Since(start)
	a.metrics.SetRestoreDuration(duration)
	a.metrics.IncRestoreRun(err == nil)

	for _, z := range results.Zones {
		if z.Status == restore.ZoneSkipped {
			slog.Warn("Zone not restored", "name", z.Name, "backup_id", z.BackupID, "reason", z.Err)
		}
	}
	if err == nil {
		slog.Info("Restore completed",
			"backup_time", results.BackupTime,
			"zones_created", len(results.ZonesWithStatus(restore.ZoneCreated)),
			"zones_skipped", len(results.ZonesWithStatus(restore.ZoneSkipped)),
			"records_upserted", results.TotalUpserted(),
			"health_checks_created", len(results.HealthChecksCreated),
			"dry_run", results.DryRun)
	}

	a.record(ctx, start, duration, results, err)
	a.push(ctx)
	return results, err
}

func (a *app) record(ctx context.Context, start time.Time, duration time.Duration, results restore.Results, runErr error) {
	if a.journal == nil {
		return
	}
	entry := journal.Entry{
		BackupTime:          results.BackupTime,
		StartedAt:           start,
		Duration:            duration,
		DryRun:              results.DryRun,
		Success:             runErr == nil,
		ZonesCreated:        results.ZonesWithStatus(restore.ZoneCreated),
		ZonesSkipped:        results.ZonesWithStatus(restore.ZoneSkipped),
		RecordsUpserted:     results.TotalUpserted(),
		HealthChecksCreated: results.HealthChecksCreated,
	}
	if runErr != nil {
		entry.Error = runErr.Error()
	}
	if err := a.journal.Record(ctx, entry); err != nil {
		slog.Warn("Failed to record restore run", "error", err)
	}
}

func (a *app) push(ctx context.Context) {
	if a.cfg.Metrics.PushURL == "" {
		return
	}
	if err := a.metrics.Push(ctx, a.cfg.Metrics.PushURL, a.cfg.Metrics.Job); err != nil {
		slog.Warn("Failed to push metrics", "url", a.cfg.Metrics.PushURL, "error", err)
	}
}

func runRestore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	results, err := a.performRestore(ctx, restore.Event{BackupTime: backupTime})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), results.Status())
	return nil
}
