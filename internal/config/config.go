package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	defaultBackend           = "s3"
	defaultComment           = "Restored by route53-restore backup module"
	defaultRequestsPerSecond = 5.0
	defaultMetricsJob        = "route53-restore"
	defaultLogLevel          = "info"
	defaultLogEnv            = "prod"
)

type Config struct {
	JournalPath string  `yaml:"journalPath"`
	Log         Log     `yaml:"log"`
	Backup      Backup  `yaml:"backup"`
	DNS         DNS     `yaml:"dns"`
	Restore     Restore `yaml:"restore"`
	Metrics     Metrics `yaml:"metrics"`
}

type Backup struct {
	Backend         string `yaml:"backend" validate:"oneof=s3 gcs"`
	Bucket          string `yaml:"bucket" validate:"required"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint" validate:"omitempty,url"`
	CredentialsFile string `yaml:"credentialsFile"`
}

type DNS struct {
	Region            string  `yaml:"region"`
	RequestsPerSecond float64 `yaml:"requestsPerSecond" validate:"gt=0"`
}

type Log struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	Env   string `yaml:"env"`
}

type Restore struct {
	DryRun  bool   `yaml:"dryRun"`
	Comment string `yaml:"comment" validate:"max=256"`
}

type Metrics struct {
	PushURL string `yaml:"pushUrl" validate:"omitempty,url"`
	Job     string `yaml:"job"`
}

var validate = validator.New()

func Load(path string) (*Config, error) {
	configFile := path != ""
	if configFile {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			slog.Default().Warn("fail find config file, proceeding", "path", path)
			configFile = false
		}
	}

	var cfg Config
	if configFile {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			f.Close()
			return nil, fmt.Errorf("decode config %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			slog.Default().Warn("fail close config file", "path", path, "error", err)
		}
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Backup.Backend == "" {
		cfg.Backup.Backend = defaultBackend
	}
	if cfg.DNS.RequestsPerSecond == 0 {
		cfg.DNS.RequestsPerSecond = defaultRequestsPerSecond
	}
	if cfg.Restore.Comment == "" {
		cfg.Restore.Comment = defaultComment
	}
	if cfg.Metrics.Job == "" {
		cfg.Metrics.Job = defaultMetricsJob
	}

	// Set log defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLogLevel
	}
	if cfg.Log.Env == "" {
		cfg.Log.Env = defaultLogEnv
	}
}

// Override from environment if set
func applyEnv(cfg *Config) {
	// BUCKET is what the lambda deployment has always exported.
	if bucket := os.Getenv("BUCKET"); bucket != "" {
		cfg.Backup.Bucket = bucket
	}
	if bucket := os.Getenv("ROUTE53_RESTORE_BUCKET"); bucket != "" {
		cfg.Backup.Bucket = bucket
	}
	if backend := os.Getenv("ROUTE53_RESTORE_BACKEND"); backend != "" {
		cfg.Backup.Backend = backend
	}
	if region := os.Getenv("ROUTE53_RESTORE_BACKUP_REGION"); region != "" {
		cfg.Backup.Region = region
	}
	if endpoint := os.Getenv("ROUTE53_RESTORE_BACKUP_ENDPOINT"); endpoint != "" {
		cfg.Backup.Endpoint = endpoint
	}
	if creds := os.Getenv("ROUTE53_RESTORE_GCS_CREDENTIALS_FILE"); creds != "" {
		cfg.Backup.CredentialsFile = creds
	}
	if region := os.Getenv("ROUTE53_RESTORE_DNS_REGION"); region != "" {
		cfg.DNS.Region = region
	}
	if rps := os.Getenv("ROUTE53_RESTORE_DNS_RPS"); rps != "" {
		if v, err := strconv.ParseFloat(rps, 64); err == nil {
			cfg.DNS.RequestsPerSecond = v
		} else {
			slog.Default().Warn("fail parse requests per second to float from string", "rps", rps, "error", err)
		}
	}
	if dryRun := os.Getenv("ROUTE53_RESTORE_DRYRUN"); dryRun != "" {
		switch strings.ToLower(dryRun) {
		case "true":
			cfg.Restore.DryRun = true
		case "false":
			cfg.Restore.DryRun = false
		default:
			slog.Default().Warn("fail parse dryrun to bool from string", "dryrun", dryRun)
		}
	}
	if comment := os.Getenv("ROUTE53_RESTORE_COMMENT"); comment != "" {
		cfg.Restore.Comment = comment
	}
	if journal := os.Getenv("ROUTE53_RESTORE_JOURNAL_PATH"); journal != "" {
		cfg.JournalPath = journal
	}
	if pushURL := os.Getenv("ROUTE53_RESTORE_METRICS_PUSH_URL"); pushURL != "" {
		cfg.Metrics.PushURL = pushURL
	}
	if loglevel := os.Getenv("ROUTE53_RESTORE_LOG_LEVEL"); loglevel != "" {
		cfg.Log.Level = loglevel
	}
	if logenv := os.Getenv("ROUTE53_RESTORE_LOG_ENV"); logenv != "" {
		cfg.Log.Env = logenv
	}
}
