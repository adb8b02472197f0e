package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v3"

	"github.com/evanofslack/route53-restore/internal/metrics"
)

const (
	runPrefix = "run:"
	// Fixed width so keys sort lexically in time order.
	keyLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// Entry is one recorded restore run.
type Entry struct {
	BackupTime          string        `json:"backupTime"`
	StartedAt           time.Time     `json:"startedAt"`
	Duration            time.Duration `json:"duration"`
	DryRun              bool          `json:"dryRun"`
	Success             bool          `json:"success"`
	Error               string        `json:"error,omitempty"`
	ZonesCreated        []string      `json:"zonesCreated,omitempty"`
	ZonesSkipped        []string      `json:"zonesSkipped,omitempty"`
	RecordsUpserted     int           `json:"recordsUpserted"`
	HealthChecksCreated []string      `json:"healthChecksCreated,omitempty"`
}

type Journal interface {
	Record(ctx context.Context, entry Entry) error
	List(ctx context.Context) ([]Entry, error)
	Close() error
}

type badgerJournal struct {
	db      *badger.DB
	metrics *metrics.Metrics
}

func Open(path string, metrics *metrics.Metrics) (Journal, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Disable Badger's internal logger

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return &badgerJournal{db: db, metrics: metrics}, nil
}

func entryKey(e Entry) []byte {
	return []byte(runPrefix + e.StartedAt.UTC().Format(keyLayout))
}

func (j *badgerJournal) Record(ctx context.Context, entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		j.metrics.IncBadgerRequest("create", false)
		return err
	}
	err = j.db.Update(func(txn *badger.Txn) error {
		return txn.Set(entryKey(entry), data)
	})
	j.metrics.IncBadgerRequest("create", err == nil)
	return err
}

// List returns every recorded run, oldest first.
func (j *badgerJournal) List(ctx context.Context) ([]Entry, error) {
	entries := []Entry{}

	err := j.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(runPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var e Entry
				if err := json.Unmarshal(val, &e); err != nil {
					return err
				}
				entries = append(entries, e)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	j.metrics.IncBadgerRequest("read", err == nil)
	return entries, err
}

func (j *badgerJournal) Close() error {
	return j.db.Close()
}
