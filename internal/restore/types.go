package restore

import (
	"errors"
	"fmt"
)

// ErrMissingVPC marks a private zone whose backup carries no VPC association.
var ErrMissingVPC = errors.New("private zone has no vpc association in backup")

// Event is the invocation payload. An empty BackupTime selects the latest backup.
type Event struct {
	BackupTime string `json:"BackupTime,omitempty"`
}

type ZoneStatus string

const (
	ZoneExisting ZoneStatus = "existing"
	ZoneCreated  ZoneStatus = "created"
	ZoneSkipped  ZoneStatus = "skipped"
)

type ZoneOutcome struct {
	Name     string
	BackupID string
	// ZoneID is the live zone id records are applied to. Empty for skipped
	// zones and for zones only planned in dry run.
	ZoneID string
	Status ZoneStatus
	Err    error
}

type Results struct {
	BackupTime          string
	DryRun              bool
	Zones               []ZoneOutcome
	RecordsUpserted     map[string]int
	HealthChecksCreated []string
	HealthChecksTagged  int
}

func (r Results) Status() string {
	return fmt.Sprintf("Restored backup from %s", r.BackupTime)
}

func (r Results) ZonesWithStatus(status ZoneStatus) []string {
	names := []string{}
	for _, z := range r.Zones {
		if z.Status == status {
			names = append(names, z.Name)
		}
	}
	return names
}

func (r Results) TotalUpserted() int {
	total := 0
	for _, n := range r.RecordsUpserted {
		total += n
	}
	return total
}
