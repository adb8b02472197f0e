package provider

import (
	"context"
	"errors"
)

// ErrZoneNotFound is returned by GetZone when the hosted zone does not exist.
var ErrZoneNotFound = errors.New("hosted zone not found")

type Provider interface {
	GetZone(ctx context.Context, id string) (Zone, error)
	CreateZone(ctx context.Context, params CreateZoneParams) (Zone, error)
	ListRecords(ctx context.Context, zoneID string) ([]RecordSet, error)
	ChangeRecords(ctx context.Context, zoneID string, batch ChangeBatch) error
	ListHealthChecks(ctx context.Context) ([]HealthCheck, error)
	CreateHealthCheck(ctx context.Context, callerReference string, cfg HealthCheckConfig) (HealthCheck, error)
	AddHealthCheckTags(ctx context.Context, id string, tags []Tag) error
}

type Zone struct {
	Id                     string     `json:"Id"`
	Name                   string     `json:"Name"`
	CallerReference        string     `json:"CallerReference,omitempty"`
	Config                 ZoneConfig `json:"Config"`
	ResourceRecordSetCount int64      `json:"ResourceRecordSetCount,omitempty"`
}

type ZoneConfig struct {
	Comment     string `json:"Comment,omitempty"`
	PrivateZone bool   `json:"PrivateZone"`
}

type VPC struct {
	VPCRegion string `json:"VPCRegion,omitempty"`
	VPCId     string `json:"VPCId,omitempty"`
}

type CreateZoneParams struct {
	Name            string
	CallerReference string
	Config          ZoneConfig
	VPC             *VPC // private zones only
}

const ActionUpsert = "UPSERT"

type Change struct {
	Action            string
	ResourceRecordSet RecordSet
}

type ChangeBatch struct {
	Comment string
	Changes []Change
}

type Tag struct {
	Key   string `json:"Key"`
	Value string `json:"Value"`
}
