package provider

import (
	"bytes"
	"encoding/json"

	"github.com/cespare/xxhash/v2"
)

// RecordSet mirrors the Route 53 resource record set shape written by the backup job.
type RecordSet struct {
	Name                    string                `json:"Name"`
	Type                    string                `json:"Type"`
	SetIdentifier           string                `json:"SetIdentifier,omitempty"`
	Weight                  *int64                `json:"Weight,omitempty"`
	Region                  string                `json:"Region,omitempty"`
	GeoLocation             *GeoLocation          `json:"GeoLocation,omitempty"`
	GeoProximityLocation    *GeoProximityLocation `json:"GeoProximityLocation,omitempty"`
	Failover                string                `json:"Failover,omitempty"`
	MultiValueAnswer        *bool                 `json:"MultiValueAnswer,omitempty"`
	TTL                     *int64                `json:"TTL,omitempty"`
	ResourceRecords         []ResourceRecord      `json:"ResourceRecords,omitempty"`
	AliasTarget             *AliasTarget          `json:"AliasTarget,omitempty"`
	HealthCheckId           string                `json:"HealthCheckId,omitempty"`
	TrafficPolicyInstanceId string                `json:"TrafficPolicyInstanceId,omitempty"`
	CidrRoutingConfig       *CidrRoutingConfig    `json:"CidrRoutingConfig,omitempty"`
}

type ResourceRecord struct {
	Value string `json:"Value"`
}

type AliasTarget struct {
	HostedZoneId         string `json:"HostedZoneId"`
	DNSName              string `json:"DNSName"`
	EvaluateTargetHealth bool   `json:"EvaluateTargetHealth"`
}

type GeoLocation struct {
	ContinentCode   string `json:"ContinentCode,omitempty"`
	CountryCode     string `json:"CountryCode,omitempty"`
	SubdivisionCode string `json:"SubdivisionCode,omitempty"`
}

type GeoProximityLocation struct {
	AWSRegion      string       `json:"AWSRegion,omitempty"`
	LocalZoneGroup string       `json:"LocalZoneGroup,omitempty"`
	Coordinates    *Coordinates `json:"Coordinates,omitempty"`
	Bias           *int32       `json:"Bias,omitempty"`
}

type Coordinates struct {
	Latitude  string `json:"Latitude"`
	Longitude string `json:"Longitude"`
}

type CidrRoutingConfig struct {
	CollectionId string `json:"CollectionId"`
	LocationName string `json:"LocationName"`
}

// canonical returns the JSON form used for equality. Struct fields encode in
// declaration order so two equal record sets always produce the same bytes.
func (r RecordSet) canonical() []byte {
	b, err := json.Marshal(r)
	if err != nil {
		// Only plain strings, numbers and bools, marshal cannot fail.
		panic(err)
	}
	return b
}

// Key is a content hash of the record set.
func (r RecordSet) Key() uint64 {
	return xxhash.Sum64(r.canonical())
}

func (r RecordSet) Equal(o RecordSet) bool {
	return bytes.Equal(r.canonical(), o.canonical())
}

// RecordIndex answers structural membership queries over a set of records.
type RecordIndex struct {
	buckets map[uint64][][]byte
}

func NewRecordIndex(records []RecordSet) *RecordIndex {
	idx := &RecordIndex{buckets: make(map[uint64][][]byte, len(records))}
	for _, r := range records {
		b := r.canonical()
		k := xxhash.Sum64(b)
		idx.buckets[k] = append(idx.buckets[k], b)
	}
	return idx
}

func (idx *RecordIndex) Contains(r RecordSet) bool {
	b := r.canonical()
	for _, candidate := range idx.buckets[xxhash.Sum64(b)] {
		if bytes.Equal(candidate, b) {
			return true
		}
	}
	return false
}

// Missing returns the records of want that are absent from have, in want order.
func Missing(want, have []RecordSet) []RecordSet {
	idx := NewRecordIndex(have)
	missing := []RecordSet{}
	for _, r := range want {
		if !idx.Contains(r) {
			missing = append(missing, r)
		}
	}
	return missing
}
