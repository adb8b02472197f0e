package route53

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsr53 "github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/route53/types"

	"github.com/evanofslack/route53-restore/internal/metrics"
	"github.com/evanofslack/route53-restore/internal/provider"
)

type MockRoute53 struct {
	getZoneErr   error
	zone         *types.HostedZone
	createdZone  *awsr53.CreateHostedZoneInput
	recordPages  []*awsr53.ListResourceRecordSetsOutput
	recordInputs []awsr53.ListResourceRecordSetsInput
	checkPages   []*awsr53.ListHealthChecksOutput
	checkInputs  []awsr53.ListHealthChecksInput
	changes      *awsr53.ChangeResourceRecordSetsInput
	createdCheck *awsr53.CreateHealthCheckInput
	tags         *awsr53.ChangeTagsForResourceInput
}

func (m *MockRoute53) GetHostedZone(ctx context.Context, in *awsr53.GetHostedZoneInput, _ ...func(*awsr53.Options)) (*awsr53.GetHostedZoneOutput, error) {
	if m.getZoneErr != nil {
		return nil, m.getZoneErr
	}
	return &awsr53.GetHostedZoneOutput{HostedZone: m.zone}, nil
}

func (m *MockRoute53) CreateHostedZone(ctx context.Context, in *awsr53.CreateHostedZoneInput, _ ...func(*awsr53.Options)) (*awsr53.CreateHostedZoneOutput, error) {
	m.createdZone = in
	return &awsr53.CreateHostedZoneOutput{HostedZone: &types.HostedZone{
		Id:              aws.String("/hostedzone/NEW"),
		Name:            in.Name,
		CallerReference: in.CallerReference,
		Config:          in.HostedZoneConfig,
	}}, nil
}

func (m *MockRoute53) ListResourceRecordSets(ctx context.Context, in *awsr53.ListResourceRecordSetsInput, _ ...func(*awsr53.Options)) (*awsr53.ListResourceRecordSetsOutput, error) {
	m.recordInputs = append(m.recordInputs, *in)
	page := m.recordPages[0]
	m.recordPages = m.recordPages[1:]
	return page, nil
}

func (m *MockRoute53) ChangeResourceRecordSets(ctx context.Context, in *awsr53.ChangeResourceRecordSetsInput, _ ...func(*awsr53.Options)) (*awsr53.ChangeResourceRecordSetsOutput, error) {
	m.changes = in
	return &awsr53.ChangeResourceRecordSetsOutput{}, nil
}

func (m *MockRoute53) ListHealthChecks(ctx context.Context, in *awsr53.ListHealthChecksInput, _ ...func(*awsr53.Options)) (*awsr53.ListHealthChecksOutput, error) {
	m.checkInputs = append(m.checkInputs, *in)
	page := m.checkPages[0]
	m.checkPages = m.checkPages[1:]
	return page, nil
}

func (m *MockRoute53) CreateHealthCheck(ctx context.Context, in *awsr53.CreateHealthCheckInput, _ ...func(*awsr53.Options)) (*awsr53.CreateHealthCheckOutput, error) {
	m.createdCheck = in
	return &awsr53.CreateHealthCheckOutput{HealthCheck: &types.HealthCheck{
		Id:                aws.String("hc-new"),
		CallerReference:   in.CallerReference,
		HealthCheckConfig: in.HealthCheckConfig,
	}}, nil
}

func (m *MockRoute53) ChangeTagsForResource(ctx context.Context, in *awsr53.ChangeTagsForResourceInput, _ ...func(*awsr53.Options)) (*awsr53.ChangeTagsForResourceOutput, error) {
	m.tags = in
	return &awsr53.ChangeTagsForResourceOutput{}, nil
}

func newTestProvider(client API) *Route53Provider {
	return NewWithClient(client, 1000, metrics.New(false))
}

func TestGetZone(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectErr    bool
		expectNotFnd bool
	}{
		{name: "found"},
		{name: "not found", err: &types.NoSuchHostedZone{}, expectErr: true, expectNotFnd: true},
		{name: "other error", err: errors.New("throttled"), expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &MockRoute53{
				getZoneErr: tt.err,
				zone: &types.HostedZone{
					Id:     aws.String("/hostedzone/Z1"),
					Name:   aws.String("a.com."),
					Config: &types.HostedZoneConfig{PrivateZone: false},
				},
			}
			zone, err := newTestProvider(client).GetZone(context.Background(), "/hostedzone/Z1")

			if tt.expectErr != (err != nil) {
				t.Fatalf("error = %v, expectErr %v", err, tt.expectErr)
			}
			if got := errors.Is(err, provider.ErrZoneNotFound); got != tt.expectNotFnd {
				t.Errorf("errors.Is(ErrZoneNotFound) = %v, want %v", got, tt.expectNotFnd)
			}
			if !tt.expectErr && zone.Name != "a.com." {
				t.Errorf("zone name = %q, want a.com.", zone.Name)
			}
		})
	}
}

func TestCreatePrivateZone(t *testing.T) {
	client := &MockRoute53{}
	zone, err := newTestProvider(client).CreateZone(context.Background(), provider.CreateZoneParams{
		Name:            "internal.",
		CallerReference: "2024-01-01T00:00:00Z-/hostedzone/Z2",
		Config:          provider.ZoneConfig{Comment: "vpc", PrivateZone: true},
		VPC:             &provider.VPC{VPCRegion: "eu-west-1", VPCId: "vpc-1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if zone.Id != "/hostedzone/NEW" {
		t.Errorf("zone id = %q, want /hostedzone/NEW", zone.Id)
	}

	in := client.createdZone
	if in.VPC == nil || aws.ToString(in.VPC.VPCId) != "vpc-1" || in.VPC.VPCRegion != types.VPCRegionEuWest1 {
		t.Errorf("unexpected vpc %+v", in.VPC)
	}
	if !in.HostedZoneConfig.PrivateZone || aws.ToString(in.HostedZoneConfig.Comment) != "vpc" {
		t.Errorf("unexpected config %+v", in.HostedZoneConfig)
	}
}

func TestCreatePublicZoneOmitsVPC(t *testing.T) {
	client := &MockRoute53{}
	_, err := newTestProvider(client).CreateZone(context.Background(), provider.CreateZoneParams{
		Name:            "a.com.",
		CallerReference: "ref",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.createdZone.VPC != nil {
		t.Errorf("public zone should not carry a VPC, got %+v", client.createdZone.VPC)
	}
	if client.createdZone.HostedZoneConfig.Comment != nil {
		t.Errorf("empty comment should be omitted")
	}
}

func TestListRecordsFollowsTruncation(t *testing.T) {
	client := &MockRoute53{recordPages: []*awsr53.ListResourceRecordSetsOutput{
		{
			ResourceRecordSets: []types.ResourceRecordSet{
				{Name: aws.String("a.com."), Type: types.RRTypeA, TTL: aws.Int64(300), ResourceRecords: []types.ResourceRecord{{Value: aws.String("1.2.3.4")}}},
			},
			IsTruncated:    true,
			NextRecordName: aws.String("b.a.com."),
			NextRecordType: types.RRTypeCname,
		},
		{
			ResourceRecordSets: []types.ResourceRecordSet{
				{Name: aws.String("b.a.com."), Type: types.RRTypeCname, AliasTarget: &types.AliasTarget{
					HostedZoneId: aws.String("Z2FDTNDATAQYW2"),
					DNSName:      aws.String("d111.cloudfront.net."),
				}},
			},
		},
	}}

	records, err := newTestProvider(client).ListRecords(context.Background(), "/hostedzone/Z1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if len(client.recordInputs) != 2 {
		t.Fatalf("list calls = %d, want 2", len(client.recordInputs))
	}
	second := client.recordInputs[1]
	if aws.ToString(second.StartRecordName) != "b.a.com." || second.StartRecordType != types.RRTypeCname {
		t.Errorf("second page did not continue from marker: %+v", second)
	}
	if records[1].AliasTarget == nil || records[1].AliasTarget.DNSName != "d111.cloudfront.net." {
		t.Errorf("alias target not converted: %+v", records[1])
	}
}

func TestChangeRecordsUpsert(t *testing.T) {
	client := &MockRoute53{}
	rs := provider.RecordSet{Name: "a.com.", Type: "A", TTL: aws.Int64(60), ResourceRecords: []provider.ResourceRecord{{Value: "1.2.3.4"}}}

	err := newTestProvider(client).ChangeRecords(context.Background(), "/hostedzone/NEW", provider.ChangeBatch{
		Comment: "restored",
		Changes: []provider.Change{{Action: provider.ActionUpsert, ResourceRecordSet: rs}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	in := client.changes
	if aws.ToString(in.HostedZoneId) != "/hostedzone/NEW" {
		t.Errorf("zone id = %q", aws.ToString(in.HostedZoneId))
	}
	if aws.ToString(in.ChangeBatch.Comment) != "restored" || len(in.ChangeBatch.Changes) != 1 {
		t.Fatalf("unexpected batch %+v", in.ChangeBatch)
	}
	change := in.ChangeBatch.Changes[0]
	if change.Action != types.ChangeActionUpsert {
		t.Errorf("action = %q, want UPSERT", change.Action)
	}
	if got := fromRecordSet(*change.ResourceRecordSet); !got.Equal(rs) {
		t.Errorf("record set changed in conversion: %+v", got)
	}
}

func TestRecordSetConversionRoundTrip(t *testing.T) {
	bias := int32(-20)
	tests := []struct {
		name string
		rs   provider.RecordSet
	}{
		{
			name: "geoproximity region",
			rs: provider.RecordSet{
				Name: "a.com.", Type: "A", SetIdentifier: "east", TTL: aws.Int64(60),
				ResourceRecords:      []provider.ResourceRecord{{Value: "1.2.3.4"}},
				GeoProximityLocation: &provider.GeoProximityLocation{AWSRegion: "us-east-1", Bias: &bias},
			},
		},
		{
			name: "geoproximity coordinates",
			rs: provider.RecordSet{
				Name: "a.com.", Type: "A", SetIdentifier: "pin", TTL: aws.Int64(60),
				ResourceRecords: []provider.ResourceRecord{{Value: "5.6.7.8"}},
				GeoProximityLocation: &provider.GeoProximityLocation{
					Coordinates: &provider.Coordinates{Latitude: "49.22", Longitude: "-74.01"},
				},
			},
		},
		{
			name: "local zone group",
			rs: provider.RecordSet{
				Name: "a.com.", Type: "A", SetIdentifier: "lz", TTL: aws.Int64(60),
				ResourceRecords:      []provider.ResourceRecord{{Value: "9.9.9.9"}},
				GeoProximityLocation: &provider.GeoProximityLocation{LocalZoneGroup: "us-west-2-lax-1"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sdk := toRecordSet(tt.rs)
			if sdk.GeoProximityLocation == nil {
				t.Fatal("geoproximity location dropped when building the request")
			}
			if got := fromRecordSet(*sdk); !got.Equal(tt.rs) {
				t.Errorf("round trip changed record set: got %+v, want %+v", got, tt.rs)
			}
		})
	}
}

func TestHealthChecks(t *testing.T) {
	client := &MockRoute53{checkPages: []*awsr53.ListHealthChecksOutput{
		{
			HealthChecks: []types.HealthCheck{{Id: aws.String("hc-1"), HealthCheckConfig: &types.HealthCheckConfig{Type: types.HealthCheckTypeHttp}}},
			IsTruncated:  true,
			NextMarker:   aws.String("hc-1"),
		},
		{
			HealthChecks: []types.HealthCheck{{Id: aws.String("hc-2"), HealthCheckConfig: &types.HealthCheckConfig{Type: types.HealthCheckTypeTcp}}},
		},
	}}
	p := newTestProvider(client)
	ctx := context.Background()

	checks, err := p.ListHealthChecks(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(checks) != 2 || checks[1].Id != "hc-2" {
		t.Fatalf("unexpected checks %+v", checks)
	}
	if aws.ToString(client.checkInputs[1].Marker) != "hc-1" {
		t.Errorf("second page marker = %q, want hc-1", aws.ToString(client.checkInputs[1].Marker))
	}

	created, err := p.CreateHealthCheck(ctx, "ref", provider.HealthCheckConfig{
		Type:    "HTTPS",
		Port:    aws.Int32(443),
		Regions: []string{"us-east-1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Id != "hc-new" || aws.ToString(client.createdCheck.CallerReference) != "ref" {
		t.Errorf("unexpected create %+v", created)
	}
	if client.createdCheck.HealthCheckConfig.Type != types.HealthCheckTypeHttps {
		t.Errorf("type = %q, want HTTPS", client.createdCheck.HealthCheckConfig.Type)
	}

	if err := p.AddHealthCheckTags(ctx, "hc-new", []provider.Tag{{Key: "Name", Value: "web"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.tags.ResourceType != types.TagResourceTypeHealthcheck || len(client.tags.AddTags) != 1 {
		t.Errorf("unexpected tag request %+v", client.tags)
	}
}
