package route53

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsr53 "github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/route53/types"
	"golang.org/x/time/rate"

	"github.com/evanofslack/route53-restore/internal/config"
	"github.com/evanofslack/route53-restore/internal/metrics"
	"github.com/evanofslack/route53-restore/internal/provider"
)

// API is the subset of the Route 53 client used by the provider.
type API interface {
	GetHostedZone(ctx context.Context, params *awsr53.GetHostedZoneInput, optFns ...func(*awsr53.Options)) (*awsr53.GetHostedZoneOutput, error)
	CreateHostedZone(ctx context.Context, params *awsr53.CreateHostedZoneInput, optFns ...func(*awsr53.Options)) (*awsr53.CreateHostedZoneOutput, error)
	ListResourceRecordSets(ctx context.Context, params *awsr53.ListResourceRecordSetsInput, optFns ...func(*awsr53.Options)) (*awsr53.ListResourceRecordSetsOutput, error)
	ChangeResourceRecordSets(ctx context.Context, params *awsr53.ChangeResourceRecordSetsInput, optFns ...func(*awsr53.Options)) (*awsr53.ChangeResourceRecordSetsOutput, error)
	ListHealthChecks(ctx context.Context, params *awsr53.ListHealthChecksInput, optFns ...func(*awsr53.Options)) (*awsr53.ListHealthChecksOutput, error)
	CreateHealthCheck(ctx context.Context, params *awsr53.CreateHealthCheckInput, optFns ...func(*awsr53.Options)) (*awsr53.CreateHealthCheckOutput, error)
	ChangeTagsForResource(ctx context.Context, params *awsr53.ChangeTagsForResourceInput, optFns ...func(*awsr53.Options)) (*awsr53.ChangeTagsForResourceOutput, error)
}

type Route53Provider struct {
	client  API
	limiter *rate.Limiter
	metrics *metrics.Metrics
}

func New(awsCfg aws.Config, cfg config.DNS, metrics *metrics.Metrics) *Route53Provider {
	client := awsr53.NewFromConfig(awsCfg, func(o *awsr53.Options) {
		if cfg.Region != "" {
			o.Region = cfg.Region
		}
	})
	return NewWithClient(client, cfg.RequestsPerSecond, metrics)
}

func NewWithClient(client API, requestsPerSecond float64, metrics *metrics.Metrics) *Route53Provider {
	return &Route53Provider{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		metrics: metrics,
	}
}

func (p *Route53Provider) GetZone(ctx context.Context, id string) (provider.Zone, error) {
	slog.Debug("Getting hosted zone", "id", id)
	if err := p.limiter.Wait(ctx); err != nil {
		return provider.Zone{}, err
	}

	out, err := p.client.GetHostedZone(ctx, &awsr53.GetHostedZoneInput{Id: aws.String(id)})
	if err != nil {
		var nsz *types.NoSuchHostedZone
		if errors.As(err, &nsz) {
			// Not found is an answer, not a failed request.
			p.metrics.IncDNSRequest("read", true)
			return provider.Zone{}, fmt.Errorf("zone %s: %w", id, provider.ErrZoneNotFound)
		}
		p.metrics.IncDNSRequest("read", false)
		return provider.Zone{}, fmt.Errorf("failed to get hosted zone: %w", err)
	}

	p.metrics.IncDNSRequest("read", true)
	return fromHostedZone(out.HostedZone), nil
}

func (p *Route53Provider) CreateZone(ctx context.Context, params provider.CreateZoneParams) (provider.Zone, error) {
	slog.Info("Creating hosted zone", "name", params.Name, "private", params.Config.PrivateZone)
	start := time.Now()
	if err := p.limiter.Wait(ctx); err != nil {
		return provider.Zone{}, err
	}

	in := &awsr53.CreateHostedZoneInput{
		Name:            aws.String(params.Name),
		CallerReference: aws.String(params.CallerReference),
		HostedZoneConfig: &types.HostedZoneConfig{
			Comment:     optString(params.Config.Comment),
			PrivateZone: params.Config.PrivateZone,
		},
	}
	if params.VPC != nil {
		in.VPC = &types.VPC{
			VPCId:     aws.String(params.VPC.VPCId),
			VPCRegion: types.VPCRegion(params.VPC.VPCRegion),
		}
	}

	out, err := p.client.CreateHostedZone(ctx, in)
	if err != nil {
		p.metrics.IncDNSRequest("create", false)
		return provider.Zone{}, fmt.Errorf("failed to create hosted zone: %w", err)
	}

	p.metrics.IncDNSRequest("create", true)
	zone := fromHostedZone(out.HostedZone)
	slog.Debug("Created hosted zone", "name", zone.Name, "id", zone.Id, "duration", time.Since(start))
	return zone, nil
}

func (p *Route53Provider) ListRecords(ctx context.Context, zoneID string) ([]provider.RecordSet, error) {
	slog.Info("Getting DNS records", "zone", zoneID)
	start := time.Now()

	var result []provider.RecordSet
	in := &awsr53.ListResourceRecordSetsInput{HostedZoneId: aws.String(zoneID)}
	for {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		out, err := p.client.ListResourceRecordSets(ctx, in)
		if err != nil {
			p.metrics.IncDNSRequest("read", false)
			return nil, fmt.Errorf("failed to list DNS records: %w", err)
		}
		p.metrics.IncDNSRequest("read", true)

		for _, rrs := range out.ResourceRecordSets {
			result = append(result, fromRecordSet(rrs))
		}
		if !out.IsTruncated {
			break
		}
		in.StartRecordName = out.NextRecordName
		in.StartRecordType = out.NextRecordType
		in.StartRecordIdentifier = out.NextRecordIdentifier
	}

	slog.Debug("Retrieved DNS records", "zone", zoneID, "count", len(result), "duration", time.Since(start))
	return result, nil
}

func (p *Route53Provider) ChangeRecords(ctx context.Context, zoneID string, batch provider.ChangeBatch) error {
	slog.Info("Changing DNS records", "zone", zoneID, "changes", len(batch.Changes))
	start := time.Now()
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}

	changes := make([]types.Change, 0, len(batch.Changes))
	for _, c := range batch.Changes {
		changes = append(changes, types.Change{
			Action:            types.ChangeAction(c.Action),
			ResourceRecordSet: toRecordSet(c.ResourceRecordSet),
		})
	}

	_, err := p.client.ChangeResourceRecordSets(ctx, &awsr53.ChangeResourceRecordSetsInput{
		HostedZoneId: aws.String(zoneID),
		ChangeBatch: &types.ChangeBatch{
			Comment: optString(batch.Comment),
			Changes: changes,
		},
	})
	if err != nil {
		p.metrics.IncDNSRequest("upsert", false)
		return fmt.Errorf("failed to change DNS records: %w", err)
	}

	p.metrics.IncDNSRequest("upsert", true)
	slog.Debug("Changed DNS records", "zone", zoneID, "changes", len(changes), "duration", time.Since(start))
	return nil
}

func (p *Route53Provider) ListHealthChecks(ctx context.Context) ([]provider.HealthCheck, error) {
	slog.Info("Getting health checks")

	var result []provider.HealthCheck
	in := &awsr53.ListHealthChecksInput{}
	for {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		out, err := p.client.ListHealthChecks(ctx, in)
		if err != nil {
			p.metrics.IncDNSRequest("read", false)
			return nil, fmt.Errorf("failed to list health checks: %w", err)
		}
		p.metrics.IncDNSRequest("read", true)

		for _, hc := range out.HealthChecks {
			result = append(result, fromHealthCheck(hc))
		}
		if !out.IsTruncated {
			break
		}
		in.Marker = out.NextMarker
	}

	slog.Debug("Retrieved health checks", "count", len(result))
	return result, nil
}

func (p *Route53Provider) CreateHealthCheck(ctx context.Context, callerReference string, cfg provider.HealthCheckConfig) (provider.HealthCheck, error) {
	slog.Info("Creating health check", "type", cfg.Type, "caller_reference", callerReference)
	if err := p.limiter.Wait(ctx); err != nil {
		return provider.HealthCheck{}, err
	}

	out, err := p.client.CreateHealthCheck(ctx, &awsr53.CreateHealthCheckInput{
		CallerReference:   aws.String(callerReference),
		HealthCheckConfig: toHealthCheckConfig(cfg),
	})
	if err != nil {
		p.metrics.IncDNSRequest("create", false)
		return provider.HealthCheck{}, fmt.Errorf("failed to create health check: %w", err)
	}

	p.metrics.IncDNSRequest("create", true)
	return fromHealthCheck(*out.HealthCheck), nil
}

func (p *Route53Provider) AddHealthCheckTags(ctx context.Context, id string, tags []provider.Tag) error {
	slog.Info("Tagging health check", "id", id, "tags", len(tags))
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}

	addTags := make([]types.Tag, 0, len(tags))
	for _, t := range tags {
		addTags = append(addTags, types.Tag{Key: aws.String(t.Key), Value: aws.String(t.Value)})
	}

	_, err := p.client.ChangeTagsForResource(ctx, &awsr53.ChangeTagsForResourceInput{
		ResourceId:   aws.String(id),
		ResourceType: types.TagResourceTypeHealthcheck,
		AddTags:      addTags,
	})
	if err != nil {
		p.metrics.IncDNSRequest("tag", false)
		return fmt.Errorf("failed to tag health check: %w", err)
	}

	p.metrics.IncDNSRequest("tag", true)
	return nil
}
