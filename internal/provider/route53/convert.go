package route53

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/route53/types"

	"github.com/evanofslack/route53-restore/internal/provider"
)

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return aws.String(s)
}

func fromHostedZone(hz *types.HostedZone) provider.Zone {
	if hz == nil {
		return provider.Zone{}
	}
	zone := provider.Zone{
		Id:                     aws.ToString(hz.Id),
		Name:                   aws.ToString(hz.Name),
		CallerReference:        aws.ToString(hz.CallerReference),
		ResourceRecordSetCount: aws.ToInt64(hz.ResourceRecordSetCount),
	}
	if hz.Config != nil {
		zone.Config = provider.ZoneConfig{
			Comment:     aws.ToString(hz.Config.Comment),
			PrivateZone: hz.Config.PrivateZone,
		}
	}
	return zone
}

func fromRecordSet(rrs types.ResourceRecordSet) provider.RecordSet {
	r := provider.RecordSet{
		Name:                    aws.ToString(rrs.Name),
		Type:                    string(rrs.Type),
		SetIdentifier:           aws.ToString(rrs.SetIdentifier),
		Weight:                  rrs.Weight,
		Region:                  string(rrs.Region),
		Failover:                string(rrs.Failover),
		MultiValueAnswer:        rrs.MultiValueAnswer,
		TTL:                     rrs.TTL,
		HealthCheckId:           aws.ToString(rrs.HealthCheckId),
		TrafficPolicyInstanceId: aws.ToString(rrs.TrafficPolicyInstanceId),
	}
	for _, rr := range rrs.ResourceRecords {
		r.ResourceRecords = append(r.ResourceRecords, provider.ResourceRecord{Value: aws.ToString(rr.Value)})
	}
	if rrs.AliasTarget != nil {
		r.AliasTarget = &provider.AliasTarget{
			HostedZoneId:         aws.ToString(rrs.AliasTarget.HostedZoneId),
			DNSName:              aws.ToString(rrs.AliasTarget.DNSName),
			EvaluateTargetHealth: rrs.AliasTarget.EvaluateTargetHealth,
		}
	}
	if rrs.GeoLocation != nil {
		r.GeoLocation = &provider.GeoLocation{
			ContinentCode:   aws.ToString(rrs.GeoLocation.ContinentCode),
			CountryCode:     aws.ToString(rrs.GeoLocation.CountryCode),
			SubdivisionCode: aws.ToString(rrs.GeoLocation.SubdivisionCode),
		}
	}
	if g := rrs.GeoProximityLocation; g != nil {
		r.GeoProximityLocation = &provider.GeoProximityLocation{
			AWSRegion:      aws.ToString(g.AWSRegion),
			LocalZoneGroup: aws.ToString(g.LocalZoneGroup),
			Bias:           g.Bias,
		}
		if g.Coordinates != nil {
			r.GeoProximityLocation.Coordinates = &provider.Coordinates{
				Latitude:  aws.ToString(g.Coordinates.Latitude),
				Longitude: aws.ToString(g.Coordinates.Longitude),
			}
		}
	}
	if rrs.CidrRoutingConfig != nil {
		r.CidrRoutingConfig = &provider.CidrRoutingConfig{
			CollectionId: aws.ToString(rrs.CidrRoutingConfig.CollectionId),
			LocationName: aws.ToString(rrs.CidrRoutingConfig.LocationName),
		}
	}
	return r
}

func toRecordSet(r provider.RecordSet) *types.ResourceRecordSet {
	rrs := &types.ResourceRecordSet{
		Name:                    aws.String(r.Name),
		Type:                    types.RRType(r.Type),
		SetIdentifier:           optString(r.SetIdentifier),
		Weight:                  r.Weight,
		Region:                  types.ResourceRecordSetRegion(r.Region),
		Failover:                types.ResourceRecordSetFailover(r.Failover),
		MultiValueAnswer:        r.MultiValueAnswer,
		TTL:                     r.TTL,
		HealthCheckId:           optString(r.HealthCheckId),
		TrafficPolicyInstanceId: optString(r.TrafficPolicyInstanceId),
	}
	for _, rr := range r.ResourceRecords {
		rrs.ResourceRecords = append(rrs.ResourceRecords, types.ResourceRecord{Value: aws.String(rr.Value)})
	}
	if r.AliasTarget != nil {
		rrs.AliasTarget = &types.AliasTarget{
			HostedZoneId:         aws.String(r.AliasTarget.HostedZoneId),
			DNSName:              aws.String(r.AliasTarget.DNSName),
			EvaluateTargetHealth: r.AliasTarget.EvaluateTargetHealth,
		}
	}
	if r.GeoLocation != nil {
		rrs.GeoLocation = &types.GeoLocation{
			ContinentCode:   optString(r.GeoLocation.ContinentCode),
			CountryCode:     optString(r.GeoLocation.CountryCode),
			SubdivisionCode: optString(r.GeoLocation.SubdivisionCode),
		}
	}
	if g := r.GeoProximityLocation; g != nil {
		rrs.GeoProximityLocation = &types.GeoProximityLocation{
			AWSRegion:      optString(g.AWSRegion),
			LocalZoneGroup: optString(g.LocalZoneGroup),
			Bias:           g.Bias,
		}
		if g.Coordinates != nil {
			rrs.GeoProximityLocation.Coordinates = &types.Coordinates{
				Latitude:  aws.String(g.Coordinates.Latitude),
				Longitude: aws.String(g.Coordinates.Longitude),
			}
		}
	}
	if r.CidrRoutingConfig != nil {
		rrs.CidrRoutingConfig = &types.CidrRoutingConfig{
			CollectionId: aws.String(r.CidrRoutingConfig.CollectionId),
			LocationName: aws.String(r.CidrRoutingConfig.LocationName),
		}
	}
	return rrs
}

func fromHealthCheck(hc types.HealthCheck) provider.HealthCheck {
	out := provider.HealthCheck{
		Id:                 aws.ToString(hc.Id),
		CallerReference:    aws.ToString(hc.CallerReference),
		HealthCheckVersion: aws.ToInt64(hc.HealthCheckVersion),
	}
	if c := hc.HealthCheckConfig; c != nil {
		out.HealthCheckConfig = provider.HealthCheckConfig{
			Type:                         string(c.Type),
			IPAddress:                    aws.ToString(c.IPAddress),
			Port:                         c.Port,
			ResourcePath:                 aws.ToString(c.ResourcePath),
			FullyQualifiedDomainName:     aws.ToString(c.FullyQualifiedDomainName),
			SearchString:                 aws.ToString(c.SearchString),
			RequestInterval:              c.RequestInterval,
			FailureThreshold:             c.FailureThreshold,
			MeasureLatency:               c.MeasureLatency,
			Inverted:                     c.Inverted,
			Disabled:                     c.Disabled,
			HealthThreshold:              c.HealthThreshold,
			ChildHealthChecks:            c.ChildHealthChecks,
			EnableSNI:                    c.EnableSNI,
			InsufficientDataHealthStatus: string(c.InsufficientDataHealthStatus),
			RoutingControlArn:            aws.ToString(c.RoutingControlArn),
		}
		for _, region := range c.Regions {
			out.HealthCheckConfig.Regions = append(out.HealthCheckConfig.Regions, string(region))
		}
		if c.AlarmIdentifier != nil {
			out.HealthCheckConfig.AlarmIdentifier = &provider.AlarmIdentifier{
				Region: string(c.AlarmIdentifier.Region),
				Name:   aws.ToString(c.AlarmIdentifier.Name),
			}
		}
	}
	return out
}

func toHealthCheckConfig(c provider.HealthCheckConfig) *types.HealthCheckConfig {
	out := &types.HealthCheckConfig{
		Type:                         types.HealthCheckType(c.Type),
		IPAddress:                    optString(c.IPAddress),
		Port:                         c.Port,
		ResourcePath:                 optString(c.ResourcePath),
		FullyQualifiedDomainName:     optString(c.FullyQualifiedDomainName),
		SearchString:                 optString(c.SearchString),
		RequestInterval:              c.RequestInterval,
		FailureThreshold:             c.FailureThreshold,
		MeasureLatency:               c.MeasureLatency,
		Inverted:                     c.Inverted,
		Disabled:                     c.Disabled,
		HealthThreshold:              c.HealthThreshold,
		ChildHealthChecks:            c.ChildHealthChecks,
		EnableSNI:                    c.EnableSNI,
		InsufficientDataHealthStatus: types.InsufficientDataHealthStatus(c.InsufficientDataHealthStatus),
		RoutingControlArn:            optString(c.RoutingControlArn),
	}
	for _, region := range c.Regions {
		out.Regions = append(out.Regions, types.HealthCheckRegion(region))
	}
	if c.AlarmIdentifier != nil {
		out.AlarmIdentifier = &types.AlarmIdentifier{
			Region: types.CloudWatchRegion(c.AlarmIdentifier.Region),
			Name:   aws.String(c.AlarmIdentifier.Name),
		}
	}
	return out
}
