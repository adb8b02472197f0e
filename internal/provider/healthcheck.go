package provider

type HealthCheck struct {
	Id                 string            `json:"Id"`
	CallerReference    string            `json:"CallerReference,omitempty"`
	HealthCheckConfig  HealthCheckConfig `json:"HealthCheckConfig"`
	HealthCheckVersion int64             `json:"HealthCheckVersion,omitempty"`
	Tags               []Tag             `json:"Tags,omitempty"`
}

type HealthCheckConfig struct {
	Type                         string           `json:"Type"`
	IPAddress                    string           `json:"IPAddress,omitempty"`
	Port                         *int32           `json:"Port,omitempty"`
	ResourcePath                 string           `json:"ResourcePath,omitempty"`
	FullyQualifiedDomainName     string           `json:"FullyQualifiedDomainName,omitempty"`
	SearchString                 string           `json:"SearchString,omitempty"`
	RequestInterval              *int32           `json:"RequestInterval,omitempty"`
	FailureThreshold             *int32           `json:"FailureThreshold,omitempty"`
	MeasureLatency               *bool            `json:"MeasureLatency,omitempty"`
	Inverted                     *bool            `json:"Inverted,omitempty"`
	Disabled                     *bool            `json:"Disabled,omitempty"`
	HealthThreshold              *int32           `json:"HealthThreshold,omitempty"`
	ChildHealthChecks            []string         `json:"ChildHealthChecks,omitempty"`
	EnableSNI                    *bool            `json:"EnableSNI,omitempty"`
	Regions                      []string         `json:"Regions,omitempty"`
	AlarmIdentifier              *AlarmIdentifier `json:"AlarmIdentifier,omitempty"`
	InsufficientDataHealthStatus string           `json:"InsufficientDataHealthStatus,omitempty"`
	RoutingControlArn            string           `json:"RoutingControlArn,omitempty"`
}

type AlarmIdentifier struct {
	Region string `json:"Region"`
	Name   string `json:"Name"`
}

// MissingHealthChecks returns the checks of want whose Id is absent from have.
// Only the Id is compared, the live representation differs from the backup.
func MissingHealthChecks(want, have []HealthCheck) []HealthCheck {
	ids := make(map[string]bool, len(have))
	for _, hc := range have {
		ids[hc.Id] = true
	}
	missing := []HealthCheck{}
	for _, hc := range want {
		if !ids[hc.Id] {
			missing = append(missing, hc)
		}
	}
	return missing
}
