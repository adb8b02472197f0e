package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

type Metrics struct {
	registry        *prometheus.Registry
	restoreRuns     *prometheus.CounterVec // total restores
	restoreDuration prometheus.Histogram   // time to restore
	dnsOperations   *prometheus.CounterVec // restore operations per resource kind
	dnsRequests     *prometheus.CounterVec // dns provider requests
	storageRequests *prometheus.CounterVec // backup store requests
	badgerRequests  *prometheus.CounterVec // journal requests
}

// Public interface for metrics operations
func (m *Metrics) IncRestoreRun(success bool) {
	status := boolToResult(success)
	m.restoreRuns.WithLabelValues(status).Inc()
}

func (m *Metrics) SetRestoreDuration(duration time.Duration) {
	m.restoreDuration.Observe(duration.Seconds())
}

func (m *Metrics) IncDNSOperation(operation, kind string, dryRun bool) {
	if !isValidOperation(operation) || !isValidKind(kind) {
		return
	}
	m.dnsOperations.WithLabelValues(operation, kind, boolToStr(dryRun)).Inc()
}

func (m *Metrics) IncDNSRequest(operation string, success bool) {
	if !isValidOperation(operation) {
		return
	}
	status := boolToResult(success)
	m.dnsRequests.WithLabelValues(operation, status).Inc()
}

func (m *Metrics) IncStorageRequest(backend string, success bool) {
	status := boolToResult(success)
	m.storageRequests.WithLabelValues(backend, status).Inc()
}

func (m *Metrics) IncBadgerRequest(operation string, success bool) {
	if !isValidOperation(operation) {
		return
	}
	status := boolToResult(success)
	m.badgerRequests.WithLabelValues(operation, status).Inc()
}

// Push sends every registered collector to a Prometheus Pushgateway.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	return push.New(url, job).Gatherer(m.registry).PushContext(ctx)
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Validation helpers
func boolToResult(b bool) string {
	if b {
		return "success"
	}
	return "failure"
}

func boolToStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func isValidOperation(op string) bool {
	switch op {
	case "create", "read", "update", "upsert", "tag", "skip":
		return true
	}
	return false
}

func isValidKind(kind string) bool {
	switch kind {
	case "zone", "record", "healthcheck":
		return true
	}
	return false
}

func New(register bool) *Metrics {
	registry := prometheus.NewRegistry()
	namespace := "route53_restore"

	m := &Metrics{
		registry: registry,

		restoreRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "restore_runs_total",
			Help:      "Total number of restore runs",
		}, []string{"status"}),

		restoreDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "restore_duration_seconds",
			Help:      "Duration of restore runs in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		dnsOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dns_operations_total",
			Help:      "Total DNS resources restored by app",
		}, []string{"operation", "kind", "dry_run"}),

		dnsRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dns_requests_total",
			Help:      "Total DNS provider requests",
		}, []string{"operation", "status"}),

		storageRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_requests_total",
			Help:      "Total backup storage requests",
		}, []string{"backend", "status"}),

		badgerRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "badgerdb_requests_total",
			Help:      "Total badgerdb requests",
		}, []string{"operation", "status"}),
	}

	if register {
		registry.MustRegister(
			m.restoreRuns,
			m.restoreDuration,
			m.dnsOperations,
			m.dnsRequests,
			m.storageRequests,
			m.badgerRequests,
		)
	}
	return m
}
