package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	nuts "github.com/vaudience/go-nuts"
)

const metricNamespace = "soilsense"

// Ingest outcomes
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Service provides monitoring functionality. Each Service owns its registry,
// so several can coexist in one process.
type Service struct {
	registry       *prometheus.Registry
	ingestTotal    *prometheus.CounterVec
	ingestDuration prometheus.Histogram
	remoteFailures *prometheus.CounterVec
	commandsTotal  *prometheus.CounterVec
	deviceOnline   prometheus.Gauge
}

// NewService creates a new monitoring service
func NewService() *Service {
	s := &Service{
		registry: prometheus.NewRegistry(),
		ingestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "ingest_total",
			Help:      "Device reports handled, by outcome",
		}, []string{"outcome"}),
		ingestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricNamespace,
			Name:      "ingest_duration_seconds",
			Help:      "Time spent handling one device report",
			Buckets:   prometheus.DefBuckets,
		}),
		remoteFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "remote_failures_total",
			Help:      "Remote store calls that failed and were served locally",
		}, []string{"operation"}),
		commandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricNamespace,
			Name:      "commands_total",
			Help:      "Operator commands issued and delivered",
		}, []string{"event", "kind", "source"}),
		deviceOnline: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Name:      "device_online",
			Help:      "1 when the device reported within the liveness timeout",
		}),
	}
	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		s.ingestTotal,
		s.ingestDuration,
		s.remoteFailures,
		s.commandsTotal,
		s.deviceOnline,
	)
	return s
}

// ObserveIngest counts one handled report.
func (s *Service) ObserveIngest(outcome string, took time.Duration) {
	s.ingestTotal.WithLabelValues(outcome).Inc()
	s.ingestDuration.Observe(took.Seconds())
}

// RemoteFailure counts a failed remote call. Its signature matches the
// fallback guard's failure callback.
func (s *Service) RemoteFailure(op string, err error) {
	s.remoteFailures.WithLabelValues(op).Inc()
}

// RecordEvent records a command lifecycle event with labels "kind" and
// "source".
func (s *Service) RecordEvent(eventName string, labels map[string]string) {
	s.commandsTotal.WithLabelValues(eventName, labels["kind"], labels["source"]).Inc()
	nuts.L.Infof("[Monitoring] Event %s recorded with labels: %v", eventName, labels)
}

func (s *Service) SetDeviceOnline(online bool) {
	if online {
		s.deviceOnline.Set(1)
		return
	}
	s.deviceOnline.Set(0)
}

// Handler exposes the registry in the Prometheus text format.
func (s *Service) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry})
}

func (s *Service) Registry() *prometheus.Registry {
	return s.registry
}
