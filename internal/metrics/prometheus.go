package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	slotLoads     *prom.CounterVec
	slotWrites    *prom.HistogramVec
	mutations     *prom.CounterVec
	projectsTotal prom.Gauge
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
// A nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		slotLoads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "knitpick",
			Name:      "slot_loads_total",
			Help:      "Durable slot loads by outcome",
		}, []string{"key", "outcome"}),
		slotWrites: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "knitpick",
			Name:      "slot_write_duration_seconds",
			Help:      "Duration of durable slot writes",
			Buckets:   prom.DefBuckets,
		}, []string{"key", "result"}),
		mutations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "knitpick",
			Name:      "project_mutations_total",
			Help:      "Project registry mutations by operation",
		}, []string{"op"}),
		projectsTotal: prom.NewGauge(prom.GaugeOpts{
			Namespace: "knitpick",
			Name:      "projects",
			Help:      "Number of projects in the current snapshot",
		}),
	}
	reg.MustRegister(pr.slotLoads, pr.slotWrites, pr.mutations, pr.projectsTotal)
	return pr
}

func (p *PrometheusRecorder) IncSlotLoad(key string, outcome LoadOutcome) {
	p.slotLoads.WithLabelValues(key, string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveSlotWrite(key string, d time.Duration, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	p.slotWrites.WithLabelValues(key, result).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncMutation(op string) {
	p.mutations.WithLabelValues(op).Inc()
}

func (p *PrometheusRecorder) SetProjectCount(n int) {
	p.projectsTotal.Set(float64(n))
}

// HTTPHandler returns an http.Handler that serves the metrics in reg.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
