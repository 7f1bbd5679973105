package server

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DrSkyle/campuslab/pkg/campus"
)

const namespace = "campuslab"

// Metrics exposes the latest frame and HTTP traffic in Prometheus format.
// Each instance owns its registry so servers in tests do not collide.
type Metrics struct {
	registry *prometheus.Registry

	zoneFootfall  *prometheus.GaugeVec
	zoneOccupancy *prometheus.GaugeVec
	zonePower     *prometheus.GaugeVec
	zoneRisk      *prometheus.GaugeVec
	totalFootfall prometheus.Gauge
	avgOccupancy  prometheus.Gauge
	highRiskZones prometheus.Gauge
	activeZones   prometheus.Gauge
	cycles        prometheus.Counter
	cycleErrors   prometheus.Counter

	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	zone := []string{"zone"}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		zoneFootfall: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "zone_footfall",
			Help: "People counted in the zone during the latest cycle.",
		}, zone),
		zoneOccupancy: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "zone_occupancy_percent",
			Help: "Occupancy of the zone in percent.",
		}, zone),
		zonePower: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "zone_power_percent",
			Help: "Power draw of the zone in percent of capacity.",
		}, zone),
		zoneRisk: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "zone_risk_level",
			Help: "Crowd risk of the zone (0 low, 1 medium, 2 high).",
		}, zone),
		totalFootfall: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "total_footfall",
			Help: "Sum of footfall across zones.",
		}),
		avgOccupancy: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "avg_occupancy_percent",
			Help: "Truncated mean occupancy across zones, NaN when no zones reported.",
		}),
		highRiskZones: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "high_risk_zones",
			Help: "Number of zones classified High.",
		}),
		activeZones: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "active_zones",
			Help: "Number of zones in the latest snapshot.",
		}),
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "cycles_total",
			Help: "Dashboard cycles completed.",
		}),
		cycleErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "cycle_errors_total",
			Help: "Dashboard cycles that failed.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.zoneFootfall,
		m.zoneOccupancy,
		m.zonePower,
		m.zoneRisk,
		m.totalFootfall,
		m.avgOccupancy,
		m.highRiskZones,
		m.activeZones,
		m.cycles,
		m.cycleErrors,
		m.httpRequestsTotal,
		m.httpDuration,
	)
	return m
}

// Observe publishes a frame. Zones missing from the frame are dropped.
func (m *Metrics) Observe(f campus.Frame) {
	m.zoneFootfall.Reset()
	m.zoneOccupancy.Reset()
	m.zonePower.Reset()
	m.zoneRisk.Reset()

	for _, r := range f.Snapshot {
		z := r.Zone.String()
		m.zoneFootfall.WithLabelValues(z).Set(float64(r.Footfall))
		m.zoneOccupancy.WithLabelValues(z).Set(float64(r.Occupancy))
		m.zonePower.WithLabelValues(z).Set(float64(r.Power))
		m.zoneRisk.WithLabelValues(z).Set(float64(r.Risk))
	}

	m.totalFootfall.Set(float64(f.Metrics.TotalFootfall))
	if f.Metrics.HasOccupancy() {
		m.avgOccupancy.Set(float64(f.Metrics.AvgOccupancy))
	} else {
		m.avgOccupancy.Set(math.NaN())
	}
	m.highRiskZones.Set(float64(f.Metrics.HighRiskZones))
	m.activeZones.Set(float64(f.Metrics.ActiveZones))
	m.cycles.Inc()
}

// CycleFailed counts a failed refresh.
func (m *Metrics) CycleFailed() {
	m.cycleErrors.Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// WrapHandler records request count and latency for route.
func (m *Metrics) WrapHandler(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
