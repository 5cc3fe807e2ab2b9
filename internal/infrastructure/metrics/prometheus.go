// Package metrics expone las métricas del libro y del HTTP en formato Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Bodega-api/internal/application/inventory"
)

var _ inventory.Metrics = (*Prometheus)(nil)

// Nombres de las métricas.
const (
	MetricMovementsTotal       = "bodega_movements_total"
	MetricRejectionsTotal      = "bodega_movement_rejections_total"
	MetricLargeDispatchesTotal = "bodega_large_dispatches_total"
	MetricAdjustmentsTotal     = "bodega_adjustments_total"
	MetricUndoTotal            = "bodega_undo_total"
	MetricHTTPRequestsTotal    = "bodega_http_requests_total"
	MetricHTTPDurationSeconds  = "bodega_http_request_duration_seconds"
)

// Prometheus registro propio con los contadores del libro. Seguro para uso concurrente.
type Prometheus struct {
	registry *prometheus.Registry

	movements       *prometheus.CounterVec
	rejections      *prometheus.CounterVec
	largeDispatches prometheus.Counter
	adjustments     *prometheus.CounterVec
	undo            *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// NewPrometheus crea el registro con métricas de proceso y de Go.
func NewPrometheus() *Prometheus {
	registry := prometheus.NewRegistry()
	p := &Prometheus{
		registry: registry,
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricMovementsTotal,
			Help: "Movimientos agregados al libro por dirección.",
		}, []string{"direction"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricRejectionsTotal,
			Help: "Movimientos rechazados por motivo.",
		}, []string{"reason"}),
		largeDispatches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricLargeDispatchesTotal,
			Help: "Salidas marcadas como grandes.",
		}),
		adjustments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricAdjustmentsTotal,
			Help: "Ajustes de saldo; changed indica si hubo movimiento correctivo.",
		}, []string{"changed"}),
		undo: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricUndoTotal,
			Help: "Solicitudes de deshacer por resultado.",
		}, []string{"outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricHTTPRequestsTotal,
			Help: "Peticiones HTTP por método, ruta y código.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    MetricHTTPDurationSeconds,
			Help:    "Duración de las peticiones HTTP.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.movements, p.rejections, p.largeDispatches, p.adjustments, p.undo,
		p.httpRequests, p.httpDuration,
	)
	return p
}

// MovementRecorded implementa inventory.Metrics.
func (p *Prometheus) MovementRecorded(direction string) {
	p.movements.WithLabelValues(direction).Inc()
}

// MovementRejected implementa inventory.Metrics.
func (p *Prometheus) MovementRejected(reason string) {
	p.rejections.WithLabelValues(reason).Inc()
}

// LargeDispatchFlagged implementa inventory.Metrics.
func (p *Prometheus) LargeDispatchFlagged() {
	p.largeDispatches.Inc()
}

// AdjustmentRecorded implementa inventory.Metrics.
func (p *Prometheus) AdjustmentRecorded(changed bool) {
	p.adjustments.WithLabelValues(strconv.FormatBool(changed)).Inc()
}

// UndoFinished implementa inventory.Metrics.
func (p *Prometheus) UndoFinished(outcome string) {
	p.undo.WithLabelValues(outcome).Inc()
}

// ObserveHTTP registra una petición ya respondida.
func (p *Prometheus) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler http.Handler para /metrics.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

// Registry registro subyacente.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}
