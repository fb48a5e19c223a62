package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every collector the service exports. Each Registry owns its
// own prometheus.Registry so tests can build as many as they like.
type Registry struct {
	reg *prometheus.Registry

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	BookingsTotal       *prometheus.CounterVec
	TicketsTotal        *prometheus.CounterVec
	RefCollisionsTotal  prometheus.Counter
	InventoryRejections *prometheus.CounterVec
	SessionsCreated     prometheus.Counter
}

func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Registry{
		reg: reg,

		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flights_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flights_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "flights_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		BookingsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flights_bookings_total",
				Help: "Bookings committed or cancelled",
			},
			[]string{"action"},
		),
		TicketsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flights_tickets_total",
				Help: "Tickets sold or returned",
			},
			[]string{"action"},
		),
		RefCollisionsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "flights_booking_ref_collisions_total",
				Help: "Generated booking references that were already taken",
			},
		),
		InventoryRejections: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flights_inventory_rejections_total",
				Help: "Bookings rejected for lack of seats, by leg",
			},
			[]string{"leg"},
		),
		SessionsCreated: f.NewCounter(
			prometheus.CounterOpts{
				Name: "flights_sessions_created_total",
				Help: "Visitor sessions started",
			},
		),
	}
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

func (r *Registry) BookingCommitted(tickets int) {
	r.BookingsTotal.WithLabelValues("committed").Inc()
	r.TicketsTotal.WithLabelValues("sold").Add(float64(tickets))
}

func (r *Registry) BookingCancelled(tickets int) {
	r.BookingsTotal.WithLabelValues("cancelled").Inc()
	r.TicketsTotal.WithLabelValues("returned").Add(float64(tickets))
}

func (r *Registry) RefCollision() {
	r.RefCollisionsTotal.Inc()
}

func (r *Registry) InventoryRejected(leg string) {
	if leg == "" {
		leg = "unknown"
	}
	r.InventoryRejections.WithLabelValues(leg).Inc()
}

func (r *Registry) SessionCreated() {
	r.SessionsCreated.Inc()
}
