// Package metrics exposes Prometheus collectors for ticket sales and the
// gRPC surface.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ticketbox"

// Metrics groups the collectors services report into.
type Metrics struct {
	registry *prometheus.Registry

	purchases     *prometheus.CounterVec
	purchaseTime  prometheus.Histogram
	ticketsIssued *prometheus.CounterVec
	paid          *prometheus.CounterVec
	boxesCreated  prometheus.Counter
	boxesUpdated  prometheus.Counter
	rpcRequests   *prometheus.CounterVec
	rpcDuration   *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		purchases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sale",
			Name:      "purchases_total",
			Help:      "Purchase attempts by outcome (ok or the error kind).",
		}, []string{"outcome"}),
		purchaseTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sale",
			Name:      "purchase_duration_seconds",
			Help:      "Duration of purchase transactions.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		ticketsIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sale",
			Name:      "tickets_issued_total",
			Help:      "Tickets issued and verified, by currency path.",
		}, []string{"currency"}),
		paid: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sale",
			Name:      "paid_amount_total",
			Help:      "Amount settled into escrow, in base units, by currency path.",
		}, []string{"currency"}),
		boxesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "boxes",
			Name:      "created_total",
			Help:      "Ticket boxes created.",
		}),
		boxesUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "boxes",
			Name:      "updated_total",
			Help:      "Ticket box updates applied.",
		}),
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "grpc",
			Name:      "requests_total",
			Help:      "gRPC requests by method and status code.",
		}, []string{"method", "code"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "grpc",
			Name:      "request_duration_seconds",
			Help:      "Duration of gRPC requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}, []string{"method"}),
	}
	m.registry.MustRegister(
		m.purchases, m.purchaseTime, m.ticketsIssued, m.paid,
		m.boxesCreated, m.boxesUpdated, m.rpcRequests, m.rpcDuration,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry for tests and custom exporters.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// ObservePurchase records one purchase attempt. outcome is "ok" or the
// error kind.
func (m *Metrics) ObservePurchase(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.purchases.WithLabelValues(outcome).Inc()
	m.purchaseTime.Observe(d.Seconds())
}

// ObserveIssued records a committed ticket and the amount paid for it.
func (m *Metrics) ObserveIssued(currency string, amount uint64) {
	if m == nil {
		return
	}
	m.ticketsIssued.WithLabelValues(currency).Inc()
	m.paid.WithLabelValues(currency).Add(float64(amount))
}

func (m *Metrics) BoxCreated() {
	if m == nil {
		return
	}
	m.boxesCreated.Inc()
}

func (m *Metrics) BoxUpdated() {
	if m == nil {
		return
	}
	m.boxesUpdated.Inc()
}

// ObserveRPC records a finished gRPC call.
func (m *Metrics) ObserveRPC(method, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.rpcRequests.WithLabelValues(method, code).Inc()
	m.rpcDuration.WithLabelValues(method).Observe(d.Seconds())
}
