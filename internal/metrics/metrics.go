// Package metrics holds the Prometheus collectors of the service.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ui_backend"

type Metrics struct {
	outboundRequests *prometheus.CounterVec
	outboundDuration *prometheus.HistogramVec
	retries          *prometheus.CounterVec
	cartItems        *prometheus.CounterVec
	orders           *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		outboundRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "outbound", Name: "requests_total",
			Help: "Outbound HTTP attempts by collaborator, method and outcome.",
		}, []string{"service", "method", "outcome"}),
		outboundDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "outbound", Name: "request_duration_seconds",
			Help:    "Duration of outbound HTTP attempts.",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "outbound", Name: "retries_total",
			Help: "Outbound calls that were attempted again after a failure.",
		}, []string{"service"}),
		cartItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cart", Name: "update_items_total",
			Help: "Cart update line items by outcome.",
		}, []string{"outcome"}),
		orders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "order", Name: "confirmations_total",
			Help: "Order confirmations by outcome.",
		}, []string{"outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "Handled HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "Duration of handled HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}

	reg.MustRegister(
		m.outboundRequests, m.outboundDuration, m.retries,
		m.cartItems, m.orders,
		m.httpRequests, m.httpDuration,
	)
	return m
}

func (m *Metrics) ObserveOutbound(service, method, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.outboundRequests.WithLabelValues(service, method, outcome).Inc()
	m.outboundDuration.WithLabelValues(service, method).Observe(d.Seconds())
}

func (m *Metrics) IncRetry(service string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(service).Inc()
}

func (m *Metrics) IncCartItem(outcome string) {
	if m == nil {
		return
	}
	m.cartItems.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncOrder(outcome string) {
	if m == nil {
		return
	}
	m.orders.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveHTTP(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(d.Seconds())
}
