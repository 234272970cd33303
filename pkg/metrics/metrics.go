package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "careclarity"

// Outcome labels for ledger operations
const (
	OutcomeSuccess     = "success"
	OutcomeRejected    = "rejected"
	OutcomeUnavailable = "unavailable"
)

// Metrics набор метрик сервиса
// Все методы безопасны для nil-получателя, чтобы метрики можно было отключить конфигом
type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	ledgerOps    *prometheus.CounterVec
	fallbacks    *prometheus.CounterVec
	notify       *prometheus.CounterVec
}

// New создает и регистрирует метрики. Если reg == nil, используется prometheus.DefaultRegisterer
func New(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "requests_total",
			Help:        "Total HTTP requests by method, route and status code",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ledgerOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "ledger",
			Name:        "operations_total",
			Help:        "Ledger operations by ledger, operation and outcome",
			ConstLabels: constLabels,
		}, []string{"ledger", "op", "outcome"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "ledger",
			Name:        "fallbacks_total",
			Help:        "Operations served by the transient ledger because the durable ledger was unavailable",
			ConstLabels: constLabels,
		}, []string{"op"}),
		notify: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "notifications",
			Name:        "sent_total",
			Help:        "Best-effort notifications by kind and outcome",
			ConstLabels: constLabels,
		}, []string{"kind", "outcome"}),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.httpRequests, m.httpDuration, m.ledgerOps, m.fallbacks, m.notify)
	return m
}

// ObserveHTTP записывает запрос и его длительность
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveLedger записывает результат операции над леджером
func (m *Metrics) ObserveLedger(ledger, op, outcome string) {
	if m == nil {
		return
	}
	m.ledgerOps.WithLabelValues(ledger, op, outcome).Inc()
}

// ObserveFallback отмечает переход на transient леджер
func (m *Metrics) ObserveFallback(op string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(op).Inc()
}

// ObserveNotification записывает результат отправки уведомления
func (m *Metrics) ObserveNotification(kind string, err error) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if err != nil {
		outcome = "failed"
	}
	m.notify.WithLabelValues(kind, outcome).Inc()
}
