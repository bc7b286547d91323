package metrics

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics набор Prometheus-метрик сервиса
type Metrics struct {
	registerer prometheus.Registerer

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	WizardTransitions  *prometheus.CounterVec
	WizardSubmissions  *prometheus.CounterVec
	WizardSessionsOpen prometheus.Counter
}

// New регистрирует метрики в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegistry(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegistry регистрирует метрики в переданном реестре
func NewWithRegistry(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		registerer: reg,
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		WizardTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "wizard_transitions_total",
			Help:        "Booking wizard events by resulting state and outcome",
			ConstLabels: constLabels,
		}, []string{"event", "state", "result"}),
		WizardSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "wizard_submissions_total",
			Help:        "Booking submissions by outcome (confirmed or rejection code)",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		WizardSessionsOpen: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "wizard_sessions_started_total",
			Help:        "Total number of started wizard sessions",
			ConstLabels: constLabels,
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrors,
		m.WizardTransitions,
		m.WizardSubmissions,
		m.WizardSessionsOpen,
	)

	return m
}

// RecordHTTPRequest учитывает завершенный HTTP запрос
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordDBQuery учитывает выполненный запрос к БД
func (m *Metrics) RecordDBQuery(operation string, duration time.Duration, err error) {
	m.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil && err != sql.ErrNoRows {
		m.DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordTransition учитывает событие мастера бронирования
func (m *Metrics) RecordTransition(event, state string, err error) {
	result := "ok"
	if err != nil {
		result = "rejected"
	}
	m.WizardTransitions.WithLabelValues(event, state, result).Inc()
}

// RecordSubmission учитывает результат отправки бронирования
func (m *Metrics) RecordSubmission(outcome string) {
	m.WizardSubmissions.WithLabelValues(outcome).Inc()
}

// RecordSessionStarted учитывает новую сессию мастера
func (m *Metrics) RecordSessionStarted() {
	m.WizardSessionsOpen.Inc()
}

// RegisterDBStats регистрирует стандартный коллектор статистики пула соединений
func (m *Metrics) RegisterDBStats(db *sql.DB, dbName string) error {
	return m.registerer.Register(collectors.NewDBStatsCollector(db, dbName))
}
