package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Результаты разрешения цены для лейбла result счетчика price_resolutions_total
const (
	PriceResolved         = "resolved"
	PriceFailed           = "failed"
	PriceSuperseded       = "superseded"
	PriceDebounceCanceled = "debounce_cancelled"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration   *prometheus.HistogramVec
	DBConnectionsOpen *prometheus.GaugeVec
	DBConnectionsIdle *prometheus.GaugeVec

	PriceResolutionsTotal *prometheus.CounterVec
	DraftsActive          *prometheus.GaugeVec
}

// New создает и регистрирует метрики сервиса в default registry
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),

		DBConnectionsOpen: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections_open",
			Help:        "Number of open database connections",
			ConstLabels: constLabels,
		}, []string{}),

		DBConnectionsIdle: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_connections_idle",
			Help:        "Number of idle database connections",
			ConstLabels: constLabels,
		}, []string{}),

		PriceResolutionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "price_resolutions_total",
			Help:        "Price resolution attempts by result",
			ConstLabels: constLabels,
		}, []string{"result"}),

		DraftsActive: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "booking_drafts_active",
			Help:        "Number of booking drafts currently held in memory",
			ConstLabels: constLabels,
		}, []string{}),
	}
}

// IncPriceResolution инкрементирует счетчик разрешений цены с указанным результатом
func (m *Metrics) IncPriceResolution(result string) {
	m.PriceResolutionsTotal.WithLabelValues(result).Inc()
}

// SetDraftsActive выставляет количество активных черновиков
func (m *Metrics) SetDraftsActive(n int) {
	m.DraftsActive.WithLabelValues().Set(float64(n))
}
