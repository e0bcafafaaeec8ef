package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// 予約結果ラベル
const (
	OutcomeReserved     = "reserved"
	OutcomeNoSeats      = "no_seats"
	OutcomeUnknownUser  = "unknown_user"
	OutcomeNotFound     = "not_found"
	OutcomeConflict     = "conflict"
	OutcomeExhausted    = "capacity_exhausted"
	OutcomeUnavailable  = "store_unavailable"
	OutcomeInternalFail = "error"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 予約試行の総数（outcome）
	BookingsTotal *prometheus.CounterVec

	// 予約処理全体の所要時間（リトライ込み）
	BookingDuration prometheus.Histogram

	// 競合によるリトライ回数
	BookingConflictRetries prometheus.Counter

	// 払い出した識別子の数（domain: user, reservation）
	IdentifiersIssued *prometheus.CounterVec

	// 空席キャッシュのヒット/ミス（result: hit, miss, error）
	AvailabilityCacheRequests *prometheus.CounterVec

	// 直近の監査で残席と予約数が一致しなかった公演数
	LedgerDriftPerformances prometheus.Gauge
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		BookingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookings_total",
				Help: "Total number of booking attempts by outcome",
			},
			[]string{"outcome"},
		),
		BookingDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "booking_duration_seconds",
				Help:    "Time spent booking a seat including conflict retries",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
		),
		BookingConflictRetries: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "booking_conflict_retries_total",
				Help: "Number of booking retries caused by transaction conflicts",
			},
		),
		IdentifiersIssued: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "identifiers_issued_total",
				Help: "Number of identifiers issued by domain",
			},
			[]string{"domain"},
		),
		AvailabilityCacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "availability_cache_requests_total",
				Help: "Availability cache lookups by result",
			},
			[]string{"result"},
		),
		LedgerDriftPerformances: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "ledger_drift_performances",
				Help: "Performances whose seat count disagrees with recorded reservations",
			},
		),
	}

	// レジストリに登録
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.BookingsTotal,
		m.BookingDuration,
		m.BookingConflictRetries,
		m.IdentifiersIssued,
		m.AvailabilityCacheRequests,
		m.LedgerDriftPerformances,
	)

	return m
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
// Init 前は nil
func Get() *Metrics {
	return defaultMetrics
}

// ObserveBooking は予約結果と所要時間を記録する
// nil レシーバでも安全に呼べる
func (m *Metrics) ObserveBooking(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.BookingsTotal.WithLabelValues(outcome).Inc()
	m.BookingDuration.Observe(seconds)
}

// IncConflictRetry は競合リトライを1回記録する
func (m *Metrics) IncConflictRetry() {
	if m == nil {
		return
	}
	m.BookingConflictRetries.Inc()
}

// IncIdentifierIssued は識別子の払い出しを記録する
func (m *Metrics) IncIdentifierIssued(domain string) {
	if m == nil {
		return
	}
	m.IdentifiersIssued.WithLabelValues(domain).Inc()
}

// IncCacheRequest は空席キャッシュの参照結果を記録する
func (m *Metrics) IncCacheRequest(result string) {
	if m == nil {
		return
	}
	m.AvailabilityCacheRequests.WithLabelValues(result).Inc()
}

// SetLedgerDrift は監査で検出した不整合公演数を記録する
func (m *Metrics) SetLedgerDrift(n int) {
	if m == nil {
		return
	}
	m.LedgerDriftPerformances.Set(float64(n))
}
