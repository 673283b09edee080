// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやワーカーから利用する。
type MetricsCollector interface {
	RecordLoginSuccess()
	RecordLoginFailure()
	RecordOrderPlaced(totalCents int64)
	RecordMenuMutation(operation string)
	RecordReviewPosted(rating int)
	RecordHTTPStatus(statusCode int)
	RecordSessionsPurged(count int64)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	loginSuccess   prometheus.Counter
	loginFail      prometheus.Counter
	ordersPlaced   prometheus.Counter
	orderAmount    prometheus.Histogram
	menuMutations  *prometheus.CounterVec
	reviewsPosted  *prometheus.CounterVec
	httpStatus     *prometheus.CounterVec
	sessionsPurged prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kissaten_login_success_total",
			Help: "ログイン成功の合計数",
		}),
		loginFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kissaten_login_fail_total",
			Help: "ログイン失敗の合計数",
		}),
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kissaten_orders_placed_total",
			Help: "確定された注文の合計数",
		}),
		orderAmount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kissaten_order_amount_cents",
			Help:    "注文金額（セント）の分布",
			Buckets: prometheus.ExponentialBuckets(100, 2, 10),
		}),
		menuMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kissaten_menu_mutations_total",
			Help: "メニュー変更操作の合計数",
		}, []string{"operation"}),
		reviewsPosted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kissaten_reviews_posted_total",
			Help: "投稿されたレビューの評価別合計数",
		}, []string{"rating"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kissaten_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		sessionsPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "kissaten_sessions_purged_total",
			Help: "クリーンアップで削除された期限切れセッションの合計数",
		}),
	}

	reg.MustRegister(
		c.loginSuccess,
		c.loginFail,
		c.ordersPlaced,
		c.orderAmount,
		c.menuMutations,
		c.reviewsPosted,
		c.httpStatus,
		c.sessionsPurged,
	)

	return c
}

// RecordLoginSuccess はログイン成功を記録する。
func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

// RecordLoginFailure はログイン失敗を記録する。
func (c *Collector) RecordLoginFailure() {
	c.loginFail.Inc()
}

// RecordOrderPlaced は注文確定と注文金額を記録する。
func (c *Collector) RecordOrderPlaced(totalCents int64) {
	c.ordersPlaced.Inc()
	c.orderAmount.Observe(float64(totalCents))
}

// RecordMenuMutation はメニューの変更操作（create/update/delete）を記録する。
func (c *Collector) RecordMenuMutation(operation string) {
	c.menuMutations.WithLabelValues(operation).Inc()
}

// RecordReviewPosted はレビュー投稿を評価別に記録する。
func (c *Collector) RecordReviewPosted(rating int) {
	c.reviewsPosted.WithLabelValues(strconv.Itoa(rating)).Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordSessionsPurged はクリーンアップで削除されたセッション数を記録する。
func (c *Collector) RecordSessionsPurged(count int64) {
	c.sessionsPurged.Add(float64(count))
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// インターフェース適合の検証。
var _ MetricsCollector = (*Collector)(nil)

// NopCollector は何も記録しないMetricsCollector。テストで使用する。
type NopCollector struct{}

func (NopCollector) RecordLoginSuccess()                 {}
func (NopCollector) RecordLoginFailure()                 {}
func (NopCollector) RecordOrderPlaced(totalCents int64)  {}
func (NopCollector) RecordMenuMutation(operation string) {}
func (NopCollector) RecordReviewPosted(rating int)       {}
func (NopCollector) RecordHTTPStatus(statusCode int)     {}
func (NopCollector) RecordSessionsPurged(count int64)    {}
