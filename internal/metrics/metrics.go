// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ayane/letterdrop/internal/broadcast"
	"github.com/ayane/letterdrop/internal/subscriber"
	"github.com/ayane/letterdrop/internal/tracking"
)

// Collector はPrometheusメトリクスを収集する実装。
// 購読・配信・開封の各サービスのメトリクス記録インターフェースを兼ねる。
type Collector struct {
	subscribeTotal     prometheus.Counter
	subscribeDuplicate prometheus.Counter
	unsubscribeTotal   prometheus.Counter
	sendSuccess        prometheus.Counter
	sendFail           prometheus.Counter
	sendLatency        prometheus.Histogram
	openTotal          prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		subscribeTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "letterdrop_subscribe_total",
			Help: "購読登録成功の合計数",
		}),
		subscribeDuplicate: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "letterdrop_subscribe_duplicate_total",
			Help: "登録済みメールアドレスへの購読リクエストの合計数",
		}),
		unsubscribeTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "letterdrop_unsubscribe_total",
			Help: "配信停止の合計数",
		}),
		sendSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "letterdrop_send_success_total",
			Help: "メール送信成功の合計数",
		}),
		sendFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "letterdrop_send_fail_total",
			Help: "メール送信失敗の合計数",
		}),
		sendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "letterdrop_send_latency_seconds",
			Help:    "メール送信APIのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		openTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "letterdrop_open_total",
			Help: "開封ビーコンで記録された開封イベントの合計数",
		}),
	}

	reg.MustRegister(
		c.subscribeTotal,
		c.subscribeDuplicate,
		c.unsubscribeTotal,
		c.sendSuccess,
		c.sendFail,
		c.sendLatency,
		c.openTotal,
	)

	return c
}

// RecordSubscribe は購読登録成功を記録する。
func (c *Collector) RecordSubscribe() {
	c.subscribeTotal.Inc()
}

// RecordSubscribeDuplicate は登録済みメールアドレスへの購読リクエストを記録する。
func (c *Collector) RecordSubscribeDuplicate() {
	c.subscribeDuplicate.Inc()
}

// RecordUnsubscribe は配信停止を記録する。
func (c *Collector) RecordUnsubscribe() {
	c.unsubscribeTotal.Inc()
}

// RecordSendSuccess はメール送信成功を記録する。
func (c *Collector) RecordSendSuccess() {
	c.sendSuccess.Inc()
}

// RecordSendFail はメール送信失敗を記録する。
func (c *Collector) RecordSendFail() {
	c.sendFail.Inc()
}

// ObserveSendLatency はメール送信APIのレイテンシを記録する。
func (c *Collector) ObserveSendLatency(seconds float64) {
	c.sendLatency.Observe(seconds)
}

// RecordOpen は開封イベントを記録する。
func (c *Collector) RecordOpen() {
	c.openTotal.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}

// compile-time interface checks
var (
	_ subscriber.MetricsRecorder = (*Collector)(nil)
	_ broadcast.MetricsRecorder  = (*Collector)(nil)
	_ tracking.MetricsRecorder   = (*Collector)(nil)
)
