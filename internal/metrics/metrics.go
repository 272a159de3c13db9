// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層とミドルウェアから利用する。
type MetricsCollector interface {
	RecordTranslation(kind string, targetLanguage string)
	RecordTranslationFailure(reason string)
	RecordProviderLatency(provider string, duration time.Duration)
	RecordHTTPStatus(statusCode int)
	RecordCharactersTranslated(count int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	translations    *prometheus.CounterVec
	translationFail *prometheus.CounterVec
	providerLatency *prometheus.HistogramVec
	httpStatus      *prometheus.CounterVec
	characters      prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		translations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bhashasetu_translations_total",
			Help: "翻訳リクエスト成功の合計数（種別・対象言語別）",
		}, []string{"kind", "target_language"}),
		translationFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bhashasetu_translation_fail_total",
			Help: "翻訳失敗の合計数（理由別）",
		}, []string{"reason"}),
		providerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bhashasetu_provider_latency_seconds",
			Help:    "外部翻訳・音声プロバイダ呼び出しのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bhashasetu_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		characters: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bhashasetu_characters_translated_total",
			Help: "翻訳した文字数の合計",
		}),
	}

	reg.MustRegister(
		c.translations,
		c.translationFail,
		c.providerLatency,
		c.httpStatus,
		c.characters,
	)

	return c
}

// RecordTranslation は翻訳成功を記録する。
func (c *Collector) RecordTranslation(kind string, targetLanguage string) {
	c.translations.WithLabelValues(kind, targetLanguage).Inc()
}

// RecordTranslationFailure は翻訳失敗を記録する。
func (c *Collector) RecordTranslationFailure(reason string) {
	c.translationFail.WithLabelValues(reason).Inc()
}

// RecordProviderLatency は外部プロバイダ呼び出しのレイテンシを記録する。
func (c *Collector) RecordProviderLatency(provider string, duration time.Duration) {
	c.providerLatency.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordCharactersTranslated は翻訳文字数を記録する。
func (c *Collector) RecordCharactersTranslated(count int) {
	c.characters.Add(float64(count))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
