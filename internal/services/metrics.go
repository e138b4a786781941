package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all custom Prometheus metrics for the application
type Metrics struct {
	// Chatbot metrics
	ChatTurns    *prometheus.CounterVec
	CrawledPages *prometheus.CounterVec

	// Payment metrics
	PaymentsCreated   prometheus.Counter
	PaymentsConfirmed prometheus.Counter
	PaymentsExpired   prometheus.Counter
}

var globalMetrics *Metrics

// InitMetrics initializes the Prometheus metrics
func InitMetrics() *Metrics {
	metrics := &Metrics{
		ChatTurns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "agristore_chat_turns_total",
			Help: "Total number of chat turns by detected intent",
		}, []string{"intent"}),

		CrawledPages: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "agristore_crawled_pages_total",
			Help: "Total number of page crawl attempts by result",
		}, []string{"result"}),

		PaymentsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "agristore_payments_created_total",
			Help: "Total number of payment intents created",
		}),

		PaymentsConfirmed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "agristore_payments_confirmed_total",
			Help: "Total number of payments confirmed",
		}),

		PaymentsExpired: promauto.NewCounter(prometheus.CounterOpts{
			Name: "agristore_payments_expired_total",
			Help: "Total number of payment intents expired by the sweep",
		}),
	}

	globalMetrics = metrics
	return metrics
}

func recordChatTurn(intent string) {
	if globalMetrics != nil {
		globalMetrics.ChatTurns.WithLabelValues(intent).Inc()
	}
}

func recordCrawledPage(ok bool) {
	if globalMetrics == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	globalMetrics.CrawledPages.WithLabelValues(result).Inc()
}

func recordPaymentCreated() {
	if globalMetrics != nil {
		globalMetrics.PaymentsCreated.Inc()
	}
}

func recordPaymentConfirmed() {
	if globalMetrics != nil {
		globalMetrics.PaymentsConfirmed.Inc()
	}
}

func recordPaymentsExpired(n int) {
	if globalMetrics != nil {
		globalMetrics.PaymentsExpired.Add(float64(n))
	}
}
