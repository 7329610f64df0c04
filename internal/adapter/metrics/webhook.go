package metrics

import "github.com/prometheus/client_golang/prometheus"

// Webhook delivery results.
const (
	DeliveryAccepted     = "accepted"
	DeliveryUnauthorized = "unauthorized"
	DeliveryMalformed    = "malformed"
	DeliveryRateLimited  = "rate_limited"
)

// WebhookMetrics holds Prometheus metrics for inbound vote notifications.
type WebhookMetrics struct {
	DeliveriesTotal *prometheus.CounterVec
	Listening       prometheus.Gauge
}

// NewWebhookMetrics creates and registers webhook metrics on the given registry.
func NewWebhookMetrics(reg prometheus.Registerer) *WebhookMetrics {
	m := &WebhookMetrics{
		DeliveriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "webhook",
			Name:      "deliveries_total",
			Help:      "Total number of inbound vote notifications, by result.",
		}, []string{"result"}),
		Listening: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "webhook",
			Name:      "listening",
			Help:      "1 while the webhook listener is bound.",
		}),
	}

	reg.MustRegister(m.DeliveriesTotal, m.Listening)
	return m
}

func (m *WebhookMetrics) Delivery(result string) {
	if m == nil {
		return
	}
	m.DeliveriesTotal.WithLabelValues(result).Inc()
}

func (m *WebhookMetrics) SetListening(listening bool) {
	if m == nil {
		return
	}
	if listening {
		m.Listening.Set(1)
		return
	}
	m.Listening.Set(0)
}
