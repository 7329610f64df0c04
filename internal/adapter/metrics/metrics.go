// Package metrics holds the Prometheus collectors for outbound API calls, autopost ticks and
// webhook deliveries. Every collector type is nil-safe so components can run uninstrumented.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "blist"

// NewRegistry creates a Prometheus registry with Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// Handler returns an http.Handler that serves Prometheus metrics.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Set bundles every collector the client registers.
type Set struct {
	API      *APIMetrics
	Autopost *AutopostMetrics
	Webhook  *WebhookMetrics
	HTTP     *HTTPMetrics
}

// NewSet creates and registers all client metrics on reg.
func NewSet(reg prometheus.Registerer) *Set {
	return &Set{
		API:      NewAPIMetrics(reg),
		Autopost: NewAutopostMetrics(reg),
		Webhook:  NewWebhookMetrics(reg),
		HTTP:     NewHTTPMetrics(reg),
	}
}
