package metrics

import "github.com/prometheus/client_golang/prometheus"

// AutopostMetrics holds Prometheus metrics for the stats autopost scheduler.
type AutopostMetrics struct {
	PostsTotal    *prometheus.CounterVec
	Running       prometheus.Gauge
	InFlightPosts prometheus.Gauge
}

// NewAutopostMetrics creates and registers autopost metrics on the given registry.
func NewAutopostMetrics(reg prometheus.Registerer) *AutopostMetrics {
	m := &AutopostMetrics{
		PostsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "autopost",
			Name:      "posts_total",
			Help:      "Total number of scheduled stats posts, by result.",
		}, []string{"result"}),
		Running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "autopost",
			Name:      "running",
			Help:      "1 while the autopost scheduler is armed.",
		}),
		InFlightPosts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "autopost",
			Name:      "in_flight_posts",
			Help:      "Number of scheduled stats posts currently awaiting the remote service.",
		}),
	}

	reg.MustRegister(m.PostsTotal, m.Running, m.InFlightPosts)
	return m
}

func (m *AutopostMetrics) SetRunning(running bool) {
	if m == nil {
		return
	}
	if running {
		m.Running.Set(1)
		return
	}
	m.Running.Set(0)
}

func (m *AutopostMetrics) PostStarted() {
	if m == nil {
		return
	}
	m.InFlightPosts.Inc()
}

func (m *AutopostMetrics) PostFinished(result string) {
	if m == nil {
		return
	}
	m.InFlightPosts.Dec()
	m.PostsTotal.WithLabelValues(result).Inc()
}
