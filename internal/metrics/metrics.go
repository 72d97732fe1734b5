// Package metrics defines the Prometheus instrumentation for passmint.
// All collectors are registered on the default registry; mount
// promhttp.Handler() to expose them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/passmint/passmint/internal/strength"
)

var (
	// GeneratedTotal counts generated passwords, partitioned by the
	// strength band they scored.
	GeneratedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "passmint_passwords_generated_total",
		Help: "Passwords generated, by strength band.",
	}, []string{"strength"})

	// AnalyzedTotal counts standalone strength checks.
	AnalyzedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "passmint_strength_checks_total",
		Help: "Standalone password strength analyses.",
	})

	// ValidationErrors counts rejected client requests by operation.
	ValidationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "passmint_validation_errors_total",
		Help: "Client requests rejected by input validation.",
	}, []string{"operation"})

	// WSSessions tracks currently open realtime sessions.
	WSSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "passmint_ws_sessions",
		Help: "Open realtime duplex sessions.",
	})
)

func init() {
	// Pre-register all strength label values so dashboards see zeroes
	// instead of absent series.
	for _, l := range strength.Levels {
		GeneratedTotal.WithLabelValues(string(l))
	}
}
