// Package metrics exposes the gateway's Prometheus instrumentation: a
// request counter per route/status and a gauge tracking usable credentials.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts completed HTTP requests by route and status.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gcli2api_requests_total",
		Help: "Total HTTP requests handled by the gateway, by route and status code.",
	}, []string{"route", "status"})

	// CredentialsUsable reports the current count of non-invalidated
	// credentials in the rotation pool.
	CredentialsUsable = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gcli2api_credentials_usable",
		Help: "Number of credentials currently eligible for rotation.",
	})

	// UpstreamErrorsTotal counts mapped upstream errors by mapped error code.
	UpstreamErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gcli2api_upstream_errors_total",
		Help: "Total upstream call failures, by mapped error code.",
	}, []string{"code"})
)

// ObserveRequest records one completed request for the given route/status.
func ObserveRequest(route string, status int) {
	RequestsTotal.WithLabelValues(route, statusLabel(status)).Inc()
}

func statusLabel(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
