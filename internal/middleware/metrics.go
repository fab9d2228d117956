package middleware

import (
	"gcli2api-go/internal/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics records one observation per completed request into the gateway's
// Prometheus counters, keyed by the matched route template (not the raw
// path, so path params don't explode the label cardinality).
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveRequest(route, c.Writer.Status())
	}
}
