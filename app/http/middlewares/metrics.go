package middlewares

import (
	"time"

	"github.com/boshenzh/werox-wechat-mini-program/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

// Metrics 统计请求数与耗时，未匹配路由统一记为 unmatched
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, cast.ToString(c.Writer.Status())).Inc()
		metrics.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
