package middlewares

import (
	"time"

	"github.com/boshenzh/werox-wechat-mini-program/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader 请求 ID 响应头
const RequestIDHeader = "X-Request-Id"

// Logger 记录请求日志，并为每个请求分配请求 ID
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		cost := time.Since(start)
		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
			zap.Duration("time", cost),
		}
		if openid := c.GetString(identityOpenIDKey); openid != "" {
			fields = append(fields, zap.String("openid", openid))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()))
		}

		switch {
		case status >= 500:
			logger.Error("HTTP Error "+c.Request.Method+" "+path, fields...)
		case status >= 400:
			logger.Warn("HTTP Warning "+c.Request.Method+" "+path, fields...)
		default:
			logger.Debug("HTTP Access "+c.Request.Method+" "+path, fields...)
		}
	}
}
