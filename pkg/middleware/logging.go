package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"coursehub/pkg/logger"
)

// RequestLogger 请求日志中间件
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		statusCode := c.Writer.Status()
		fields := []logger.Field{
			logger.F("method", c.Request.Method),
			logger.F("path", c.Request.URL.Path),
			logger.F("status", statusCode),
			logger.F("duration_ms", time.Since(start).Milliseconds()),
			logger.F("client_ip", c.ClientIP()),
		}
		if query := c.Request.URL.RawQuery; query != "" {
			fields = append(fields, logger.F("query", query))
		}

		ctx := c.Request.Context()
		switch {
		case statusCode >= 500:
			log.Error(ctx, "HTTP request", fields...)
		case statusCode >= 400:
			log.Warn(ctx, "HTTP request", fields...)
		default:
			log.Info(ctx, "HTTP request", fields...)
		}
	}
}
