package middleware

import (
	"github.com/gin-gonic/gin"

	tracecontext "coursehub/pkg/context"
)

// RequestIDHeader 请求ID透传头
const RequestIDHeader = "X-Request-ID"

// RequestID 请求ID中间件，优先复用调用方携带的ID
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = tracecontext.GenerateRequestID()
		}

		ctx := tracecontext.WithRequestID(c.Request.Context(), requestID)
		ctx = tracecontext.WithClientIP(ctx, c.ClientIP())
		c.Request = c.Request.WithContext(ctx)

		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}
