package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"campaign-enricher/internal/common/logger"
)

const (
	headerRequestID = "X-Request-ID"
	keyRequestID    = "request_id"
)

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(headerRequestID)
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.Set(keyRequestID, reqID)
		c.Header(headerRequestID, reqID)
		c.Next()
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(keyRequestID)
}

func loggerMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]interface{}{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latencyMs": time.Since(start).Milliseconds(),
			"clientIP":  c.ClientIP(),
			"requestId": requestID(c),
		}
		if c.Writer.Status() >= 500 {
			log.Warn("request failed", fields)
			return
		}
		log.Debug("request served", fields)
	}
}
