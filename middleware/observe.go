package middleware

import (
	"time"

	"legalaid-backend/logger"

	"github.com/gin-gonic/gin"
)

// HTTPRecorder records one finished request
type HTTPRecorder interface {
	ObserveHTTP(method, route string, status int, d time.Duration)
}

// Observe logs every request and feeds the metrics recorder
func Observe(log *logger.Logger, rec HTTPRecorder) gin.HandlerFunc {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("middleware", "HTTP")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		took := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		if rec != nil {
			rec.ObserveHTTP(c.Request.Method, route, status, took)
		}

		kv := []interface{}{"method", c.Request.Method, "route", route, "status", status, "took", took}
		switch {
		case status >= 500:
			log.Error("Request failed", append(kv, "errors", c.Errors.String())...)
		case status >= 400:
			log.Warn("Request rejected", kv...)
		default:
			log.Debug("Request served", kv...)
		}
	}
}
