package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lalith-99/propman/internal/observ"
	"go.uber.org/zap"
)

const ContextKeyLogger = "logger"

// RequestLogger gives every request a child logger tagged with its request
// id, reachable from the gin context and from c.Request.Context(), and logs
// one line per completed request. It must run after RequestID.
func RequestLogger(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		logger := base.With(zap.String("request_id", GetRequestID(c)))
		c.Set(ContextKeyLogger, logger)
		c.Request = c.Request.WithContext(observ.WithLogger(c.Request.Context(), logger))

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if userID := GetUserID(c); userID != uuid.Nil {
			fields = append(fields,
				zap.String("user_id", userID.String()),
				zap.String("username", GetUserName(c)),
				zap.String("role", string(GetRole(c))),
			)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			logger.Error("request completed", fields...)
		case status >= 400:
			logger.Warn("request completed", fields...)
		default:
			logger.Info("request completed", fields...)
		}
	}
}

// GetLogger returns the request-scoped logger, or fallback outside a request.
func GetLogger(c *gin.Context, fallback *zap.Logger) *zap.Logger {
	if val, ok := c.Get(ContextKeyLogger); ok {
		if logger, ok := val.(*zap.Logger); ok {
			return logger
		}
	}
	return observ.FromContext(c.Request.Context(), fallback)
}
