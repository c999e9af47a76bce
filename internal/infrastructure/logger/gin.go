package logger

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Gin context keys shared with the HTTP middleware package
const (
	ginRequestIDKey = "request_id"
	ginUserIDKey    = "user_id"
)

// GinMiddleware writes one access log line per request and opens the request
// scope that For, the gorm logger and the handlers read from.
func GinMiddleware(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		req := c.Request

		ctx := ForRequest(req.Context(), base.With(
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
		), c.GetString(ginRequestIDKey))
		c.Request = req.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		fields := make([]zap.Field, 0, 8)
		fields = append(fields,
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("bytes", c.Writer.Size()),
		)
		if ua := req.UserAgent(); ua != "" {
			fields = append(fields, zap.String("user_agent", ua))
		}
		if q := req.URL.RawQuery; q != "" {
			fields = append(fields, zap.String("query", q))
		}
		if uid := c.GetString(ginUserIDKey); uid != "" {
			fields = append(fields, zap.String("user_id", uid))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}

		if ce := For(ctx, nil).Check(accessLevel(status, req.URL.Path), "HTTP Request"); ce != nil {
			ce.Write(fields...)
		}
	}
}

// accessLevel keeps health probes and static uploads out of info logs
func accessLevel(status int, path string) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	case path == "/health", strings.HasPrefix(path, "/uploads/"):
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

// Recovery turns a handler panic into a logged 500 with the standard error
// envelope.
func Recovery(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			requestID := c.GetString(ginRequestIDKey)
			For(c.Request.Context(), base).Error("Panic recovered",
				zap.String("route", c.FullPath()),
				zap.Any("panic", rec),
				zap.Stack("stacktrace"),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":       "ERR_INTERNAL",
					"message":    "An internal error occurred",
					"request_id": requestID,
				},
			})
		}()
		c.Next()
	}
}
