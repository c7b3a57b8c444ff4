package logger

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/noah-isme/admission-admin/pkg/config"
	appErrors "github.com/noah-isme/admission-admin/pkg/errors"
	"github.com/noah-isme/admission-admin/pkg/middleware/requestid"
)

const serviceName = "admission-admin"

// New builds the process logger. Development runs default to the console encoder and debug
// level so upstream calls are visible; production always logs JSON.
func New(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.Encoding = "console"
	if cfg.Env == config.EnvProduction {
		zapCfg = zap.NewProductionConfig()
		zapCfg.Encoding = "json"
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "json", "console":
		zapCfg.Encoding = strings.ToLower(cfg.Log.Format)
	}

	if cfg.Log.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Log.Level)
		if err != nil {
			level = zapcore.InfoLevel
		}
		zapCfg.Level = zap.NewAtomicLevelAt(level)
	}

	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zapCfg.Build(zap.Fields(zap.String("service", serviceName), zap.String("env", cfg.Env)))
}

// GinMiddleware logs one line per console request. Routes listed in quiet are only logged when
// they fail, which keeps health probes and metric scrapes out of the log.
func GinMiddleware(l *zap.Logger, quiet ...string) gin.HandlerFunc {
	skip := make(map[string]bool, len(quiet))
	for _, route := range quiet {
		skip[route] = true
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if skip[route] && status < 400 {
			return
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		}
		if resource := c.Param("resource"); resource != "" {
			fields = append(fields, zap.String("resource", resource))
		}
		if reqID := requestid.Value(c); reqID != "" {
			fields = append(fields, zap.String("request_id", reqID))
		}
		if err := c.Errors.Last(); err != nil {
			fields = append(fields,
				zap.String("error_code", appErrors.FromError(err.Err).Code),
				zap.String("error", err.Error()),
			)
		}

		switch {
		case status >= 500:
			l.Error("console_request", fields...)
		case status >= 400:
			l.Warn("console_request", fields...)
		default:
			l.Info("console_request", fields...)
		}
	}
}
