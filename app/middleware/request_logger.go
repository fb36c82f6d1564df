package middleware

import (
	"strings"
	"time"

	"github.com/amirphl/AdaptMuse/logger"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestLogger writes one structured access-log line per request and
// places a request-scoped logger on the request context
func RequestLogger(base *zap.Logger, skipPaths ...string) fiber.Handler {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c fiber.Ctx) error {
		start := time.Now()
		reqLog := base.With(zap.String("request_id", strings.Clone(requestid.FromContext(c))))
		c.SetContext(logger.WithContext(c.Context(), reqLog))

		err := c.Next()

		if _, ok := skip[c.Path()]; ok {
			return err
		}

		status := c.Response().StatusCode()
		level := zapcore.InfoLevel
		switch {
		case status >= fiber.StatusInternalServerError:
			level = zapcore.ErrorLevel
		case status >= fiber.StatusBadRequest:
			level = zapcore.WarnLevel
		}

		// fasthttp reuses request buffers once the handler returns
		fields := []zap.Field{
			zap.String("method", strings.Clone(c.Method())),
			zap.String("path", strings.Clone(c.Path())),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", strings.Clone(c.IP())),
			zap.String("user_agent", strings.Clone(c.Get(fiber.HeaderUserAgent))),
			zap.Int("bytes_out", len(c.Response().Body())),
		}
		if err != nil {
			fields = append(fields, zap.Error(err))
		}
		reqLog.Check(level, "http request").Write(fields...)

		return err
	}
}
