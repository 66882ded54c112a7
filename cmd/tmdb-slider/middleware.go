package main

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// createLoggingMiddleware logs each request after it has been handled.
func createLoggingMiddleware(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start).Milliseconds()

		status := c.Response().StatusCode()
		var fiberErr *fiber.Error
		if err != nil {
			status = fiber.StatusInternalServerError
			if errors.As(err, &fiberErr) {
				status = fiberErr.Code
			}
		}

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("query", string(c.Request().URI().QueryString())),
			zap.Int("status", status),
			zap.String("duration", strconv.FormatInt(duration, 10)+"ms"),
		}
		if status >= 500 {
			logger.Warn("Handled request", fields...)
		} else {
			logger.Debug("Handled request", fields...)
		}
		return err
	}
}
