package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// ErrorLocalKey holds an internal error a handler answered with, so it reaches the access log
// without being exposed to the client.
const ErrorLocalKey = "internal_error"

// Logger writes one structured access log entry per request.
// Fields: request_id, method, path, route, status, latency (ms).
func Logger(logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}

		var ev *zerolog.Event
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = logger.Error()
		case status >= fiber.StatusBadRequest:
			ev = logger.Warn()
		default:
			ev = logger.Info()
		}

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		ev = ev.
			Str("request_id", rid).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("route", c.Route().Path).
			Int("status", status).
			Float64("latency", float64(time.Since(start).Microseconds())/1000)

		if internal, ok := c.Locals(ErrorLocalKey).(error); ok {
			ev = ev.Err(internal)
		} else if err != nil {
			ev = ev.Err(err)
		}
		ev.Msg("request")

		return err
	}
}
