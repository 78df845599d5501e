package middleware

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

const loggerLocalKey = "logger"

// Logger logs one line per request through base and exposes a request-scoped child logger
// (carrying request_id) to handlers via LoggerFromCtx.
//
// Fields: request_id, method, path, status, latency (milliseconds), ts (in loc).
// 5xx responses log at error level, 4xx at warn, everything else at info.
func Logger(base zerolog.Logger, loc *time.Location) fiber.Handler {
	if loc == nil {
		loc = time.UTC
	}

	return func(c *fiber.Ctx) error {
		start := time.Now()

		reqLog := base.With().Str("request_id", RequestIDFromCtx(c)).Logger()
		c.Locals(loggerLocalKey, &reqLog)
		c.SetUserContext(reqLog.WithContext(c.UserContext()))

		// Resolve chain errors here so the logged status is the one the client receives.
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()

		var ev *zerolog.Event
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = reqLog.Error()
		case status >= fiber.StatusBadRequest:
			ev = reqLog.Warn()
		default:
			ev = reqLog.Info()
		}

		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Float64("latency", float64(time.Since(start).Microseconds())/1000).
			Str("ts", time.Now().In(loc).Format(time.RFC3339Nano)).
			Msg("http_request")

		return nil
	}
}

// LoggerWithWriter is Logger with a bare JSON logger writing to w.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	return Logger(zerolog.New(w), loc)
}

// LoggerFromCtx returns the request-scoped logger set by Logger.
// Without the middleware it falls back to the logger carried by the user context, if any.
func LoggerFromCtx(c *fiber.Ctx) *zerolog.Logger {
	if l, ok := c.Locals(loggerLocalKey).(*zerolog.Logger); ok {
		return l
	}
	return zerolog.Ctx(c.UserContext())
}
