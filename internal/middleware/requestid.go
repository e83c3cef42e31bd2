package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// requestIDKey is the Echo context key under which the request ID is stored.
const requestIDKey = "request_id"

// requestIDHeader is the response header exposing the request ID so clients
// can quote it when reporting problems.
const requestIDHeader = "X-Request-ID"

// WithRequestID returns middleware that assigns every request a UUID. An
// incoming X-Request-ID from a trusted proxy is reused; otherwise a fresh
// one is generated. The ID shows up in request logs and on the response.
func WithRequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}

			c.Set(requestIDKey, id)
			c.Response().Header().Set(requestIDHeader, id)

			return next(c)
		}
	}
}

// RequestID returns the request ID assigned by WithRequestID, or "" when the
// middleware did not run (e.g., in handler unit tests).
func RequestID(c echo.Context) string {
	if id, ok := c.Get(requestIDKey).(string); ok {
		return id
	}
	return ""
}
