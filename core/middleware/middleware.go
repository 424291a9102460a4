package middleware

import (
	"time"

	"go-booking-api/core/constants"
	"go-booking-api/core/logger"
	"go-booking-api/core/utils"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

type Middleware struct{}

func NewMiddleware() *Middleware {
	return &Middleware{}
}

// Setup registers the process-wide middleware chain.
func (m *Middleware) Setup(e *echo.Echo) {
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.BodyLimit(constants.DefaultBodyLimit))
	e.Use(echomw.TimeoutWithConfig(echomw.TimeoutConfig{
		Timeout: constants.DefaultRequestTimeout,
	}))
	e.Use(m.RequestLogger())
}

// RequestLogger tags each request with a short id and logs method, path,
// status and latency on completion.
func (m *Middleware) RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Request().Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = utils.GenerateID()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			logger.Info("request",
				"request_id", requestID,
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", status,
				"latency_ms", latency.Milliseconds(),
			)
			return err
		}
	}
}
