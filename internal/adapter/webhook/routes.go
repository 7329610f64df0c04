package webhook

import (
	"crypto/subtle"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pscheid92/blist/internal/adapter/metrics"
	"github.com/pscheid92/blist/internal/domain"
	"github.com/pscheid92/blist/internal/platform/correlation"
)

const (
	maxBodySize        = "1M"
	rateLimitPerSecond = 20
	rateLimitBurst     = 40
)

func (r *Receiver) newEcho(opts Options, sink domain.EventSink) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(setupRequestLoggerMiddleware())
	e.Use(middleware.Recover())
	e.Use(r.httpMetrics.Middleware())
	e.Use(middleware.BodyLimit(maxBodySize))
	e.Use(r.newRateLimiter(rateLimitPerSecond, rateLimitBurst))

	e.POST(opts.Path, r.handleVote(opts.Secret, opts.Event, sink))
	return e
}

// handleVote checks the shared secret before touching the body, so an unauthenticated caller
// never causes a parse or an event.
func (r *Receiver) handleVote(secret, event string, sink domain.EventSink) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if subtle.ConstantTimeCompare([]byte(header), []byte(secret)) != 1 {
			r.webhookMetrics.Delivery(metrics.DeliveryUnauthorized)
			slog.Debug("Rejected webhook delivery", "reason", "authorization mismatch", "remote_ip", c.RealIP())
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}

		body, err := io.ReadAll(c.Request().Body)
		if err != nil || !json.Valid(body) {
			r.webhookMetrics.Delivery(metrics.DeliveryMalformed)
			slog.Debug("Rejected webhook delivery", "reason", "malformed body", "remote_ip", c.RealIP())
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		}

		ctx := correlation.Ensure(c.Request().Context())
		slog.InfoContext(ctx, "Vote notification received", "event", event)
		sink.Emit(ctx, event, json.RawMessage(body))
		r.webhookMetrics.Delivery(metrics.DeliveryAccepted)

		return c.NoContent(http.StatusOK)
	}
}

func setupRequestLoggerMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			slog.Debug("Webhook request", attrs...)
			return nil
		},
	})
}
