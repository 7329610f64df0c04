package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/blist/internal/adapter/metrics"
	"github.com/pscheid92/blist/internal/platform/version"
)

// statusServer exposes /metrics, liveness and build info for the bot process.
type statusServer struct {
	echo      *echo.Echo
	startTime time.Time
}

func newStatusServer(reg *prometheus.Registry) *statusServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &statusServer{echo: e, startTime: time.Now()}
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(reg)))
	e.GET("/health/live", s.handleLiveness)
	e.GET("/version", s.handleVersion)
	return s
}

func (s *statusServer) Start(addr string) error {
	if err := s.echo.Start(addr); err != nil {
		return fmt.Errorf("failed to start status server: %w", err)
	}
	return nil
}

func (s *statusServer) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown status server: %w", err)
	}
	return nil
}

func (s *statusServer) handleLiveness(c echo.Context) error {
	response := map[string]any{
		"status": "ok",
		"uptime": time.Since(s.startTime).Seconds(),
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write liveness response: %w", err)
	}
	return nil
}

func (s *statusServer) handleVersion(c echo.Context) error {
	if err := c.JSON(http.StatusOK, version.Get()); err != nil {
		return fmt.Errorf("failed to write version response: %w", err)
	}
	return nil
}
