// Package server wraps Echo with the middleware stack and a graceful
// shutdown lifecycle shared by every HTTP binary.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	mw "github.com/mkoskenniemi/lakihaku/pkg/middleware"
)

const gracefulShutdownTimeout = 10 * time.Second

type Server struct {
	Echo *echo.Echo

	cfg *Config
}

func New(cfg *Config) *Server {
	e := echo.New()
	e.HideBanner = true

	s := &Server{
		Echo: e,
		cfg:  cfg,
	}
	s.setupMiddlewares()
	return s
}

func (s *Server) setupMiddlewares() {
	s.Echo.Use(mw.Logger())
	s.Echo.Use(middleware.Recover())
	s.Echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.cfg.CorsOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete},
	}))
}

// Start serves until interrupted, then drains in-flight requests within
// the shutdown timeout.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		if err := s.Echo.Start(":" + s.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped unexpectedly", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down the server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()
	return s.Echo.Shutdown(shutdownCtx)
}
