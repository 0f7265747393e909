package api

import (
	"context"
	"io/fs"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/episcope/episcope/internal/config"
	"github.com/episcope/episcope/internal/scraper"
	"github.com/episcope/episcope/internal/websocket"
)

// SeriesExtractor runs the scrape pipeline for one show root URL.
type SeriesExtractor interface {
	Extract(ctx context.Context, rootURL string) (*scraper.Session, error)
}

// Server handles HTTP requests for the EpiScope API.
type Server struct {
	echo   *echo.Echo
	hub    *websocket.Hub
	logger zerolog.Logger
	cfg    *config.Config
	series SeriesExtractor
}

// NewServer creates a new API server instance wired to a fresh scrape
// pipeline.
func NewServer(cfg *config.Config, hub *websocket.Hub, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	fetcher := scraper.NewFetcher(cfg.Scraper, logger)
	series := scraper.NewSeries(fetcher, logger)
	if hub != nil {
		series.SetBroadcaster(hub)
	}

	s := &Server{
		echo:   e,
		hub:    hub,
		logger: logger,
		cfg:    cfg,
		series: series,
	}

	s.setupMiddleware()
	s.registerRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())

	// Scrape requests carry a single URL; nothing bigger belongs here.
	s.echo.Use(middleware.BodyLimit("64K"))

	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return c.Request().Header.Get("Upgrade") == "websocket"
		},
	}))

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Err(v.Error).
					Msg("request error")
			} else {
				s.logger.Info().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
			}
			return nil
		},
	}))
}

func (s *Server) registerRoutes() {
	s.echo.GET("/api/health", s.handleHealth)
	s.echo.POST("/api/scrape", s.handleScrape)

	if s.hub != nil {
		s.echo.GET("/ws", s.hub.HandleWebSocket)
	}
}

// RegisterFrontend serves the embedded frontend for all non-API paths,
// falling back to index.html.
func (s *Server) RegisterFrontend(distFS fs.FS) {
	fileServer := http.FileServer(http.FS(distFS))

	s.echo.GET("/*", func(c echo.Context) error {
		path := c.Request().URL.Path

		if strings.HasPrefix(path, "/api/") || path == "/ws" {
			return echo.ErrNotFound
		}

		if path != "/" {
			cleanPath := strings.TrimPrefix(path, "/")
			if file, err := distFS.Open(cleanPath); err == nil {
				file.Close()
				fileServer.ServeHTTP(c.Response(), c.Request())
				return nil
			}
		}

		indexFile, err := distFS.Open("index.html")
		if err != nil {
			return echo.ErrNotFound
		}
		defer indexFile.Close()

		return c.Stream(http.StatusOK, "text/html; charset=utf-8", indexFile)
	})
}

// Echo exposes the underlying echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Start begins listening on the given address.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
