// Package ioweb provides REST API of species search.
package ioweb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gnames/gnspecies/internal/iosearch"
	"github.com/gnames/gnspecies/pkg/config"
	"github.com/gnames/gnspecies/pkg/search"
	"github.com/gnames/gnspecies/pkg/taxon"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

// SpeciesResponse is the body of a successful search.
type SpeciesResponse struct {
	Results []taxon.Result `json:"results"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server is the web service.
type Server struct {
	port     int
	searcher search.Searcher
	e        *echo.Echo
}

// New creates a server. Metrics from gatherer are exposed at /metrics.
func New(
	cfg *config.Config,
	searcher search.Searcher,
	gatherer prometheus.Gatherer,
) *Server {
	res := &Server{
		port:     cfg.Server.Port,
		searcher: searcher,
		e:        echo.New(),
	}
	res.e.HideBanner = true
	res.e.HidePort = true

	res.e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	res.e.Use(requestLogger(slog.Default()))
	res.e.Use(middleware.Recover())
	res.e.Use(middleware.CORS())

	api := res.e.Group("/api/v1")
	api.GET("/ping", ping)
	api.GET("/species", res.species)
	res.e.GET("/metrics", echo.WrapHandler(
		promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
	))
	return res
}

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.e.ServeHTTP(w, r)
}

// Run serves requests until ctx is done, then shuts the server down
// letting running requests finish.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		err := s.e.Start(addr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	slog.Info("Web service started", "port", s.port)

	select {
	case err := <-errCh:
		if err != nil {
			return ServerError(s.port, err)
		}
		return nil
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	slog.Info("Shutting down web service")
	if err := s.e.Shutdown(sctx); err != nil {
		return ServerError(s.port, err)
	}
	return nil
}

func ping(c echo.Context) error {
	return c.String(http.StatusOK, "pong")
}

func (s *Server) species(c echo.Context) error {
	var req speciesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	req.normalize()
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: errorMessage(err)})
	}

	res, err := s.searcher.Search(c.Request().Context(), req.Query, req.Kingdom)
	if iosearch.IsEmptyQuery(err) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: emptyQueryMsg})
	}
	if err != nil {
		slog.Error("Search failed", "query", req.Query, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Search failed"})
	}
	if res == nil {
		res = []taxon.Result{}
	}
	return c.JSON(http.StatusOK, SpeciesResponse{Results: res})
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("id", v.RequestID),
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.String("ip", v.RemoteIP),
				slog.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, "request", attrs...)
			return nil
		},
	})
}
