// Package api exposes the analysis service as a JSON API over gin.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"statkit/app"
	"statkit/internal"

	"github.com/gin-gonic/gin"
)

// Server routes /api/v1 requests to the analysis service
type Server struct {
	router  *gin.Engine
	service *app.AnalysisService
	events  *EventHub
	logger  *internal.Logger
}

// NewServer creates the API server. mode is a gin mode (debug, release, test);
// empty keeps the current one.
func NewServer(service *app.AnalysisService, mode string) *Server {
	if mode != "" {
		gin.SetMode(mode)
	}
	s := &Server{
		router:  gin.New(),
		service: service,
		events:  NewEventHub(),
		logger:  internal.DefaultLogger.Named("api"),
	}
	s.router.Use(gin.Recovery(), s.requestLogger())
	s.setupRoutes()
	return s
}

// Handler returns the routed engine
func (s *Server) Handler() http.Handler {
	return s.router
}

// Events returns the hub that announces stored results
func (s *Server) Events() *EventHub {
	return s.events
}

const shutdownTimeout = 10 * time.Second

// Run listens on addr until ctx is done, then closes the event hub and
// drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()
	s.logger.Info("API listening on %s", addr)

	select {
	case err := <-serveErr:
		s.Close()
		return err
	case <-ctx.Done():
	}

	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-serveErr; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("API stopped")
	return nil
}

// Close stops the event hub; open event streams end
func (s *Server) Close() {
	s.events.Close()
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.router.Group("/api/v1")
	v1.GET("/events", s.events.HandleSSE)

	analyses := v1.Group("/analyses")
	analyses.POST("/frequency", s.handleFrequency)
	analyses.POST("/timeseries", s.handleTimeSeries)
	analyses.POST("/timeseries/batch", s.handleTimeSeriesBatch)
	analyses.POST("/variance", s.handleVariance)
	analyses.POST("/regression", s.handleRegression)
	analyses.POST("/descriptive", s.handleDescriptive)
	analyses.POST("/summary", s.handleSummaryByColumn)

	results := v1.Group("/results")
	results.GET("", s.handleListResults)
	results.GET("/:id", s.handleGetResult)
	results.DELETE("/:id", s.handleDeleteResult)
	results.GET("/:id/effect-size", s.handleEffectSize)
	results.GET("/:id/frequencies/:column", s.handleFrequencies)

	series := v1.Group("/timeseries")
	series.POST("/trend", s.handleTrend)
	series.POST("/seasonality", s.handleSeasonality)
	series.POST("/autocorrelation", s.handleAutocorrelation)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		latency := time.Since(start)
		switch {
		case status >= http.StatusInternalServerError:
			s.logger.Error("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, status, latency)
		case status >= http.StatusBadRequest:
			s.logger.Warn("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, status, latency)
		default:
			s.logger.Debug("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, status, latency)
		}
	}
}
