// Package api exposes datasets, summaries and chart specifications over a
// JSON HTTP API.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"goviz/internal"
	"goviz/internal/dataset"
	"goviz/internal/errors"
	"goviz/internal/viz"
)

// Server wires the dataset processor and the chart builder to gin routes.
type Server struct {
	router    *gin.Engine
	processor *dataset.Processor
	builder   *viz.Builder
	logger    *internal.Logger
	maxUpload int64
}

// Config holds API settings
type Config struct {
	MaxUploadBytes int64
}

// NewServer creates the API server and registers its routes
func NewServer(processor *dataset.Processor, builder *viz.Builder, config Config) *Server {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	if config.MaxUploadBytes > 0 {
		router.MaxMultipartMemory = config.MaxUploadBytes
	}

	s := &Server{
		router:    router,
		processor: processor,
		builder:   builder,
		logger:    internal.DefaultLogger.WithComponent("API"),
		maxUpload: config.MaxUploadBytes,
	}
	s.setupRoutes()
	return s
}

// Handler returns the http.Handler serving the API
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	datasets := s.router.Group("/api/datasets")
	{
		datasets.POST("", s.handleUpload)
		datasets.GET("", s.handleList)
		datasets.GET("/:id", s.handleGet)
		datasets.DELETE("/:id", s.handleDelete)
		datasets.GET("/:id/data", s.handleData)
		datasets.GET("/:id/summary", s.handleSummary)
		datasets.POST("/:id/chart", s.handleChart)
		datasets.POST("/:id/charts", s.handleCharts)
		datasets.GET("/:id/dashboard", s.handleDashboard)
		datasets.GET("/:id/correlation", s.handleCorrelation)
	}
}

// respondError writes err as {"error", "code"} with the mapped status
func (s *Server) respondError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	} else {
		s.logger.Debug("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
