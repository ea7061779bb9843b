// Package server assembles the HTTP surface of the service.
package server

import (
	"net/http"
	"time"

	"scriptbox/internal/executor"
	"scriptbox/internal/fileserve"
	"scriptbox/internal/server/controller"
	"scriptbox/internal/server/middleware"
	"scriptbox/pkg/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Config holds HTTP server settings.
type Config struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
}

// Deps are the wired collaborators for the router. The work root is part
// of explicit configuration created once at startup.
type Deps struct {
	Executor *executor.Executor
	Files    *fileserve.Server
	APIKey   string
	WorkRoot string
	CORS     middleware.CORSConfig
}

// NewRouter registers all routes on a fresh gin engine.
func NewRouter(deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.TraceContextMiddleware())
	router.Use(middleware.CORSMiddleware(deps.CORS))
	router.Use(requestLogger())

	runController := controller.NewRunController(deps.Executor, deps.APIKey)
	fileController := controller.NewFileController(deps.Files)
	healthController := controller.NewHealthController(deps.WorkRoot)

	router.POST("/api/run-script", runController.RunScript)
	router.GET("/files/*filepath", fileController.Get)
	router.HEAD("/files/*filepath", fileController.Head)
	router.GET("/health", healthController.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// NewHTTPServer wraps the router in an http.Server with timeouts applied.
// WriteTimeout must cover the longest allowed script execution.
func NewHTTPServer(cfg Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:           cfg.Addr,
		Handler:        handler,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		logger.Info(
			c.Request.Context(),
			"request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
