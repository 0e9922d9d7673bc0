// Package server is the HTTP backend that generates projects with a
// local model and writes them to disk.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"vibe_studio/internal/config"
)

const (
	// RequestIDHeader correlates a shell request with server logs
	RequestIDHeader = "X-Request-ID"

	requestIDKey    = "request_id"
	shutdownTimeout = 10 * time.Second
)

// Server wraps the gin engine and its http.Server
type Server struct {
	engine *gin.Engine
	http   *http.Server
	log    *logrus.Logger
}

// New builds the router with logging, recovery and permissive CORS
func New(cfg config.ServerConfig, gen CodeGenerator, log *logrus.Logger) *Server {
	router := gin.New()
	router.Use(requestLogger(log))
	router.Use(gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AddAllowHeaders(RequestIDHeader)
	corsCfg.AddExposeHeaders(RequestIDHeader)
	router.Use(cors.New(corsCfg))

	RegisterRoutes(router, NewHandler(gen, log))

	return &Server{
		engine: router,
		http: &http.Server{
			Addr:    cfg.Address,
			Handler: router,
			// Generation waits on the model, so writes get the long budget
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 5 * time.Minute,
			IdleTimeout:  60 * time.Second,
		},
		log: log,
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.http.Addr).Info("starting API server")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info("API server stopped")
	return nil
}

// requestLogger tags each request with an id and logs its outcome
func requestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)

		c.Next()

		log.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
			"request_id": id,
		}).Info("request")
	}
}

// requestLog returns a log entry carrying the request id
func requestLog(c *gin.Context, log *logrus.Logger) *logrus.Entry {
	return log.WithField("request_id", c.GetString(requestIDKey))
}
