// Package server exposes the simulator and the run archive over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/san-kum/traysim/internal/cache"
	"github.com/san-kum/traysim/internal/catalog"
	"github.com/san-kum/traysim/internal/experiment"
	"github.com/san-kum/traysim/internal/storage"
)

const service = "traysim-api"

type Server struct {
	runner  *experiment.Runner
	store   *storage.Store
	catalog *catalog.Catalog
	cache   *cache.Cache
	log     *zap.Logger
	env     string
	started time.Time
}

type Option func(*Server)

func WithCatalog(c *catalog.Catalog) Option { return func(s *Server) { s.catalog = c } }

// WithCache enables result caching. A nil cache disables it.
func WithCache(c *cache.Cache) Option { return func(s *Server) { s.cache = c } }

func WithLogger(log *zap.Logger) Option { return func(s *Server) { s.log = log } }

func WithEnvironment(env string) Option { return func(s *Server) { s.env = env } }

func New(runner *experiment.Runner, store *storage.Store, opts ...Option) *Server {
	s := &Server{
		runner:  runner,
		store:   store,
		log:     zap.NewNop(),
		env:     "development",
		started: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the gin engine with every route mounted under /api/v1.
func (s *Server) Router() *gin.Engine {
	if s.env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), s.requestLog())

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept, Origin")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", s.health)
		v1.POST("/simulate", s.simulate)

		runs := v1.Group("/runs")
		{
			runs.GET("", s.listRuns)
			runs.GET("/:id", s.getRun)
		}
	}
	return router
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.log.Info("shutting down")
	return srv.Shutdown(shutdown)
}
