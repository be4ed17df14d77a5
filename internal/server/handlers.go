package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/san-kum/traysim/internal/cache"
	"github.com/san-kum/traysim/internal/catalog"
	"github.com/san-kum/traysim/internal/config"
	"github.com/san-kum/traysim/internal/dynamo"
	"github.com/san-kum/traysim/internal/storage"
)

// SimulateRequest starts from a preset, or the defaults, and overlays the
// params and solver fields present in the body.
type SimulateRequest struct {
	Name   string          `json:"name"`
	Preset string          `json:"preset"`
	Params json.RawMessage `json:"params"`
	Solver json.RawMessage `json:"solver"`
	Save   bool            `json:"save"`
}

type SimulateResponse struct {
	ID     string         `json:"id,omitempty"`
	Cached bool           `json:"cached"`
	Result *dynamo.Result `json:"result"`
}

type RunResponse struct {
	Entry    *catalog.Entry       `json:"entry,omitempty"`
	Metadata *storage.RunMetadata `json:"metadata"`
	Result   *dynamo.Result       `json:"result"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": service,
		"uptime":  time.Since(s.started).String(),
	})
}

func (r *SimulateRequest) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if r.Preset != "" {
		cfg = config.GetPreset(r.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q", r.Preset)
		}
	}
	if len(r.Params) > 0 {
		if err := json.Unmarshal(r.Params, &cfg.Params); err != nil {
			return nil, fmt.Errorf("params: %w", err)
		}
	}
	if len(r.Solver) > 0 {
		if err := json.Unmarshal(r.Solver, &cfg.Solver); err != nil {
			return nil, fmt.Errorf("solver: %w", err)
		}
	}
	if r.Name != "" {
		cfg.Name = r.Name
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *Server) simulate(c *gin.Context) {
	var req SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cfg, err := req.Config()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()

	key, err := cache.Key(cfg.Params, cfg.Solver)
	if err != nil {
		s.fail(c, err)
		return
	}

	res, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		// a broken cache only costs a recomputation
		s.log.Warn("cache get", zap.Error(err))
	}
	if !hit {
		res, err = s.runner.Simulate(ctx, cfg)
		if err != nil {
			s.fail(c, err)
			return
		}
		if err := s.cache.Set(ctx, key, res); err != nil {
			s.log.Warn("cache set", zap.Error(err))
		}
	}

	out := SimulateResponse{Cached: hit, Result: res}
	if req.Save {
		meta, err := s.runner.Store(ctx, cfg.Name, res)
		if err != nil {
			s.fail(c, err)
			return
		}
		out.ID = meta.ID
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) listRuns(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	if s.catalog == nil {
		runs, err := s.store.List()
		if err != nil {
			s.fail(c, err)
			return
		}
		if limit > 0 && len(runs) > limit {
			runs = runs[:limit]
		}
		c.JSON(http.StatusOK, gin.H{"runs": runs})
		return
	}

	entries, err := s.catalog.List(c.Request.Context(), catalog.Filter{
		Name:  c.Query("name"),
		Final: c.Query("final"),
		Limit: limit,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": entries})
}

func (s *Server) getRun(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "run id must be a UUID"})
		return
	}
	out := RunResponse{}

	if s.catalog != nil {
		e, err := s.catalog.Get(c.Request.Context(), id)
		if err != nil {
			s.fail(c, err)
			return
		}
		out.Entry = e
	}

	meta, res, err := s.store.LoadResult(id)
	if err != nil {
		s.fail(c, err)
		return
	}
	out.Metadata, out.Result = meta, res
	c.JSON(http.StatusOK, out)
}

// fail maps an error to a status code and writes it.
func (s *Server) fail(c *gin.Context, err error) {
	var simErr *dynamo.SimulationError
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, storage.ErrRunNotFound):
		status = http.StatusNotFound
	case errors.Is(err, dynamo.ErrParameterBounds):
		status = http.StatusBadRequest
	case errors.Is(err, dynamo.ErrContextCanceled):
		status = http.StatusServiceUnavailable
	case errors.As(err, &simErr):
		status = http.StatusUnprocessableEntity
	}

	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
