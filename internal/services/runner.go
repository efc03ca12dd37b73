package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/epl-analytics/internal/analytics/cluster"
	"github.com/stitts-dev/epl-analytics/internal/analytics/regression"
	"github.com/stitts-dev/epl-analytics/internal/export"
	"github.com/stitts-dev/epl-analytics/internal/ingest"
	"github.com/stitts-dev/epl-analytics/internal/pipeline"
	"github.com/stitts-dev/epl-analytics/internal/store"
	"github.com/stitts-dev/epl-analytics/pkg/config"
	"github.com/stitts-dev/epl-analytics/pkg/logger"
)

const keepRuns = 5

// RunnerService drives full pipeline runs: read the data directory, execute
// the pipeline, persist the snapshot, and refresh the in-memory tables the
// API serves from. Only one run executes at a time.
type RunnerService struct {
	cfg   *config.Config
	store *store.Store
	cache *CacheService
	log   *logrus.Logger

	mu      sync.RWMutex
	running bool
	latest  *export.Tables
	lastErr error
	lastRun time.Time
}

func NewRunnerService(cfg *config.Config, st *store.Store, cache *CacheService) *RunnerService {
	return &RunnerService{
		cfg:   cfg,
		store: st,
		cache: cache,
		log:   logger.GetLogger(),
	}
}

// Options builds pipeline options from the service configuration.
func (s *RunnerService) Options() (pipeline.Options, error) {
	opts := pipeline.DefaultOptions()
	opts.XG = pipeline.XGConfig{
		ShotWeight:     s.cfg.XGShotWeight,
		TargetWeight:   s.cfg.XGTargetWeight,
		BaselineWeight: s.cfg.XGBaselineWeight,
	}
	opts.Cluster = cluster.Config{
		K:             s.cfg.ClusterCount,
		Seed:          s.cfg.ClusterSeed,
		MaxIterations: cluster.DefaultConfig().MaxIterations,
	}
	opts.Regression = regression.Config{MinSamples: s.cfg.RegressionMinSamples}

	if s.cfg.ColumnMapFile != "" {
		mapping, err := ingest.LoadColumnMapping(s.cfg.ColumnMapFile)
		if err != nil {
			return opts, fmt.Errorf("failed to load column mapping: %w", err)
		}
		opts.Mapping = mapping
	}

	return opts, nil
}

// Refresh runs the pipeline over the configured data directory and persists
// the result. Concurrent calls beyond the first return an error instead of
// queueing.
func (s *RunnerService) Refresh() (*export.Tables, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, fmt.Errorf("refresh already in progress")
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	tables, err := s.runOnce()

	s.mu.Lock()
	s.lastErr = err
	s.lastRun = time.Now()
	if err == nil {
		s.latest = tables
	}
	s.mu.Unlock()

	return tables, err
}

func (s *RunnerService) runOnce() (*export.Tables, error) {
	start := time.Now()
	s.log.WithField("data_dir", s.cfg.DataDir).Info("Starting pipeline refresh")

	opts, err := s.Options()
	if err != nil {
		return nil, err
	}

	raw, err := ingest.ReadDataDir(s.cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	result, err := pipeline.Run(raw, opts)
	if err != nil {
		return nil, err
	}

	if err := s.store.SaveRun(result); err != nil {
		return nil, fmt.Errorf("failed to persist run %s: %w", result.RunID, err)
	}
	if err := s.store.PruneOldRuns(keepRuns); err != nil {
		s.log.WithError(err).Warn("Failed to prune old runs")
	}

	if err := s.cache.Flush(); err != nil {
		s.log.WithError(err).Warn("Failed to flush cache after refresh")
	}

	tables := export.Build(result)
	s.primeCache(tables)

	s.log.WithFields(logrus.Fields{
		"run_id":   result.RunID,
		"matches":  len(result.Matches),
		"duration": time.Since(start).String(),
	}).Info("Pipeline refresh completed")

	return tables, nil
}

// primeCache seeds the hot read paths so the first dashboard load after a
// refresh does not pay the marshal cost.
func (s *RunnerService) primeCache(tables *export.Tables) {
	if !s.cache.Enabled() {
		return
	}

	ctx := context.Background()
	ttl := time.Duration(s.cfg.CacheTTLSeconds) * time.Second

	if err := s.cache.Set(ctx, SummaryCacheKey(tables.RunID), tables.Summary, ttl); err != nil {
		s.log.WithError(err).Warn("Failed to prime summary cache")
	}
	if err := s.cache.Set(ctx, TableCacheKey(tables.RunID, "league_tables"), tables.LeagueTables, ttl); err != nil {
		s.log.WithError(err).Warn("Failed to prime league table cache")
	}
}

// Latest returns the most recent successful snapshot, or nil if no run has
// completed yet.
func (s *RunnerService) Latest() *export.Tables {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Status describes the runner for the health endpoint.
type Status struct {
	Running   bool      `json:"running"`
	LastRun   time.Time `json:"last_run"`
	LastError string    `json:"last_error,omitempty"`
	RunID     string    `json:"run_id,omitempty"`
	Matches   int       `json:"matches"`
}

func (s *RunnerService) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := Status{
		Running: s.running,
		LastRun: s.lastRun,
	}
	if s.lastErr != nil {
		status.LastError = s.lastErr.Error()
	}
	if s.latest != nil {
		status.RunID = s.latest.RunID
		status.Matches = len(s.latest.Matches)
	}
	return status
}
