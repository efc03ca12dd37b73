package services

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/epl-analytics/pkg/config"
	"github.com/stitts-dev/epl-analytics/pkg/logger"
)

// RefresherService re-runs the pipeline on a cron schedule so the served
// tables pick up new CSV drops without a restart.
type RefresherService struct {
	runner *RunnerService
	cron   *cron.Cron
	cfg    *config.Config
	log    *logrus.Logger
}

func NewRefresherService(cfg *config.Config, runner *RunnerService) *RefresherService {
	return &RefresherService{
		runner: runner,
		cron:   cron.New(),
		cfg:    cfg,
		log:    logger.GetLogger(),
	}
}

// Start registers the refresh job and starts the scheduler. It is a no-op
// when background refresh is disabled.
func (s *RefresherService) Start() error {
	if !s.cfg.EnableBackgroundRefresh {
		s.log.Info("Background refresh disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.cfg.DataRefreshSchedule, func() {
		if _, err := s.runner.Refresh(); err != nil {
			s.log.WithError(err).Error("Scheduled refresh failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule refresh job: %w", err)
	}

	s.cron.Start()
	s.log.WithField("schedule", s.cfg.DataRefreshSchedule).Info("Background refresh scheduler started")
	return nil
}

// Stop halts the scheduler, waiting for any in-flight job to finish.
func (s *RefresherService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
