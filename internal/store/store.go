package store

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/stitts-dev/epl-analytics/internal/models"
	"github.com/stitts-dev/epl-analytics/internal/pipeline"
	"github.com/stitts-dev/epl-analytics/pkg/database"
	"github.com/stitts-dev/epl-analytics/pkg/logger"
)

// Store persists pipeline snapshots. Each run writes a fresh set of rows
// keyed by run ID; readers always see a complete, immutable snapshot.
type Store struct {
	db  *database.DB
	log *logrus.Logger
}

// NewStore creates a snapshot store over the given connection.
func NewStore(db *database.DB) *Store {
	return &Store{db: db, log: logger.GetLogger()}
}

// Migrate creates or updates the snapshot tables.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(
		&models.PipelineSnapshot{},
		&models.MatchRecord{},
		&models.DerivedMatchMetrics{},
		&models.TeamPeriodAggregate{},
		&models.PointsProgressionEntry{},
		&models.LeagueTableRow{},
		&models.MonthlyGoalsTrend{},
		&models.ClusterAssignment{},
		&models.RegressionResult{},
		&models.DataQualityReport{},
	)
}

// SaveRun writes one pipeline result as a new snapshot, atomically.
func (s *Store) SaveRun(result *pipeline.Result) error {
	teams := make(map[string]bool)
	for _, match := range result.Matches {
		teams[match.HomeTeam] = true
		teams[match.AwayTeam] = true
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		snapshot := models.PipelineSnapshot{
			RunID:      result.RunID,
			Source:     result.Source,
			MatchCount: len(result.Matches),
			TeamCount:  len(teams),
			CreatedAt:  time.Now().UTC(),
		}
		if err := tx.Create(&snapshot).Error; err != nil {
			return err
		}

		if err := createInBatches(tx, result.Matches); err != nil {
			return err
		}
		if err := createInBatches(tx, result.Derived); err != nil {
			return err
		}
		if err := createInBatches(tx, result.TeamPeriods); err != nil {
			return err
		}
		if err := createInBatches(tx, result.Progressions); err != nil {
			return err
		}
		if err := createInBatches(tx, result.LeagueTables); err != nil {
			return err
		}
		if err := createInBatches(tx, result.MonthlyGoals); err != nil {
			return err
		}
		if err := createInBatches(tx, result.Clusters); err != nil {
			return err
		}
		if err := createInBatches(tx, result.Regressions); err != nil {
			return err
		}

		quality := result.Quality
		return tx.Create(&quality).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save pipeline run %s: %w", result.RunID, err)
	}

	s.log.WithFields(logrus.Fields{
		"run_id":  result.RunID,
		"matches": len(result.Matches),
	}).Info("Pipeline snapshot saved")

	return nil
}

func createInBatches[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.CreateInBatches(rows, 500).Error
}

// LatestRunID returns the run ID of the most recent snapshot.
func (s *Store) LatestRunID() (string, error) {
	var snapshot models.PipelineSnapshot
	err := s.db.Order("created_at DESC").First(&snapshot).Error
	if err != nil {
		return "", err
	}
	return snapshot.RunID, nil
}

// PruneOldRuns deletes all but the most recent keep snapshots.
func (s *Store) PruneOldRuns(keep int) error {
	if keep < 1 {
		keep = 1
	}

	var stale []models.PipelineSnapshot
	if err := s.db.Order("created_at DESC").Offset(keep).Find(&stale).Error; err != nil {
		return err
	}
	if len(stale) == 0 {
		return nil
	}

	runIDs := make([]string, len(stale))
	for i, snapshot := range stale {
		runIDs[i] = snapshot.RunID
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.MatchRecord{},
			&models.DerivedMatchMetrics{},
			&models.TeamPeriodAggregate{},
			&models.PointsProgressionEntry{},
			&models.LeagueTableRow{},
			&models.MonthlyGoalsTrend{},
			&models.ClusterAssignment{},
			&models.RegressionResult{},
			&models.DataQualityReport{},
		} {
			if err := tx.Where("run_id IN ?", runIDs).Delete(model).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("run_id IN ?", runIDs).Delete(&models.PipelineSnapshot{}).Error; err != nil {
			return err
		}
		s.log.WithField("pruned_runs", len(runIDs)).Info("Old pipeline snapshots pruned")
		return nil
	})
}
