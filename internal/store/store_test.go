package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stitts-dev/epl-analytics/internal/models"
	"github.com/stitts-dev/epl-analytics/internal/pipeline"
	"github.com/stitts-dev/epl-analytics/pkg/database"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	st := NewStore(&database.DB{DB: gormDB})
	require.NoError(t, st.Migrate())
	return st
}

// sampleResult builds a minimal one-match result for the given run. Every
// run over the same dataset produces identical match identities, which is
// exactly what repeated refreshes do.
func sampleResult(runID string) *pipeline.Result {
	date := time.Date(2015, 8, 8, 0, 0, 0, 0, time.UTC)
	matchID := models.MatchID(date, "Arsenal", "West Ham")

	return &pipeline.Result{
		RunID:  runID,
		Source: "2015-16.csv",
		Matches: []models.MatchRecord{{
			RunID:     runID,
			ID:        matchID,
			Season:    "2015/16",
			MatchDate: date,
			HomeTeam:  "Arsenal",
			AwayTeam:  "West Ham",
			HomeGoals: 0,
			AwayGoals: 2,
		}},
		Derived: []models.DerivedMatchMetrics{{
			RunID:      runID,
			MatchID:    matchID,
			TotalGoals: 2,
			Result:     models.ResultAwayWin,
		}},
		Quality: models.DataQualityReport{
			RunID:        runID,
			RowsRead:     1,
			RowsAccepted: 1,
		},
	}
}

func TestSaveRunTwiceOverSameDataset(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.SaveRun(sampleResult("run-1")))
	require.NoError(t, st.SaveRun(sampleResult("run-2")))

	var matches int64
	require.NoError(t, st.db.Model(&models.MatchRecord{}).Count(&matches).Error)
	assert.Equal(t, int64(2), matches)

	var derived int64
	require.NoError(t, st.db.Model(&models.DerivedMatchMetrics{}).Count(&derived).Error)
	assert.Equal(t, int64(2), derived)

	var snapshots int64
	require.NoError(t, st.db.Model(&models.PipelineSnapshot{}).Count(&snapshots).Error)
	assert.Equal(t, int64(2), snapshots)
}

func TestPruneOldRunsKeepsMostRecent(t *testing.T) {
	st := newTestStore(t)

	for _, runID := range []string{"run-1", "run-2", "run-3"} {
		require.NoError(t, st.SaveRun(sampleResult(runID)))
		// Snapshot ordering is by creation time
		time.Sleep(5 * time.Millisecond)
	}

	require.NoError(t, st.PruneOldRuns(1))

	latest, err := st.LatestRunID()
	require.NoError(t, err)
	assert.Equal(t, "run-3", latest)

	var snapshots int64
	require.NoError(t, st.db.Model(&models.PipelineSnapshot{}).Count(&snapshots).Error)
	assert.Equal(t, int64(1), snapshots)

	var matches []models.MatchRecord
	require.NoError(t, st.db.Find(&matches).Error)
	require.Len(t, matches, 1)
	assert.Equal(t, "run-3", matches[0].RunID)
}
