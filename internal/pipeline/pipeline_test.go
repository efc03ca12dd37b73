package pipeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/epl-analytics/internal/ingest"
	"github.com/stitts-dev/epl-analytics/internal/models"
	"github.com/stitts-dev/epl-analytics/pkg/utils"
)

// seasonTable builds a small but complete season: six teams, everyone plays
// everyone once, home side i hosting j scores (i+j)%4 against j%3.
func seasonTable() *ingest.RawTable {
	teams := []string{"Arsenal", "Chelsea", "Everton", "Leicester", "Stoke", "Watford"}

	table := &ingest.RawTable{
		Source: "2015-16.csv",
		Header: []string{"Date", "HomeTeam", "AwayTeam", "FTHG", "FTAG", "HS", "HST"},
	}
	day := 0
	for i, home := range teams {
		for j, away := range teams {
			if i == j {
				continue
			}
			date := fmt.Sprintf("2015-08-%02d", 1+day%28)
			if day >= 28 {
				date = fmt.Sprintf("2015-09-%02d", 1+day-28)
			}
			table.Rows = append(table.Rows, []string{
				date, home, away,
				fmt.Sprintf("%d", (i+j)%4), fmt.Sprintf("%d", j%3),
				"12", "5",
			})
			day++
		}
	}
	return table
}

func TestRunProducesCompleteSnapshot(t *testing.T) {
	result, err := Run([]*ingest.RawTable{seasonTable()}, DefaultOptions())
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "2015-16.csv", result.Source)
	assert.Len(t, result.Matches, 30)
	assert.Len(t, result.Derived, 30)
	assert.NotEmpty(t, result.TeamPeriods)
	assert.NotEmpty(t, result.Progressions)
	assert.Len(t, result.LeagueTables, 6)
	assert.NotEmpty(t, result.MonthlyGoals)
	assert.Len(t, result.Clusters, 6)
	assert.NotEmpty(t, result.Regressions)
	assert.Equal(t, 30, result.Summary.TotalMatches)
	assert.Equal(t, 30, result.Quality.RowsRead)
	assert.Equal(t, 0, result.Quality.RowsRejected)
}

func TestRunStampsRunIDOnEveryRow(t *testing.T) {
	result, err := Run([]*ingest.RawTable{seasonTable()}, DefaultOptions())
	require.NoError(t, err)

	for _, m := range result.Matches {
		assert.Equal(t, result.RunID, m.RunID)
	}
	for _, d := range result.Derived {
		assert.Equal(t, result.RunID, d.RunID)
	}
	for _, a := range result.TeamPeriods {
		assert.Equal(t, result.RunID, a.RunID)
	}
	for _, c := range result.Clusters {
		assert.Equal(t, result.RunID, c.RunID)
	}
	for _, r := range result.Regressions {
		assert.Equal(t, result.RunID, r.RunID)
	}
	assert.Equal(t, result.RunID, result.Quality.RunID)
}

func TestRunDeterministicApartFromRunID(t *testing.T) {
	first, err := Run([]*ingest.RawTable{seasonTable()}, DefaultOptions())
	require.NoError(t, err)
	second, err := Run([]*ingest.RawTable{seasonTable()}, DefaultOptions())
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)

	// Strip run IDs, then everything must agree
	for i := range first.Clusters {
		first.Clusters[i].RunID = ""
		second.Clusters[i].RunID = ""
	}
	assert.Equal(t, first.Clusters, second.Clusters)

	require.Len(t, second.LeagueTables, len(first.LeagueTables))
	for i := range first.LeagueTables {
		first.LeagueTables[i].RunID = ""
		second.LeagueTables[i].RunID = ""
	}
	assert.Equal(t, first.LeagueTables, second.LeagueTables)
}

func TestRunFitsPairwiseMetricCorrelations(t *testing.T) {
	result, err := Run([]*ingest.RawTable{seasonTable()}, DefaultOptions())
	require.NoError(t, err)

	byName := make(map[string]models.RegressionResult, len(result.Regressions))
	for _, r := range result.Regressions {
		byName[r.Name] = r
	}
	// No pair fitted twice
	assert.Len(t, byName, len(result.Regressions))

	crossGoals, ok := byName["home_goals_vs_away_goals"]
	require.True(t, ok)
	assert.Equal(t, 30, crossGoals.SampleSize)
	assert.False(t, crossGoals.Insufficient)

	xgCross, ok := byName["home_xg_vs_away_xg"]
	require.True(t, ok)
	assert.Equal(t, 30, xgCross.SampleSize)

	// The fixture carries no half-time columns; the pair is reported as
	// insufficient rather than dropped
	htCross, ok := byName["half_time_home_goals_vs_half_time_away_goals"]
	require.True(t, ok)
	assert.True(t, htCross.Insufficient)
	assert.Equal(t, 0, htCross.SampleSize)
}

func TestRunMissingRequiredColumnAborts(t *testing.T) {
	table := &ingest.RawTable{
		Source: "broken.csv",
		Header: []string{"Date", "HomeTeam", "FTHG", "FTAG"},
		Rows:   [][]string{{"2015-08-08", "Arsenal", "2", "0"}},
	}

	_, err := Run([]*ingest.RawTable{table}, DefaultOptions())
	require.Error(t, err)

	appErr, ok := err.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, utils.ErrCodeSchema, appErr.Code)
}

func TestRunBadRowsAbsorbedIntoQualityReport(t *testing.T) {
	table := seasonTable()
	table.Rows = append(table.Rows,
		[]string{"garbage-date", "Hull", "Derby", "1", "0", "", ""},
		[]string{"2015-08-08", "Hull", "Derby", "x", "0", "", ""},
	)

	result, err := Run([]*ingest.RawTable{table}, DefaultOptions())
	require.NoError(t, err)

	assert.Len(t, result.Matches, 30)
	assert.Equal(t, 32, result.Quality.RowsRead)
	assert.Equal(t, 2, result.Quality.RowsRejected)
}

func TestRunTooFewTeamsForClusteringIsNoticeNotFailure(t *testing.T) {
	table := &ingest.RawTable{
		Source: "tiny.csv",
		Header: []string{"Date", "HomeTeam", "AwayTeam", "FTHG", "FTAG"},
		Rows: [][]string{
			{"2015-08-08", "Arsenal", "West Ham", "2", "0"},
			{"2015-08-15", "West Ham", "Arsenal", "1", "1"},
		},
	}

	opts := DefaultOptions()
	opts.Cluster.K = 5

	result, err := Run([]*ingest.RawTable{table}, opts)
	require.NoError(t, err)

	assert.Empty(t, result.Clusters)
	assert.NotEmpty(t, result.Notices)
	assert.Len(t, result.Matches, 2)
}

func TestRunRejectsInvalidConfiguration(t *testing.T) {
	opts := DefaultOptions()
	opts.Cluster.K = 0
	_, err := Run([]*ingest.RawTable{seasonTable()}, opts)
	require.Error(t, err)

	opts = DefaultOptions()
	opts.Regression.MinSamples = 1
	_, err = Run([]*ingest.RawTable{seasonTable()}, opts)
	require.Error(t, err)
}
