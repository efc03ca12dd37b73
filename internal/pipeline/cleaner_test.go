package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/epl-analytics/internal/ingest"
)

func validRow(date time.Time, home, away string, homeGoals, awayGoals int) ingest.NormalizedRow {
	return ingest.NormalizedRow{
		Season:    ingest.SeasonForDate(date),
		MatchDate: date,
		HomeTeam:  home,
		AwayTeam:  away,
		HomeGoals: homeGoals,
		AwayGoals: awayGoals,
		Valid:     true,
	}
}

func TestCleanCountsRejectionsByReason(t *testing.T) {
	date := time.Date(2015, 8, 8, 0, 0, 0, 0, time.UTC)
	rows := []ingest.NormalizedRow{
		validRow(date, "Arsenal", "West Ham", 0, 2),
		{Valid: false, RejectReason: ingest.ReasonBadDate},
		{Valid: false, RejectReason: ingest.ReasonBadDate},
		{Valid: false, RejectReason: ingest.ReasonNonNumericGoals},
	}

	result := NewCleaner().Clean(rows)

	assert.Equal(t, 4, result.RowsRead)
	assert.Equal(t, 3, result.RowsRejected)
	assert.Equal(t, 2, result.RejectionReasons[ingest.ReasonBadDate])
	assert.Equal(t, 1, result.RejectionReasons[ingest.ReasonNonNumericGoals])
	require.Len(t, result.Matches, 1)
}

func TestCleanCollapsesExactDuplicates(t *testing.T) {
	date := time.Date(2015, 8, 8, 0, 0, 0, 0, time.UTC)
	rows := []ingest.NormalizedRow{
		validRow(date, "Arsenal", "West Ham", 0, 2),
		validRow(date, "Arsenal", "West Ham", 0, 2),
		validRow(date, "Everton", "Watford", 2, 2),
	}

	result := NewCleaner().Clean(rows)

	assert.Equal(t, 1, result.DuplicatesCollapsed)
	assert.Equal(t, 1, result.RejectionReasons[ingest.ReasonDuplicate])
	assert.Len(t, result.Matches, 2)
}

func TestCleanImputesMissingStatsWithSeasonMedian(t *testing.T) {
	date := time.Date(2015, 8, 8, 0, 0, 0, 0, time.UTC)
	shots := func(n int) *int { return &n }

	rowA := validRow(date, "Arsenal", "West Ham", 0, 2)
	rowA.HomeShots = shots(10)
	rowB := validRow(date.AddDate(0, 0, 1), "Everton", "Watford", 2, 2)
	rowB.HomeShots = shots(20)
	rowC := validRow(date.AddDate(0, 0, 2), "Leicester", "Sunderland", 4, 2)
	// rowC.HomeShots missing, median of {10, 20} is 15

	result := NewCleaner().Clean([]ingest.NormalizedRow{rowA, rowB, rowC})

	require.Len(t, result.Matches, 3)
	var leicester *int
	for _, match := range result.Matches {
		if match.HomeTeam == "Leicester" {
			leicester = match.HomeShots
		}
	}
	require.NotNil(t, leicester)
	assert.Equal(t, 15, *leicester)
	assert.Greater(t, result.ValuesImputed, 0)
}

func TestCleanLeavesStatUnsetWhenSeasonHasNoValues(t *testing.T) {
	date := time.Date(2015, 8, 8, 0, 0, 0, 0, time.UTC)
	rows := []ingest.NormalizedRow{
		validRow(date, "Arsenal", "West Ham", 0, 2),
		validRow(date.AddDate(0, 0, 1), "Everton", "Watford", 2, 2),
	}

	result := NewCleaner().Clean(rows)

	for _, match := range result.Matches {
		assert.Nil(t, match.HomeShots)
		assert.Nil(t, match.HomePossession)
	}
	assert.Equal(t, 0, result.ValuesImputed)
}

func TestCleanBuildsStableMatchIDs(t *testing.T) {
	date := time.Date(2015, 8, 8, 0, 0, 0, 0, time.UTC)
	result := NewCleaner().Clean([]ingest.NormalizedRow{
		validRow(date, "Arsenal", "West Ham", 0, 2),
	})

	require.Len(t, result.Matches, 1)
	assert.Equal(t, "2015-08-08:Arsenal:West Ham", result.Matches[0].ID)
	assert.Equal(t, "2015/16", result.Matches[0].Season)
}
