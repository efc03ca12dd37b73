package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/epl-analytics/internal/models"
)

func matchOn(date time.Time, home, away string, homeGoals, awayGoals int) models.MatchRecord {
	return models.MatchRecord{
		ID:        models.MatchID(date, home, away),
		Season:    "2015/16",
		MatchDate: date,
		HomeTeam:  home,
		AwayTeam:  away,
		HomeGoals: homeGoals,
		AwayGoals: awayGoals,
	}
}

func teamProgression(result *AggregateResult, team string) []int {
	var points []int
	for _, entry := range result.Progressions {
		if entry.Team == team {
			points = append(points, entry.CumulativePoints)
		}
	}
	return points
}

func TestAggregateCumulativePointsTrajectory(t *testing.T) {
	start := time.Date(2015, 8, 8, 0, 0, 0, 0, time.UTC)
	// Arsenal: win, loss, draw, draw
	matches := []models.MatchRecord{
		matchOn(start, "Arsenal", "West Ham", 2, 0),
		matchOn(start.AddDate(0, 0, 7), "Chelsea", "Arsenal", 1, 0),
		matchOn(start.AddDate(0, 0, 14), "Arsenal", "Liverpool", 0, 0),
		matchOn(start.AddDate(0, 0, 21), "Everton", "Arsenal", 1, 1),
	}

	result := Aggregate(matches)

	assert.Equal(t, []int{3, 3, 4, 4}, teamProgression(result, "Arsenal"))
}

func TestAggregateCumulativePointsNeverDecrease(t *testing.T) {
	start := time.Date(2015, 8, 8, 0, 0, 0, 0, time.UTC)
	matches := []models.MatchRecord{
		matchOn(start, "Arsenal", "West Ham", 0, 2),
		matchOn(start.AddDate(0, 0, 7), "West Ham", "Chelsea", 1, 2),
		matchOn(start.AddDate(0, 0, 14), "Chelsea", "Arsenal", 2, 2),
		matchOn(start.AddDate(0, 0, 21), "Arsenal", "Chelsea", 3, 0),
	}

	result := Aggregate(matches)

	byTeam := make(map[string][]models.PointsProgressionEntry)
	for _, entry := range result.Progressions {
		byTeam[entry.Team] = append(byTeam[entry.Team], entry)
	}

	for team, entries := range byTeam {
		last := 0
		for i, entry := range entries {
			assert.Equal(t, i+1, entry.MatchIndex, team)
			assert.GreaterOrEqual(t, entry.CumulativePoints, last, team)
			last = entry.CumulativePoints
		}
	}
}

func TestAggregateOrdersMatchesByDateWithIDTiebreak(t *testing.T) {
	start := time.Date(2015, 8, 8, 0, 0, 0, 0, time.UTC)
	// Passed out of order; aggregation must sort
	matches := []models.MatchRecord{
		matchOn(start.AddDate(0, 0, 7), "Chelsea", "Arsenal", 1, 0),
		matchOn(start, "Arsenal", "West Ham", 2, 0),
	}

	result := Aggregate(matches)

	progression := teamProgression(result, "Arsenal")
	assert.Equal(t, []int{3, 3}, progression)
}

func TestAggregateMonthlyAndSeasonPeriods(t *testing.T) {
	aug := time.Date(2015, 8, 8, 0, 0, 0, 0, time.UTC)
	sep := time.Date(2015, 9, 12, 0, 0, 0, 0, time.UTC)
	matches := []models.MatchRecord{
		matchOn(aug, "Arsenal", "West Ham", 2, 0),
		matchOn(sep, "Watford", "Arsenal", 0, 1),
	}

	result := Aggregate(matches)

	var months, seasons []models.TeamPeriodAggregate
	for _, agg := range result.TeamPeriods {
		if agg.Team != "Arsenal" {
			continue
		}
		switch agg.PeriodType {
		case models.PeriodMonth:
			months = append(months, agg)
		case models.PeriodSeason:
			seasons = append(seasons, agg)
		}
	}

	require.Len(t, months, 2)
	assert.Equal(t, "2015-08", months[0].Period)
	assert.Equal(t, 3, months[0].CumulativePoints)
	assert.Equal(t, "2015-09", months[1].Period)
	assert.Equal(t, 6, months[1].CumulativePoints)

	require.Len(t, seasons, 1)
	assert.Equal(t, 2, seasons[0].Played)
	assert.Equal(t, 6, seasons[0].Points)
	assert.Equal(t, 3, seasons[0].GoalsFor)
	assert.Equal(t, 0, seasons[0].GoalsAgainst)
}

func TestLeagueTableOrderingAndZones(t *testing.T) {
	start := time.Date(2015, 8, 8, 0, 0, 0, 0, time.UTC)
	teams := []string{"Arsenal", "Bournemouth", "Chelsea", "Derby", "Everton", "Fulham", "Grimsby", "Hull"}

	// Round-robin-ish schedule where earlier alphabet teams win big
	var matches []models.MatchRecord
	day := 0
	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			matches = append(matches, matchOn(start.AddDate(0, 0, day), teams[i], teams[j], len(teams)-i, 0))
			day++
		}
	}

	result := Aggregate(matches)
	table := result.LeagueTables
	require.Len(t, table, len(teams))

	for i, row := range table {
		assert.Equal(t, i+1, row.Position)
		if i > 0 {
			prev := table[i-1]
			better := prev.Points > row.Points ||
				(prev.Points == row.Points && prev.GoalDifference >= row.GoalDifference)
			assert.True(t, better, "table out of order at position %d", i+1)
		}
	}

	assert.Equal(t, models.ZoneChampionsLeague, table[0].Zone)
	assert.Equal(t, models.ZoneChampionsLeague, table[3].Zone)
	assert.Equal(t, models.ZoneEuropaLeague, table[4].Zone)
	assert.Equal(t, models.ZoneEuropaLeague, table[5].Zone)
	assert.Equal(t, models.ZoneRelegation, table[6].Zone)
	assert.Equal(t, models.ZoneRelegation, table[7].Zone)
}

func TestBuildMonthlyGoalsTrend(t *testing.T) {
	aug := time.Date(2015, 8, 8, 0, 0, 0, 0, time.UTC)
	sep := time.Date(2015, 9, 12, 0, 0, 0, 0, time.UTC)
	matches := []models.MatchRecord{
		matchOn(aug, "Arsenal", "West Ham", 2, 1),
		matchOn(aug.AddDate(0, 0, 1), "Everton", "Watford", 0, 1),
		matchOn(sep, "Chelsea", "Arsenal", 3, 3),
	}

	result := Aggregate(matches)
	require.Len(t, result.MonthlyGoals, 2)

	assert.Equal(t, "2015-08", result.MonthlyGoals[0].Period)
	assert.Equal(t, 2, result.MonthlyGoals[0].Matches)
	assert.InDelta(t, 2.0, result.MonthlyGoals[0].AvgTotalGoals, 1e-9)

	assert.Equal(t, "2015-09", result.MonthlyGoals[1].Period)
	assert.InDelta(t, 6.0, result.MonthlyGoals[1].AvgTotalGoals, 1e-9)
}

func TestBuildSummary(t *testing.T) {
	start := time.Date(2015, 8, 8, 0, 0, 0, 0, time.UTC)
	matches := []models.MatchRecord{
		matchOn(start, "Arsenal", "West Ham", 2, 0),
		matchOn(start.AddDate(0, 0, 1), "Everton", "Watford", 1, 1),
		matchOn(start.AddDate(0, 0, 2), "Chelsea", "Leicester", 0, 1),
		matchOn(start.AddDate(0, 0, 3), "Arsenal", "Chelsea", 3, 1),
	}

	summary := Aggregate(matches).Summary

	assert.Equal(t, 4, summary.TotalMatches)
	assert.Equal(t, 9, summary.TotalGoals)
	assert.InDelta(t, 2.25, summary.AvgGoalsPerMatch, 1e-9)
	assert.InDelta(t, 50.0, summary.HomeWinPct, 1e-9)
	assert.InDelta(t, 25.0, summary.AwayWinPct, 1e-9)
	assert.InDelta(t, 25.0, summary.DrawPct, 1e-9)
	assert.Equal(t, 7, summary.Teams)
	assert.Equal(t, 1, summary.Seasons)
}

func TestAggregateEmptyInput(t *testing.T) {
	result := Aggregate(nil)

	assert.Empty(t, result.TeamPeriods)
	assert.Empty(t, result.Progressions)
	assert.Empty(t, result.LeagueTables)
	assert.Equal(t, 0, result.Summary.TotalMatches)
}
