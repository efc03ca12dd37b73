package pipeline

import (
	"math"
	"sort"

	"github.com/stitts-dev/epl-analytics/internal/models"
)

// AggregateResult holds every rollup computed from the per-match facts.
type AggregateResult struct {
	TeamPeriods  []models.TeamPeriodAggregate
	Progressions []models.PointsProgressionEntry
	LeagueTables []models.LeagueTableRow
	MonthlyGoals []models.MonthlyGoalsTrend
	Summary      Summary
}

// Summary is the league-wide overview block shown at the top of the
// dashboard.
type Summary struct {
	TotalMatches     int     `json:"total_matches"`
	TotalGoals       int     `json:"total_goals"`
	AvgGoalsPerMatch float64 `json:"avg_goals_per_match"`
	HomeWinPct       float64 `json:"home_win_pct"`
	AwayWinPct       float64 `json:"away_win_pct"`
	DrawPct          float64 `json:"draw_pct"`
	Teams            int     `json:"teams"`
	Seasons          int     `json:"seasons"`
}

const (
	pointsWin  = 3
	pointsDraw = 1
)

// teamMatchView is one match seen from one team's perspective.
type teamMatchView struct {
	match  models.MatchRecord
	isHome bool
}

func (v teamMatchView) goalsFor() int {
	if v.isHome {
		return v.match.HomeGoals
	}
	return v.match.AwayGoals
}

func (v teamMatchView) goalsAgainst() int {
	if v.isHome {
		return v.match.AwayGoals
	}
	return v.match.HomeGoals
}

func (v teamMatchView) points() int {
	diff := v.goalsFor() - v.goalsAgainst()
	switch {
	case diff > 0:
		return pointsWin
	case diff == 0:
		return pointsDraw
	default:
		return 0
	}
}

// Aggregate folds the cleaned match set into per-team period aggregates,
// cumulative points trajectories, season league tables, and the monthly
// scoring trend. Matches are ordered by date with the match ID as a stable
// tiebreak, so repeated runs produce identical orderings.
func Aggregate(matches []models.MatchRecord) *AggregateResult {
	sorted := make([]models.MatchRecord, len(matches))
	copy(sorted, matches)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].MatchDate.Equal(sorted[j].MatchDate) {
			return sorted[i].MatchDate.Before(sorted[j].MatchDate)
		}
		return sorted[i].ID < sorted[j].ID
	})

	// Group each team's matches per season, preserving chronological order
	type teamSeason struct{ team, season string }
	views := make(map[teamSeason][]teamMatchView)
	var keys []teamSeason
	for _, match := range sorted {
		for _, side := range []struct {
			team   string
			isHome bool
		}{
			{match.HomeTeam, true},
			{match.AwayTeam, false},
		} {
			key := teamSeason{side.team, match.Season}
			if _, exists := views[key]; !exists {
				keys = append(keys, key)
			}
			views[key] = append(views[key], teamMatchView{match: match, isHome: side.isHome})
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].season != keys[j].season {
			return keys[i].season < keys[j].season
		}
		return keys[i].team < keys[j].team
	})

	result := &AggregateResult{}
	for _, key := range keys {
		result.aggregateTeamSeason(key.team, key.season, views[key])
	}

	result.LeagueTables = buildLeagueTables(sorted)
	result.MonthlyGoals = buildMonthlyGoals(sorted)
	result.Summary = buildSummary(sorted)

	return result
}

func buildSummary(sorted []models.MatchRecord) Summary {
	summary := Summary{TotalMatches: len(sorted)}
	if len(sorted) == 0 {
		return summary
	}

	teams := make(map[string]bool)
	seasons := make(map[string]bool)
	homeWins, awayWins, draws := 0, 0, 0
	for _, match := range sorted {
		summary.TotalGoals += match.HomeGoals + match.AwayGoals
		teams[match.HomeTeam] = true
		teams[match.AwayTeam] = true
		seasons[match.Season] = true
		switch {
		case match.HomeGoals > match.AwayGoals:
			homeWins++
		case match.AwayGoals > match.HomeGoals:
			awayWins++
		default:
			draws++
		}
	}

	n := float64(len(sorted))
	summary.AvgGoalsPerMatch = round2(float64(summary.TotalGoals) / n)
	summary.HomeWinPct = round2(float64(homeWins) / n * 100)
	summary.AwayWinPct = round2(float64(awayWins) / n * 100)
	summary.DrawPct = round2(float64(draws) / n * 100)
	summary.Teams = len(teams)
	summary.Seasons = len(seasons)
	return summary
}

// aggregateTeamSeason walks one team's season chronologically, emitting the
// per-match progression and the monthly plus season aggregates.
func (r *AggregateResult) aggregateTeamSeason(team, season string, matches []teamMatchView) {
	type bucket struct {
		agg models.TeamPeriodAggregate
	}

	var monthOrder []string
	months := make(map[string]*bucket)

	seasonAgg := models.TeamPeriodAggregate{
		Team:       team,
		Season:     season,
		Period:     season,
		PeriodType: models.PeriodSeason,
	}

	cumulative := 0
	totalGoals := 0
	for i, view := range matches {
		points := view.points()
		cumulative += points

		r.Progressions = append(r.Progressions, models.PointsProgressionEntry{
			Team:             team,
			Season:           season,
			MatchID:          view.match.ID,
			MatchDate:        view.match.MatchDate,
			MatchIndex:       i + 1,
			Points:           points,
			CumulativePoints: cumulative,
		})

		period := view.match.MatchDate.Format("2006-01")
		b, exists := months[period]
		if !exists {
			b = &bucket{agg: models.TeamPeriodAggregate{
				Team:       team,
				Season:     season,
				Period:     period,
				PeriodType: models.PeriodMonth,
			}}
			months[period] = b
			monthOrder = append(monthOrder, period)
		}

		for _, agg := range []*models.TeamPeriodAggregate{&b.agg, &seasonAgg} {
			agg.Played++
			agg.GoalsFor += view.goalsFor()
			agg.GoalsAgainst += view.goalsAgainst()
			agg.Points += points
			switch points {
			case pointsWin:
				agg.Wins++
			case pointsDraw:
				agg.Draws++
			default:
				agg.Losses++
			}
		}
		// Cumulative points to the end of this period
		b.agg.CumulativePoints = cumulative
		totalGoals += view.match.HomeGoals + view.match.AwayGoals
	}

	seasonAgg.CumulativePoints = cumulative
	if seasonAgg.Played > 0 {
		seasonAgg.AvgTotalGoals = round2(float64(totalGoals) / float64(seasonAgg.Played))
	}

	for _, period := range monthOrder {
		agg := months[period].agg
		if agg.Played > 0 {
			goals := agg.GoalsFor + agg.GoalsAgainst
			agg.AvgTotalGoals = round2(float64(goals) / float64(agg.Played))
		}
		r.TeamPeriods = append(r.TeamPeriods, agg)
	}
	r.TeamPeriods = append(r.TeamPeriods, seasonAgg)
}

// buildLeagueTables computes the season standings, ordered by points then
// goal difference, with qualification zones matching the dashboard bands.
func buildLeagueTables(sorted []models.MatchRecord) []models.LeagueTableRow {
	type seasonTeam struct{ season, team string }
	rows := make(map[seasonTeam]*models.LeagueTableRow)
	seasonSet := make(map[string]bool)

	for _, match := range sorted {
		seasonSet[match.Season] = true
		for _, side := range []struct {
			team   string
			isHome bool
		}{
			{match.HomeTeam, true},
			{match.AwayTeam, false},
		} {
			key := seasonTeam{match.Season, side.team}
			row, exists := rows[key]
			if !exists {
				row = &models.LeagueTableRow{Season: match.Season, Team: side.team}
				rows[key] = row
			}

			view := teamMatchView{match: match, isHome: side.isHome}
			row.Played++
			row.GoalsFor += view.goalsFor()
			row.GoalsAgainst += view.goalsAgainst()
			points := view.points()
			row.Points += points
			switch points {
			case pointsWin:
				row.Wins++
			case pointsDraw:
				row.Draws++
			default:
				row.Losses++
			}
		}
	}

	var seasons []string
	for season := range seasonSet {
		seasons = append(seasons, season)
	}
	sort.Strings(seasons)

	var tables []models.LeagueTableRow
	for _, season := range seasons {
		var table []models.LeagueTableRow
		for key, row := range rows {
			if key.season != season {
				continue
			}
			row.GoalDifference = row.GoalsFor - row.GoalsAgainst
			if row.Played > 0 {
				row.PointsPerGame = round2(float64(row.Points) / float64(row.Played))
			}
			table = append(table, *row)
		}

		sort.Slice(table, func(i, j int) bool {
			if table[i].Points != table[j].Points {
				return table[i].Points > table[j].Points
			}
			if table[i].GoalDifference != table[j].GoalDifference {
				return table[i].GoalDifference > table[j].GoalDifference
			}
			if table[i].GoalsFor != table[j].GoalsFor {
				return table[i].GoalsFor > table[j].GoalsFor
			}
			return table[i].Team < table[j].Team
		})

		for i := range table {
			table[i].Position = i + 1
			table[i].Zone = tableZone(i+1, len(table))
		}
		tables = append(tables, table...)
	}

	return tables
}

func tableZone(position, teams int) models.TableZone {
	switch {
	case position <= 4:
		return models.ZoneChampionsLeague
	case position <= 6:
		return models.ZoneEuropaLeague
	case position >= teams-2:
		return models.ZoneRelegation
	default:
		return models.ZoneMidTable
	}
}

// buildMonthlyGoals computes the league-wide average total goals per
// calendar month within each season.
func buildMonthlyGoals(sorted []models.MatchRecord) []models.MonthlyGoalsTrend {
	type seasonPeriod struct{ season, period string }
	counts := make(map[seasonPeriod]int)
	goals := make(map[seasonPeriod]int)
	var order []seasonPeriod

	for _, match := range sorted {
		key := seasonPeriod{match.Season, match.MatchDate.Format("2006-01")}
		if _, exists := counts[key]; !exists {
			order = append(order, key)
		}
		counts[key]++
		goals[key] += match.HomeGoals + match.AwayGoals
	}

	trends := make([]models.MonthlyGoalsTrend, 0, len(order))
	for _, key := range order {
		trends = append(trends, models.MonthlyGoalsTrend{
			Season:        key.season,
			Period:        key.period,
			Matches:       counts[key],
			AvgTotalGoals: round2(float64(goals[key]) / float64(counts[key])),
		})
	}
	return trends
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
