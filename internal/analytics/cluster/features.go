package cluster

import (
	"sort"

	"github.com/stitts-dev/epl-analytics/internal/models"
)

// BuildTeamFeatures computes each team's scoring-pattern feature vector for
// one season: average goals scored, average goals conceded, and per-match
// scoring variance. The vector layout matches FeatureNames.
func BuildTeamFeatures(matches []models.MatchRecord, season string) []TeamFeatures {
	scored := make(map[string][]float64)
	conceded := make(map[string][]float64)

	for _, match := range matches {
		if match.Season != season {
			continue
		}
		scored[match.HomeTeam] = append(scored[match.HomeTeam], float64(match.HomeGoals))
		conceded[match.HomeTeam] = append(conceded[match.HomeTeam], float64(match.AwayGoals))
		scored[match.AwayTeam] = append(scored[match.AwayTeam], float64(match.AwayGoals))
		conceded[match.AwayTeam] = append(conceded[match.AwayTeam], float64(match.HomeGoals))
	}

	teams := make([]string, 0, len(scored))
	for team := range scored {
		teams = append(teams, team)
	}
	sort.Strings(teams)

	features := make([]TeamFeatures, 0, len(teams))
	for _, team := range teams {
		features = append(features, TeamFeatures{
			Team:   team,
			Season: season,
			Values: []float64{
				mean(scored[team]),
				mean(conceded[team]),
				variance(scored[team]),
			},
		})
	}
	return features
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func variance(values []float64) float64 {
	if len(values) <= 1 {
		return 0
	}
	m := mean(values)
	sumSquares := 0.0
	for _, v := range values {
		sumSquares += (v - m) * (v - m)
	}
	return sumSquares / float64(len(values)-1)
}
