package analytics

import (
	"fmt"
	"math"

	"github.com/stitts-dev/epl-analytics/internal/models"
	"github.com/stitts-dev/epl-analytics/pkg/utils"
)

// Prediction is a strength-based outcome estimate for a hypothetical
// fixture, derived from each side's historical home/away form.
type Prediction struct {
	HomeTeam      string  `json:"home_team"`
	AwayTeam      string  `json:"away_team"`
	Outcome       string  `json:"outcome"` // "home_win", "away_win", "draw"
	Confidence    float64 `json:"confidence"`
	ExpectedGoals float64 `json:"expected_goals"`
	HomeMatches   int     `json:"home_matches"`
	AwayMatches   int     `json:"away_matches"`
}

// Prediction outcomes.
const (
	OutcomeHomeWin = "home_win"
	OutcomeAwayWin = "away_win"
	OutcomeDraw    = "draw"
)

// strengthMargin is the net-strength gap below which the pick is a draw.
const strengthMargin = 0.5

// PredictOutcome estimates the result of homeTeam hosting awayTeam from the
// supplied match history: the home side's record at home against the away
// side's record on the road.
func PredictOutcome(matches []models.MatchRecord, homeTeam, awayTeam string) (*Prediction, error) {
	var homeScored, homeConceded float64
	var awayScored, awayConceded float64
	homeCount, awayCount := 0, 0

	for _, match := range matches {
		if match.HomeTeam == homeTeam {
			homeScored += float64(match.HomeGoals)
			homeConceded += float64(match.AwayGoals)
			homeCount++
		}
		if match.AwayTeam == awayTeam {
			awayScored += float64(match.AwayGoals)
			awayConceded += float64(match.HomeGoals)
			awayCount++
		}
	}

	if homeCount == 0 || awayCount == 0 {
		return nil, utils.NewInsufficientDataError(
			fmt.Sprintf("not enough history for %s (home) vs %s (away)", homeTeam, awayTeam))
	}

	homeScored /= float64(homeCount)
	homeConceded /= float64(homeCount)
	awayScored /= float64(awayCount)
	awayConceded /= float64(awayCount)

	homeStrength := homeScored - homeConceded
	awayStrength := awayScored - awayConceded
	gap := math.Abs(homeStrength - awayStrength)

	prediction := &Prediction{
		HomeTeam:      homeTeam,
		AwayTeam:      awayTeam,
		ExpectedGoals: math.Max(0, (homeScored+awayScored)/2),
		HomeMatches:   homeCount,
		AwayMatches:   awayCount,
	}

	switch {
	case homeStrength > awayStrength+strengthMargin:
		prediction.Outcome = OutcomeHomeWin
		prediction.Confidence = math.Min(95, 60+gap*10)
	case awayStrength > homeStrength+strengthMargin:
		prediction.Outcome = OutcomeAwayWin
		prediction.Confidence = math.Min(95, 60+gap*10)
	default:
		prediction.Outcome = OutcomeDraw
		prediction.Confidence = 50
	}

	return prediction, nil
}
