package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/epl-analytics/internal/models"
)

func match(home, away string, homeGoals, awayGoals int) models.MatchRecord {
	date := time.Date(2015, 8, 8, 0, 0, 0, 0, time.UTC)
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

func TestDeriveTotalsAndResults(t *testing.T) {
	matches := []models.MatchRecord{
		match("Arsenal", "West Ham", 0, 2),
		match("Everton", "Watford", 2, 2),
		match("Leicester", "Sunderland", 4, 2),
	}

	derived := NewFeatureDeriver(DefaultXGConfig()).Derive(matches)
	require.Len(t, derived, 3)

	assert.Equal(t, 2, derived[0].TotalGoals)
	assert.Equal(t, models.ResultAwayWin, derived[0].Result)
	assert.Equal(t, models.ResultDraw, derived[1].Result)
	assert.Equal(t, models.ResultHomeWin, derived[2].Result)

	for _, d := range derived {
		assert.True(t, d.XGApproximate)
	}
}

func TestSyntheticXGUsesShotProxyWhenAvailable(t *testing.T) {
	shots, onTarget := 20, 10
	m := match("Arsenal", "West Ham", 1, 0)
	m.HomeShots = &shots
	m.HomeShotsOnTarget = &onTarget

	derived := NewFeatureDeriver(DefaultXGConfig()).Derive([]models.MatchRecord{m})
	require.Len(t, derived, 1)

	// 0.09*20 + 0.2*10
	assert.InDelta(t, 3.8, derived[0].HomeXG, 1e-9)
}

func TestSyntheticXGFallsBackToGoalsBlend(t *testing.T) {
	matches := []models.MatchRecord{
		match("Arsenal", "West Ham", 2, 0),
		match("Everton", "Watford", 1, 1),
	}
	// League scoring rate per side: 4 goals / 4 sides = 1.0

	derived := NewFeatureDeriver(DefaultXGConfig()).Derive(matches)

	// 0.75*2 + 0.25*1.0
	assert.InDelta(t, 1.75, derived[0].HomeXG, 1e-9)
	// 0.75*0 + 0.25*1.0
	assert.InDelta(t, 0.25, derived[0].AwayXG, 1e-9)
}

func TestDeriveIsDeterministic(t *testing.T) {
	matches := []models.MatchRecord{
		match("Arsenal", "West Ham", 0, 2),
		match("Everton", "Watford", 2, 2),
	}

	deriver := NewFeatureDeriver(DefaultXGConfig())
	first := deriver.Derive(matches)
	second := deriver.Derive(matches)

	assert.Equal(t, first, second)
}

func TestDeriveDoesNotMutateInput(t *testing.T) {
	matches := []models.MatchRecord{match("Arsenal", "West Ham", 0, 2)}
	before := matches[0]

	NewFeatureDeriver(DefaultXGConfig()).Derive(matches)

	assert.Equal(t, before, matches[0])
}
