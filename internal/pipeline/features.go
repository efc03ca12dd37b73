package pipeline

import (
	"github.com/stitts-dev/epl-analytics/internal/models"
)

// XGConfig holds the coefficients of the synthetic expected-goals estimator.
// The estimate is an approximation, documented as such in the output; the
// weights are externally supplied, never hard-coded into the stages.
type XGConfig struct {
	// Per-shot and per-shot-on-target contributions when shot data exists
	ShotWeight   float64
	TargetWeight float64
	// Blend between actual goals and the league scoring rate for the
	// goals-based fallback
	BaselineWeight float64
}

// DefaultXGConfig returns the default estimator coefficients.
func DefaultXGConfig() XGConfig {
	return XGConfig{
		ShotWeight:     0.09,
		TargetWeight:   0.2,
		BaselineWeight: 0.75,
	}
}

// FeatureDeriver computes per-match derived metrics. It is a pure function
// of the match set: the same input always yields the same output.
type FeatureDeriver struct {
	cfg XGConfig
}

// NewFeatureDeriver creates a deriver with the given estimator coefficients.
func NewFeatureDeriver(cfg XGConfig) *FeatureDeriver {
	return &FeatureDeriver{cfg: cfg}
}

// Derive produces one DerivedMatchMetrics row per MatchRecord.
func (d *FeatureDeriver) Derive(matches []models.MatchRecord) []models.DerivedMatchMetrics {
	// League scoring rate per side, used by the goals-based xG fallback.
	// Computed from the input set itself so repeated runs agree exactly.
	scoringRate := leagueScoringRate(matches)

	derived := make([]models.DerivedMatchMetrics, 0, len(matches))
	for _, match := range matches {
		derived = append(derived, models.DerivedMatchMetrics{
			MatchID:       match.ID,
			TotalGoals:    match.HomeGoals + match.AwayGoals,
			Result:        deriveResult(match.HomeGoals, match.AwayGoals),
			HomeXG:        d.syntheticXG(match.HomeGoals, match.HomeShots, match.HomeShotsOnTarget, scoringRate),
			AwayXG:        d.syntheticXG(match.AwayGoals, match.AwayShots, match.AwayShotsOnTarget, scoringRate),
			XGApproximate: true,
		})
	}
	return derived
}

func deriveResult(homeGoals, awayGoals int) models.MatchResult {
	switch {
	case homeGoals > awayGoals:
		return models.ResultHomeWin
	case awayGoals > homeGoals:
		return models.ResultAwayWin
	default:
		return models.ResultDraw
	}
}

// syntheticXG estimates expected goals for one side. With shot data it is a
// shot-quality proxy; without, a blend of actual goals and the historical
// scoring rate. Both branches are deterministic.
func (d *FeatureDeriver) syntheticXG(goals int, shots, shotsOnTarget *int, scoringRate float64) float64 {
	if shots != nil && shotsOnTarget != nil {
		return d.cfg.ShotWeight*float64(*shots) + d.cfg.TargetWeight*float64(*shotsOnTarget)
	}
	return d.cfg.BaselineWeight*float64(goals) + (1-d.cfg.BaselineWeight)*scoringRate
}

// leagueScoringRate is the average goals scored per side per match across
// the full input set.
func leagueScoringRate(matches []models.MatchRecord) float64 {
	if len(matches) == 0 {
		return 0
	}
	total := 0
	for _, match := range matches {
		total += match.HomeGoals + match.AwayGoals
	}
	return float64(total) / float64(2*len(matches))
}
