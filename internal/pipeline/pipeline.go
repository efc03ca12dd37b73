package pipeline

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/stitts-dev/epl-analytics/internal/analytics/cluster"
	"github.com/stitts-dev/epl-analytics/internal/analytics/regression"
	"github.com/stitts-dev/epl-analytics/internal/ingest"
	"github.com/stitts-dev/epl-analytics/internal/models"
	"github.com/stitts-dev/epl-analytics/pkg/logger"
	"github.com/stitts-dev/epl-analytics/pkg/utils"
)

// Options is the full configuration surface of one pipeline run. Everything
// is supplied by the caller; the stages hold no process-wide defaults.
type Options struct {
	Mapping    *ingest.ColumnMapping
	XG         XGConfig
	Cluster    cluster.Config
	Regression regression.Config
}

// DefaultOptions returns a runnable default configuration.
func DefaultOptions() Options {
	return Options{
		Mapping:    ingest.DefaultColumnMapping(),
		XG:         DefaultXGConfig(),
		Cluster:    cluster.DefaultConfig(),
		Regression: regression.DefaultConfig(),
	}
}

// Result is one immutable pipeline snapshot: every derived table stamped
// with the run ID, plus the data-quality report.
type Result struct {
	RunID        string
	Source       string
	Matches      []models.MatchRecord
	Derived      []models.DerivedMatchMetrics
	TeamPeriods  []models.TeamPeriodAggregate
	Progressions []models.PointsProgressionEntry
	LeagueTables []models.LeagueTableRow
	MonthlyGoals []models.MonthlyGoalsTrend
	Clusters     []models.ClusterAssignment
	Regressions  []models.RegressionResult
	Summary      Summary
	Quality      models.DataQualityReport
	Notices      []string
}

// Run executes the full pipeline over the supplied source tables: normalize,
// clean, derive, aggregate, cluster, and fit regressions. Row-level issues
// are absorbed into the quality report; schema and configuration problems
// abort the run.
func Run(tables []*ingest.RawTable, opts Options) (*Result, error) {
	if opts.Cluster.K <= 0 {
		return nil, utils.NewConfigurationError(fmt.Sprintf("cluster count must be positive, got %d", opts.Cluster.K))
	}
	if opts.Regression.MinSamples < 2 {
		return nil, utils.NewConfigurationError(fmt.Sprintf("regression minimum sample size must be at least 2, got %d", opts.Regression.MinSamples))
	}
	if opts.Mapping == nil {
		opts.Mapping = ingest.DefaultColumnMapping()
	}

	runID := uuid.New().String()
	log := logger.WithRunID(runID)

	normalizer := ingest.NewNormalizer(opts.Mapping)
	var rows []ingest.NormalizedRow
	var unresolved []string
	source := ""
	for _, table := range tables {
		normalized, err := normalizer.NormalizeTable(table)
		if err != nil {
			return nil, err
		}
		rows = append(rows, normalized.Rows...)
		unresolved = append(unresolved, normalized.UnresolvedColumns...)
		if source == "" {
			source = table.Source
		} else {
			source += "," + table.Source
		}
	}

	cleaned := NewCleaner().Clean(rows)
	derived := NewFeatureDeriver(opts.XG).Derive(cleaned.Matches)
	aggregates := Aggregate(cleaned.Matches)

	result := &Result{
		RunID:        runID,
		Source:       source,
		Matches:      cleaned.Matches,
		Derived:      derived,
		TeamPeriods:  aggregates.TeamPeriods,
		Progressions: aggregates.Progressions,
		LeagueTables: aggregates.LeagueTables,
		MonthlyGoals: aggregates.MonthlyGoals,
		Summary:      aggregates.Summary,
	}

	result.Clusters = runClustering(cleaned.Matches, opts.Cluster, result, log)
	result.Regressions = runRegressions(cleaned.Matches, derived, opts.Regression, log)

	result.Quality = buildQualityReport(cleaned, unresolved)
	stampRunID(result)

	log.WithFields(logrus.Fields{
		"matches":     len(result.Matches),
		"rejected":    result.Quality.RowsRejected,
		"clusters":    len(result.Clusters),
		"regressions": len(result.Regressions),
	}).Info("Pipeline run completed")

	return result, nil
}

// runClustering clusters each season independently. A season with fewer
// teams than clusters is reported as a notice, not a run failure.
func runClustering(matches []models.MatchRecord, cfg cluster.Config, result *Result, log *logrus.Entry) []models.ClusterAssignment {
	seasonSet := make(map[string]bool)
	for _, match := range matches {
		seasonSet[match.Season] = true
	}
	var seasons []string
	for season := range seasonSet {
		seasons = append(seasons, season)
	}
	sort.Strings(seasons)

	var assignments []models.ClusterAssignment
	for _, season := range seasons {
		features := cluster.BuildTeamFeatures(matches, season)
		clustered, err := cluster.Run(features, cfg)
		if err != nil {
			if utils.IsInsufficientData(err) {
				notice := fmt.Sprintf("clustering skipped for season %s: %v", season, err)
				result.Notices = append(result.Notices, notice)
				log.WithField("season", season).Warn(notice)
				continue
			}
			// Configuration problems were validated up front; anything
			// else here is a bug worth surfacing loudly
			log.WithField("season", season).Errorf("Clustering failed: %v", err)
			continue
		}

		for _, a := range clustered {
			featureMap := make(map[string]float64, len(a.Features))
			for i, name := range cluster.FeatureNames {
				if i < len(a.Features) {
					featureMap[name] = a.Features[i]
				}
			}
			featureJSON, _ := json.Marshal(featureMap)

			assignments = append(assignments, models.ClusterAssignment{
				Season:   a.Season,
				Team:     a.Team,
				Cluster:  a.Cluster,
				Label:    a.Label,
				Features: datatypes.JSON(featureJSON),
			})
		}
	}
	return assignments
}

type fitSpec struct {
	name    string
	feature string
	target  string
	x, y    []float64
}

// runRegressions fits the named relationships the dashboard reports on, plus
// pairwise correlations across the numeric match metrics for the heatmap.
// Insufficient series produce marked results rather than silent gaps.
func runRegressions(matches []models.MatchRecord, derived []models.DerivedMatchMetrics, cfg regression.Config, log *logrus.Entry) []models.RegressionResult {
	derivedByID := make(map[string]models.DerivedMatchMetrics, len(derived))
	for _, d := range derived {
		derivedByID[d.MatchID] = d
	}

	var xg, goals []float64
	var shotsOnTarget, shotGoals []float64
	var htHome, ftHome, htAway, ftAway []float64
	pressing := make(map[string][]float64)
	concededPerMatch := make(map[string][]float64)

	for _, match := range matches {
		d, ok := derivedByID[match.ID]
		if !ok {
			continue
		}

		xg = append(xg, d.HomeXG, d.AwayXG)
		goals = append(goals, float64(match.HomeGoals), float64(match.AwayGoals))

		if match.HomeShotsOnTarget != nil && match.AwayShotsOnTarget != nil {
			shotsOnTarget = append(shotsOnTarget, float64(*match.HomeShotsOnTarget), float64(*match.AwayShotsOnTarget))
			shotGoals = append(shotGoals, float64(match.HomeGoals), float64(match.AwayGoals))
		}
		if match.HalfTimeHomeGoals != nil && match.HalfTimeAwayGoals != nil {
			htHome = append(htHome, float64(*match.HalfTimeHomeGoals))
			ftHome = append(ftHome, float64(match.HomeGoals))
			htAway = append(htAway, float64(*match.HalfTimeAwayGoals))
			ftAway = append(ftAway, float64(match.AwayGoals))
		}
		if match.HomePressing != nil {
			pressing[match.HomeTeam] = append(pressing[match.HomeTeam], *match.HomePressing)
			concededPerMatch[match.HomeTeam] = append(concededPerMatch[match.HomeTeam], float64(match.AwayGoals))
		}
		if match.AwayPressing != nil {
			pressing[match.AwayTeam] = append(pressing[match.AwayTeam], *match.AwayPressing)
			concededPerMatch[match.AwayTeam] = append(concededPerMatch[match.AwayTeam], float64(match.HomeGoals))
		}
	}

	// Per-team averages for the pressing relationship, ordered for
	// reproducibility
	var teams []string
	for team := range pressing {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	var avgPressing, avgConceded []float64
	for _, team := range teams {
		avgPressing = append(avgPressing, seriesMean(pressing[team]))
		avgConceded = append(avgConceded, seriesMean(concededPerMatch[team]))
	}

	fits := []fitSpec{
		{"xg_vs_goals", "synthetic_xg", "goals", xg, goals},
		{"shots_on_target_vs_goals", "shots_on_target", "goals", shotsOnTarget, shotGoals},
		{"pressing_vs_conceded", "avg_pressing_actions", "avg_goals_conceded", avgPressing, avgConceded},
		{"ht_home_vs_ft_home", "half_time_home_goals", "home_goals", htHome, ftHome},
		{"ht_away_vs_ft_away", "half_time_away_goals", "away_goals", htAway, ftAway},
	}
	fits = append(fits, pairwiseFits(matches, derivedByID, fits)...)

	var results []models.RegressionResult
	for _, fit := range fits {
		fitted, err := regression.Fit(fit.name, fit.feature, fit.target, fit.x, fit.y, cfg)
		if err != nil {
			log.WithField("fit", fit.name).Errorf("Regression failed: %v", err)
			continue
		}
		if fitted.Insufficient {
			log.WithFields(logrus.Fields{
				"fit":     fit.name,
				"samples": fitted.SampleSize,
			}).Warn("Regression below minimum sample size")
		}
		results = append(results, models.RegressionResult{
			Name:         fitted.Name,
			Feature:      fitted.Feature,
			Target:       fitted.Target,
			Slope:        fitted.Slope,
			Intercept:    fitted.Intercept,
			R:            fitted.R,
			R2:           fitted.R2,
			SampleSize:   fitted.SampleSize,
			Insufficient: fitted.Insufficient,
		})
	}
	return results
}

// metricColumn reads one numeric metric off a match; ok is false when the
// source file did not carry the underlying stat.
type metricColumn struct {
	name  string
	value func(models.MatchRecord, models.DerivedMatchMetrics) (float64, bool)
}

var correlationMetrics = []metricColumn{
	{"home_goals", func(m models.MatchRecord, _ models.DerivedMatchMetrics) (float64, bool) {
		return float64(m.HomeGoals), true
	}},
	{"away_goals", func(m models.MatchRecord, _ models.DerivedMatchMetrics) (float64, bool) {
		return float64(m.AwayGoals), true
	}},
	{"half_time_home_goals", func(m models.MatchRecord, _ models.DerivedMatchMetrics) (float64, bool) {
		if m.HalfTimeHomeGoals == nil {
			return 0, false
		}
		return float64(*m.HalfTimeHomeGoals), true
	}},
	{"half_time_away_goals", func(m models.MatchRecord, _ models.DerivedMatchMetrics) (float64, bool) {
		if m.HalfTimeAwayGoals == nil {
			return 0, false
		}
		return float64(*m.HalfTimeAwayGoals), true
	}},
	{"home_shots", func(m models.MatchRecord, _ models.DerivedMatchMetrics) (float64, bool) {
		if m.HomeShots == nil {
			return 0, false
		}
		return float64(*m.HomeShots), true
	}},
	{"away_shots", func(m models.MatchRecord, _ models.DerivedMatchMetrics) (float64, bool) {
		if m.AwayShots == nil {
			return 0, false
		}
		return float64(*m.AwayShots), true
	}},
	{"home_xg", func(_ models.MatchRecord, d models.DerivedMatchMetrics) (float64, bool) {
		return d.HomeXG, true
	}},
	{"away_xg", func(_ models.MatchRecord, d models.DerivedMatchMetrics) (float64, bool) {
		return d.AwayXG, true
	}},
}

// pairwiseFits builds one fit per unordered pair of correlation metrics,
// skipping pairs a named fit already covers. A match contributes to a pair
// only when both metrics are present.
func pairwiseFits(matches []models.MatchRecord, derivedByID map[string]models.DerivedMatchMetrics, named []fitSpec) []fitSpec {
	covered := make(map[string]bool, 2*len(named))
	for _, fit := range named {
		covered[fit.feature+"|"+fit.target] = true
		covered[fit.target+"|"+fit.feature] = true
	}

	var fits []fitSpec
	for i := 0; i < len(correlationMetrics); i++ {
		for j := i + 1; j < len(correlationMetrics); j++ {
			a, b := correlationMetrics[i], correlationMetrics[j]
			if covered[a.name+"|"+b.name] {
				continue
			}

			var x, y []float64
			for _, match := range matches {
				d, ok := derivedByID[match.ID]
				if !ok {
					continue
				}
				xv, okX := a.value(match, d)
				yv, okY := b.value(match, d)
				if okX && okY {
					x = append(x, xv)
					y = append(y, yv)
				}
			}

			fits = append(fits, fitSpec{
				name:    a.name + "_vs_" + b.name,
				feature: a.name,
				target:  b.name,
				x:       x,
				y:       y,
			})
		}
	}
	return fits
}

func buildQualityReport(cleaned *CleanResult, unresolved []string) models.DataQualityReport {
	reasonsJSON, _ := json.Marshal(cleaned.RejectionReasons)
	unresolvedJSON, _ := json.Marshal(unresolved)

	return models.DataQualityReport{
		RowsRead:            cleaned.RowsRead,
		RowsAccepted:        len(cleaned.Matches),
		RowsRejected:        cleaned.RowsRejected,
		RejectionReasons:    datatypes.JSON(reasonsJSON),
		DuplicatesCollapsed: cleaned.DuplicatesCollapsed,
		ValuesImputed:       cleaned.ValuesImputed,
		UnresolvedColumns:   datatypes.JSON(unresolvedJSON),
	}
}

func stampRunID(result *Result) {
	for i := range result.Matches {
		result.Matches[i].RunID = result.RunID
	}
	for i := range result.Derived {
		result.Derived[i].RunID = result.RunID
	}
	for i := range result.TeamPeriods {
		result.TeamPeriods[i].RunID = result.RunID
	}
	for i := range result.Progressions {
		result.Progressions[i].RunID = result.RunID
	}
	for i := range result.LeagueTables {
		result.LeagueTables[i].RunID = result.RunID
	}
	for i := range result.MonthlyGoals {
		result.MonthlyGoals[i].RunID = result.RunID
	}
	for i := range result.Clusters {
		result.Clusters[i].RunID = result.RunID
	}
	for i := range result.Regressions {
		result.Regressions[i].RunID = result.RunID
	}
	result.Quality.RunID = result.RunID
}

func seriesMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
