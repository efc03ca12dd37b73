package regression

import (
	"fmt"
	"math"

	"github.com/stitts-dev/epl-analytics/pkg/utils"
)

// Config controls the regression engine. MinSamples is externally supplied.
type Config struct {
	MinSamples int
}

// DefaultConfig returns the default minimum paired-observation count.
func DefaultConfig() Config {
	return Config{MinSamples: 5}
}

// Result is one fitted linear relationship. When Insufficient is set the
// coefficients are zero and must not be interpreted; the result is reported,
// never fabricated.
type Result struct {
	Name         string
	Feature      string
	Target       string
	Slope        float64
	Intercept    float64
	R            float64
	R2           float64
	SampleSize   int
	Insufficient bool
}

// Fit computes an ordinary least squares line y = slope*x + intercept over
// two aligned series, with the Pearson correlation as the fit statistic.
// The engine never filters outliers; any preprocessing is the caller's
// explicit step.
func Fit(name, feature, target string, x, y []float64, cfg Config) (Result, error) {
	if len(x) != len(y) {
		return Result{}, utils.NewConfigurationError(
			fmt.Sprintf("series length mismatch for %s: %d vs %d", name, len(x), len(y)))
	}
	if cfg.MinSamples < 2 {
		return Result{}, utils.NewConfigurationError(
			fmt.Sprintf("minimum sample size must be at least 2, got %d", cfg.MinSamples))
	}

	result := Result{
		Name:       name,
		Feature:    feature,
		Target:     target,
		SampleSize: len(x),
	}

	if len(x) < cfg.MinSamples {
		result.Insufficient = true
		return result, nil
	}

	n := float64(len(x))
	var sumX, sumY, sumXY, sumXX, sumYY float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumXX += x[i] * x[i]
		sumYY += y[i] * y[i]
	}

	denomX := n*sumXX - sumX*sumX
	if math.Abs(denomX) < 1e-12 {
		// Degenerate feature series (all values identical); no line exists
		result.Insufficient = true
		return result, nil
	}

	result.Slope = (n*sumXY - sumX*sumY) / denomX
	result.Intercept = (sumY - result.Slope*sumX) / n

	denomY := n*sumYY - sumY*sumY
	if denomY > 1e-12 {
		result.R = (n*sumXY - sumX*sumY) / math.Sqrt(denomX*denomY)
		result.R2 = result.R * result.R
	}

	return result, nil
}

// Pearson returns the correlation coefficient for two aligned series, or an
// INSUFFICIENT_DATA error below the configured minimum.
func Pearson(x, y []float64, cfg Config) (float64, error) {
	result, err := Fit("pearson", "x", "y", x, y, cfg)
	if err != nil {
		return 0, err
	}
	if result.Insufficient {
		return 0, utils.NewInsufficientDataError(
			fmt.Sprintf("correlation requires at least %d paired observations, got %d", cfg.MinSamples, result.SampleSize))
	}
	return result.R, nil
}
