package regression

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/epl-analytics/pkg/utils"
)

func TestFitRecoversKnownLine(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{3, 5, 7, 9, 11} // y = 2x + 1

	result, err := Fit("test", "x", "y", x, y, DefaultConfig())
	require.NoError(t, err)

	assert.False(t, result.Insufficient)
	assert.InDelta(t, 2.0, result.Slope, 1e-9)
	assert.InDelta(t, 1.0, result.Intercept, 1e-9)
	assert.InDelta(t, 1.0, result.R, 1e-9)
	assert.InDelta(t, 1.0, result.R2, 1e-9)
	assert.Equal(t, 5, result.SampleSize)
}

func TestFitNegativeCorrelation(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{10, 8, 6, 4, 2}

	result, err := Fit("test", "x", "y", x, y, DefaultConfig())
	require.NoError(t, err)

	assert.InDelta(t, -2.0, result.Slope, 1e-9)
	assert.InDelta(t, -1.0, result.R, 1e-9)
}

func TestFitBelowMinimumIsInsufficientNotError(t *testing.T) {
	x := []float64{1, 2, 3}
	y := []float64{2, 4, 6}

	result, err := Fit("test", "x", "y", x, y, Config{MinSamples: 5})
	require.NoError(t, err)

	assert.True(t, result.Insufficient)
	assert.Equal(t, 3, result.SampleSize)
	assert.Zero(t, result.Slope)
	assert.Zero(t, result.R)
}

func TestFitDegenerateFeatureSeriesIsInsufficient(t *testing.T) {
	x := []float64{2, 2, 2, 2, 2}
	y := []float64{1, 2, 3, 4, 5}

	result, err := Fit("test", "x", "y", x, y, DefaultConfig())
	require.NoError(t, err)
	assert.True(t, result.Insufficient)
}

func TestFitLengthMismatchIsConfigurationError(t *testing.T) {
	_, err := Fit("test", "x", "y", []float64{1, 2}, []float64{1}, DefaultConfig())
	require.Error(t, err)

	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, utils.ErrCodeConfiguration, appErr.Code)
}

func TestFitMinSamplesBelowTwoIsConfigurationError(t *testing.T) {
	_, err := Fit("test", "x", "y", []float64{1, 2}, []float64{1, 2}, Config{MinSamples: 1})
	require.Error(t, err)

	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, utils.ErrCodeConfiguration, appErr.Code)
}

func TestPearsonBelowMinimumIsInsufficientDataError(t *testing.T) {
	_, err := Pearson([]float64{1, 2}, []float64{2, 4}, Config{MinSamples: 5})
	require.Error(t, err)
	assert.True(t, utils.IsInsufficientData(err))
}

func TestPearsonKnownCorrelation(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{2, 4, 6, 8, 10}

	r, err := Pearson(x, y, DefaultConfig())
	require.NoError(t, err)
	assert.InDelta(t, 1.0, r, 1e-9)
}
