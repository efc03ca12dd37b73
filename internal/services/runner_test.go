package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitts-dev/epl-analytics/internal/ingest"
	"github.com/stitts-dev/epl-analytics/pkg/config"
)

func testConfig() *config.Config {
	return &config.Config{
		DataDir:              "data",
		ClusterCount:         4,
		ClusterSeed:          7,
		RegressionMinSamples: 3,
		XGShotWeight:         0.1,
		XGTargetWeight:       0.25,
		XGBaselineWeight:     0.8,
	}
}

func TestOptionsBuildFromConfig(t *testing.T) {
	runner := NewRunnerService(testConfig(), nil, NewCacheService(nil))

	opts, err := runner.Options()
	require.NoError(t, err)

	assert.Equal(t, 4, opts.Cluster.K)
	assert.Equal(t, int64(7), opts.Cluster.Seed)
	assert.Equal(t, 3, opts.Regression.MinSamples)
	assert.InDelta(t, 0.1, opts.XG.ShotWeight, 1e-9)
	assert.InDelta(t, 0.25, opts.XG.TargetWeight, 1e-9)
	assert.InDelta(t, 0.8, opts.XG.BaselineWeight, 1e-9)
	assert.NotNil(t, opts.Mapping)
}

func TestOptionsLoadsCustomColumnMapping(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mapping.json")
	content := `{"version": "2", "columns": {"heimtore": "home_goals"}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := testConfig()
	cfg.ColumnMapFile = path
	runner := NewRunnerService(cfg, nil, NewCacheService(nil))

	opts, err := runner.Options()
	require.NoError(t, err)
	assert.Equal(t, ingest.ColHomeGoals, opts.Mapping.Resolve("heimtore"))
}

func TestOptionsBadColumnMappingFileIsError(t *testing.T) {
	cfg := testConfig()
	cfg.ColumnMapFile = "/nonexistent/mapping.json"
	runner := NewRunnerService(cfg, nil, NewCacheService(nil))

	_, err := runner.Options()
	assert.Error(t, err)
}

func TestCacheServiceDisabledWithoutClient(t *testing.T) {
	cache := NewCacheService(nil)

	assert.False(t, cache.Enabled())
	assert.NoError(t, cache.Set(nil, "key", "value", 0))
	assert.Error(t, cache.Get(nil, "key", nil))
	assert.NoError(t, cache.Flush())
}

func TestCacheKeyGenerators(t *testing.T) {
	assert.Equal(t, "table:run-1:matches", TableCacheKey("run-1", "matches"))
	assert.Equal(t, "summary:run-1", SummaryCacheKey("run-1"))
	assert.Equal(t, "prediction:run-1:Arsenal:Chelsea", PredictionCacheKey("run-1", "Arsenal", "Chelsea"))
}

func TestRunnerStatusBeforeFirstRun(t *testing.T) {
	runner := NewRunnerService(testConfig(), nil, NewCacheService(nil))

	status := runner.Status()
	assert.False(t, status.Running)
	assert.Empty(t, status.RunID)
	assert.Nil(t, runner.Latest())
}
