package cluster

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/stitts-dev/epl-analytics/pkg/utils"
)

// Config controls one clustering run. All knobs are externally supplied.
type Config struct {
	K             int
	Seed          int64
	MaxIterations int
}

// DefaultConfig returns the default clustering configuration: three tactical
// profiles.
func DefaultConfig() Config {
	return Config{K: 3, Seed: 42, MaxIterations: 100}
}

// TeamFeatures is one team's scoring-pattern feature vector for a window.
type TeamFeatures struct {
	Team   string
	Season string
	Values []float64
}

// FeatureNames documents the vector layout produced by BuildTeamFeatures.
var FeatureNames = []string{"avg_goals_scored", "avg_goals_conceded", "scoring_variance"}

// Assignment maps one team to its cluster for a run.
type Assignment struct {
	Team     string
	Season   string
	Cluster  int
	Label    string
	Features []float64
}

// Cluster labels, assigned from centroid scoring profiles.
const (
	LabelHighScoring = "high_scoring"
	LabelDefensive   = "defensive"
	LabelBalanced    = "balanced"
)

// Run partitions teams into cfg.K clusters with seeded k-means over
// standardized features. The same input and seed always produce the same
// assignments.
func Run(features []TeamFeatures, cfg Config) ([]Assignment, error) {
	if cfg.K <= 0 {
		return nil, utils.NewConfigurationError(fmt.Sprintf("cluster count must be positive, got %d", cfg.K))
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 100
	}
	if len(features) < cfg.K {
		return nil, utils.NewInsufficientDataError(
			fmt.Sprintf("clustering requires at least %d teams, got %d", cfg.K, len(features)))
	}

	// Sort inputs so callers passing map-derived slices still get
	// deterministic initialization
	sorted := make([]TeamFeatures, len(features))
	copy(sorted, features)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Season != sorted[j].Season {
			return sorted[i].Season < sorted[j].Season
		}
		return sorted[i].Team < sorted[j].Team
	})

	matrix := make([][]float64, len(sorted))
	for i, tf := range sorted {
		matrix[i] = append([]float64(nil), tf.Values...)
	}
	standardize(matrix)

	centroids := initialCentroids(matrix, cfg.K, cfg.Seed)
	assignments := make([]int, len(matrix))

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		changed := false
		for i, point := range matrix {
			best := nearestCentroid(point, centroids)
			if best != assignments[i] {
				assignments[i] = best
				changed = true
			}
		}

		recomputeCentroids(matrix, assignments, centroids)
		if !changed && iter > 0 {
			break
		}
	}

	labels := labelClusters(sorted, assignments, cfg.K)

	result := make([]Assignment, len(sorted))
	for i, tf := range sorted {
		result[i] = Assignment{
			Team:     tf.Team,
			Season:   tf.Season,
			Cluster:  assignments[i],
			Label:    labels[assignments[i]],
			Features: append([]float64(nil), tf.Values...),
		}
	}
	return result, nil
}

// standardize scales each feature column to zero mean and unit variance so
// scale differences across metrics do not dominate the distance.
func standardize(matrix [][]float64) {
	if len(matrix) == 0 {
		return
	}
	cols := len(matrix[0])
	for col := 0; col < cols; col++ {
		mean := 0.0
		for _, row := range matrix {
			mean += row[col]
		}
		mean /= float64(len(matrix))

		variance := 0.0
		for _, row := range matrix {
			variance += (row[col] - mean) * (row[col] - mean)
		}
		variance /= float64(len(matrix))
		stddev := math.Sqrt(variance)

		for _, row := range matrix {
			if stddev > 0 {
				row[col] = (row[col] - mean) / stddev
			} else {
				row[col] = 0
			}
		}
	}
}

// initialCentroids picks k distinct points with a seeded generator.
func initialCentroids(matrix [][]float64, k int, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(len(matrix))

	centroids := make([][]float64, k)
	for i := 0; i < k; i++ {
		centroids[i] = append([]float64(nil), matrix[perm[i]]...)
	}
	return centroids
}

func nearestCentroid(point []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for i, centroid := range centroids {
		dist := squaredDistance(point, centroid)
		if dist < bestDist {
			bestDist = dist
			best = i
		}
	}
	return best
}

func squaredDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}

func recomputeCentroids(matrix [][]float64, assignments []int, centroids [][]float64) {
	cols := len(matrix[0])
	counts := make([]int, len(centroids))
	sums := make([][]float64, len(centroids))
	for i := range sums {
		sums[i] = make([]float64, cols)
	}

	for i, point := range matrix {
		c := assignments[i]
		counts[c]++
		for col, v := range point {
			sums[c][col] += v
		}
	}

	for c := range centroids {
		if counts[c] == 0 {
			// Empty cluster keeps its previous centroid; with the
			// team-count guard this settles within a few iterations
			continue
		}
		for col := 0; col < cols; col++ {
			centroids[c][col] = sums[c][col] / float64(counts[c])
		}
	}
}

// labelClusters names clusters from their raw (unstandardized) scoring
// profiles: the highest-scoring cluster, the stingiest defense, and balanced
// for everything else.
func labelClusters(features []TeamFeatures, assignments []int, k int) []string {
	scored := make([]float64, k)
	conceded := make([]float64, k)
	counts := make([]int, k)

	for i, tf := range features {
		c := assignments[i]
		counts[c]++
		if len(tf.Values) > 0 {
			scored[c] += tf.Values[0]
		}
		if len(tf.Values) > 1 {
			conceded[c] += tf.Values[1]
		}
	}

	labels := make([]string, k)
	for c := range labels {
		labels[c] = LabelBalanced
		if counts[c] > 0 {
			scored[c] /= float64(counts[c])
			conceded[c] /= float64(counts[c])
		}
	}

	highScoring := -1
	bestScored := math.Inf(-1)
	for c := 0; c < k; c++ {
		if counts[c] > 0 && scored[c] > bestScored {
			bestScored = scored[c]
			highScoring = c
		}
	}
	if highScoring >= 0 {
		labels[highScoring] = LabelHighScoring
	}

	defensive := -1
	bestConceded := math.Inf(1)
	for c := 0; c < k; c++ {
		if c != highScoring && counts[c] > 0 && conceded[c] < bestConceded {
			bestConceded = conceded[c]
			defensive = c
		}
	}
	if defensive >= 0 {
		labels[defensive] = LabelDefensive
	}

	return labels
}
