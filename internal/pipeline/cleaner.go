package pipeline

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/epl-analytics/internal/ingest"
	"github.com/stitts-dev/epl-analytics/internal/models"
	"github.com/stitts-dev/epl-analytics/pkg/logger"
)

// CleanResult is the cleaned match set plus the disposition tally. Cleaning
// never aborts on partial data quality; callers surface the tally instead.
type CleanResult struct {
	Matches             []models.MatchRecord
	RowsRead            int
	RowsRejected        int
	RejectionReasons    map[string]int
	DuplicatesCollapsed int
	ValuesImputed       int
}

// Cleaner resolves invalid rows, missing values, and duplicates
// deterministically.
type Cleaner struct {
	log *logrus.Entry
}

// NewCleaner creates a new cleaner.
func NewCleaner() *Cleaner {
	return &Cleaner{log: logger.WithStage("clean")}
}

// Clean turns normalized rows into the final MatchRecord set. Invalid rows
// are counted per reason and excluded; exact duplicates (same teams, date,
// score) collapse to one; missing optional numeric stats are imputed with the
// season median over valid rows.
func (c *Cleaner) Clean(rows []ingest.NormalizedRow) *CleanResult {
	result := &CleanResult{
		RowsRead:         len(rows),
		RejectionReasons: make(map[string]int),
	}

	seen := make(map[string]bool)
	var kept []ingest.NormalizedRow
	for _, row := range rows {
		if !row.Valid {
			result.RowsRejected++
			result.RejectionReasons[row.RejectReason]++
			continue
		}

		key := dedupeKey(row)
		if seen[key] {
			result.DuplicatesCollapsed++
			result.RejectionReasons[ingest.ReasonDuplicate]++
			continue
		}
		seen[key] = true
		kept = append(kept, row)
	}

	c.imputeOptionalStats(kept, result)

	result.Matches = make([]models.MatchRecord, 0, len(kept))
	for _, row := range kept {
		result.Matches = append(result.Matches, toMatchRecord(row))
	}

	c.log.WithFields(logrus.Fields{
		"rows_read":      result.RowsRead,
		"rows_rejected":  result.RowsRejected,
		"duplicates":     result.DuplicatesCollapsed,
		"values_imputed": result.ValuesImputed,
	}).Info("Cleaning completed")

	return result
}

func dedupeKey(row ingest.NormalizedRow) string {
	return models.MatchID(row.MatchDate, row.HomeTeam, row.AwayTeam)
}

// imputeOptionalStats fills missing non-essential numeric fields with the
// median of valid values from the same season.
func (c *Cleaner) imputeOptionalStats(rows []ingest.NormalizedRow, result *CleanResult) {
	intFields := []func(*ingest.NormalizedRow) **int{
		func(r *ingest.NormalizedRow) **int { return &r.HomeShots },
		func(r *ingest.NormalizedRow) **int { return &r.AwayShots },
		func(r *ingest.NormalizedRow) **int { return &r.HomeShotsOnTarget },
		func(r *ingest.NormalizedRow) **int { return &r.AwayShotsOnTarget },
	}
	floatFields := []func(*ingest.NormalizedRow) **float64{
		func(r *ingest.NormalizedRow) **float64 { return &r.HomePossession },
		func(r *ingest.NormalizedRow) **float64 { return &r.AwayPossession },
		func(r *ingest.NormalizedRow) **float64 { return &r.HomePressing },
		func(r *ingest.NormalizedRow) **float64 { return &r.AwayPressing },
	}

	for _, field := range intFields {
		bySeason := make(map[string][]float64)
		for i := range rows {
			if v := *field(&rows[i]); v != nil {
				bySeason[rows[i].Season] = append(bySeason[rows[i].Season], float64(*v))
			}
		}
		for i := range rows {
			slot := field(&rows[i])
			if *slot != nil {
				continue
			}
			values := bySeason[rows[i].Season]
			if len(values) == 0 {
				continue // no valid values this season, leave unset
			}
			imputed := int(median(values))
			*slot = &imputed
			result.ValuesImputed++
		}
	}

	for _, field := range floatFields {
		bySeason := make(map[string][]float64)
		for i := range rows {
			if v := *field(&rows[i]); v != nil {
				bySeason[rows[i].Season] = append(bySeason[rows[i].Season], *v)
			}
		}
		for i := range rows {
			slot := field(&rows[i])
			if *slot != nil {
				continue
			}
			values := bySeason[rows[i].Season]
			if len(values) == 0 {
				continue
			}
			imputed := median(values)
			*slot = &imputed
			result.ValuesImputed++
		}
	}
}

func toMatchRecord(row ingest.NormalizedRow) models.MatchRecord {
	return models.MatchRecord{
		ID:                models.MatchID(row.MatchDate, row.HomeTeam, row.AwayTeam),
		Season:            row.Season,
		MatchDate:         row.MatchDate,
		Matchweek:         row.Matchweek,
		HomeTeam:          row.HomeTeam,
		AwayTeam:          row.AwayTeam,
		HomeGoals:         row.HomeGoals,
		AwayGoals:         row.AwayGoals,
		HalfTimeHomeGoals: row.HalfTimeHomeGoals,
		HalfTimeAwayGoals: row.HalfTimeAwayGoals,
		HomeShots:         row.HomeShots,
		AwayShots:         row.AwayShots,
		HomeShotsOnTarget: row.HomeShotsOnTarget,
		AwayShotsOnTarget: row.AwayShotsOnTarget,
		HomePossession:    row.HomePossession,
		AwayPossession:    row.AwayPossession,
		HomePressing:      row.HomePressing,
		AwayPressing:      row.AwayPressing,
	}
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
