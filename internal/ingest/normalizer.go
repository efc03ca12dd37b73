package ingest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/epl-analytics/pkg/logger"
	"github.com/stitts-dev/epl-analytics/pkg/utils"
)

// Rejection reasons tallied across normalization and cleaning.
const (
	ReasonNonNumericGoals = "non_numeric_goals"
	ReasonNegativeGoals   = "negative_goals"
	ReasonBadDate         = "bad_date"
	ReasonDateOutOfSeason = "date_out_of_season"
	ReasonSameTeam        = "same_team"
	ReasonMissingField    = "missing_essential_field"
	ReasonDuplicate       = "duplicate"
)

// NormalizedRow is one source row after renaming and type coercion. Rows that
// fail coercion are marked invalid and passed to the Cleaner for disposition,
// never discarded here.
type NormalizedRow struct {
	Source string
	Line   int

	Season    string
	MatchDate time.Time
	Matchweek int
	HomeTeam  string
	AwayTeam  string
	HomeGoals int
	AwayGoals int

	HalfTimeHomeGoals *int
	HalfTimeAwayGoals *int
	HomeShots         *int
	AwayShots         *int
	HomeShotsOnTarget *int
	AwayShotsOnTarget *int
	HomePossession    *float64
	AwayPossession    *float64
	HomePressing      *float64
	AwayPressing      *float64

	Valid        bool
	RejectReason string
}

// NormalizeResult carries the normalized rows plus what could not be mapped.
type NormalizeResult struct {
	Rows              []NormalizedRow
	UnresolvedColumns []string
	InvalidRows       int
}

// Normalizer reconciles heterogeneous source tables to the canonical schema.
type Normalizer struct {
	mapping *ColumnMapping
	log     *logrus.Entry
}

// NewNormalizer creates a normalizer for the given rename table.
func NewNormalizer(mapping *ColumnMapping) *Normalizer {
	return &Normalizer{
		mapping: mapping,
		log:     logger.WithStage("normalize"),
	}
}

var dateLayouts = []string{"2006-01-02", "02/01/2006", "02/01/06", "2006-01-02 15:04:05"}

// NormalizeTable maps one raw table onto the canonical schema. A required
// canonical column missing from the header is a SchemaError for the whole
// run; per-row coercion failures only mark the affected row invalid.
func (n *Normalizer) NormalizeTable(table *RawTable) (*NormalizeResult, error) {
	columns := make(map[string]int) // canonical name -> header index
	var unresolved []string

	for i, name := range table.Header {
		canonical := n.mapping.Resolve(name)
		if canonical == "" {
			unresolved = append(unresolved, name)
			n.log.WithFields(logrus.Fields{
				"source": table.Source,
				"column": name,
			}).Warn("Unresolved source column dropped")
			continue
		}
		if _, exists := columns[canonical]; exists {
			n.log.WithFields(logrus.Fields{
				"source": table.Source,
				"column": name,
			}).Warn("Duplicate canonical column, keeping first occurrence")
			continue
		}
		columns[canonical] = i
	}

	for _, required := range RequiredColumns {
		if _, ok := columns[required]; !ok {
			return nil, utils.NewSchemaError(required)
		}
	}

	result := &NormalizeResult{UnresolvedColumns: unresolved}
	for i, record := range table.Rows {
		row := n.normalizeRow(table.Source, i+2, record, columns)
		if !row.Valid {
			result.InvalidRows++
		}
		result.Rows = append(result.Rows, row)
	}

	return result, nil
}

func (n *Normalizer) normalizeRow(source string, line int, record []string, columns map[string]int) NormalizedRow {
	row := NormalizedRow{Source: source, Line: line, Valid: true}

	field := func(canonical string) string {
		idx, ok := columns[canonical]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}
	reject := func(reason string) {
		if row.Valid {
			row.Valid = false
			row.RejectReason = reason
		}
	}

	row.HomeTeam = field(ColHomeTeam)
	row.AwayTeam = field(ColAwayTeam)
	if row.HomeTeam == "" || row.AwayTeam == "" {
		reject(ReasonMissingField)
	} else if row.HomeTeam == row.AwayTeam {
		reject(ReasonSameTeam)
	}

	if dateStr := field(ColMatchDate); dateStr == "" {
		reject(ReasonMissingField)
	} else if date, ok := parseDate(dateStr); ok {
		row.MatchDate = date
	} else {
		reject(ReasonBadDate)
	}

	for _, goals := range []struct {
		col  string
		dest *int
	}{
		{ColHomeGoals, &row.HomeGoals},
		{ColAwayGoals, &row.AwayGoals},
	} {
		value := field(goals.col)
		if value == "" {
			reject(ReasonMissingField)
			continue
		}
		parsed, err := strconv.Atoi(value)
		if err != nil {
			reject(ReasonNonNumericGoals)
			continue
		}
		if parsed < 0 {
			reject(ReasonNegativeGoals)
			continue
		}
		*goals.dest = parsed
	}

	row.Season = field(ColSeason)
	if row.Season == "" && !row.MatchDate.IsZero() {
		row.Season = SeasonForDate(row.MatchDate)
	}
	if row.Valid && !dateWithinSeason(row.MatchDate, row.Season) {
		reject(ReasonDateOutOfSeason)
	}

	if week := field(ColMatchweek); week != "" {
		if parsed, err := strconv.Atoi(week); err == nil {
			row.Matchweek = parsed
		}
	}

	// Optional stats: a bad value simply leaves the field unset
	row.HalfTimeHomeGoals = parseOptionalInt(field(ColHalfTimeHomeGoals))
	row.HalfTimeAwayGoals = parseOptionalInt(field(ColHalfTimeAwayGoals))
	row.HomeShots = parseOptionalInt(field(ColHomeShots))
	row.AwayShots = parseOptionalInt(field(ColAwayShots))
	row.HomeShotsOnTarget = parseOptionalInt(field(ColHomeShotsOnTarget))
	row.AwayShotsOnTarget = parseOptionalInt(field(ColAwayShotsOnTarget))
	row.HomePossession = parseOptionalFloat(field(ColHomePossession))
	row.AwayPossession = parseOptionalFloat(field(ColAwayPossession))
	row.HomePressing = parseOptionalFloat(field(ColHomePressing))
	row.AwayPressing = parseOptionalFloat(field(ColAwayPressing))

	return row
}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if date, err := time.Parse(layout, value); err == nil {
			return date, true
		}
	}
	return time.Time{}, false
}

func parseOptionalInt(value string) *int {
	if value == "" {
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return nil
	}
	return &parsed
}

func parseOptionalFloat(value string) *float64 {
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed < 0 {
		return nil
	}
	return &parsed
}

// SeasonForDate derives the season label from a match date. EPL seasons run
// August through May; July marks the start of the new season year.
func SeasonForDate(date time.Time) string {
	year := date.Year()
	if date.Month() < time.July {
		year--
	}
	return fmt.Sprintf("%d/%02d", year, (year+1)%100)
}

// dateWithinSeason checks the match date falls inside the declared season's
// July-to-June window.
func dateWithinSeason(date time.Time, season string) bool {
	if season == "" || date.IsZero() {
		return false
	}
	parts := strings.SplitN(season, "/", 2)
	startYear, err := strconv.Atoi(parts[0])
	if err != nil {
		// Unparseable season labels are accepted as declared
		return true
	}
	start := time.Date(startYear, time.July, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	return !date.Before(start) && date.Before(end)
}
