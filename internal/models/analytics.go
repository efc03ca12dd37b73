package models

import (
	"time"

	"gorm.io/datatypes"
)

// ClusterAssignment maps a team to one tactical cluster for a clustering run.
type ClusterAssignment struct {
	ID       uint           `gorm:"primaryKey" json:"id"`
	RunID    string         `gorm:"index;not null" json:"run_id"`
	Season   string         `gorm:"index" json:"season"`
	Team     string         `gorm:"index;not null" json:"team"`
	Cluster  int            `json:"cluster"`
	Label    string         `json:"label"` // "high_scoring", "defensive", "balanced"
	Features datatypes.JSON `json:"features"`
}

// TableName specifies the table name for GORM
func (ClusterAssignment) TableName() string {
	return "cluster_assignments"
}

// RegressionResult is one fitted relationship between two aligned series.
// Insufficient results carry no coefficients; they are reported, not dropped.
type RegressionResult struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	RunID        string  `gorm:"index;not null" json:"run_id"`
	Name         string  `gorm:"index;not null" json:"name"` // e.g. "xg_vs_goals"
	Feature      string  `json:"feature"`
	Target       string  `json:"target"`
	Slope        float64 `json:"slope"`
	Intercept    float64 `json:"intercept"`
	R            float64 `json:"r"`
	R2           float64 `json:"r2"`
	SampleSize   int     `json:"sample_size"`
	Insufficient bool    `json:"insufficient"`
}

// TableName specifies the table name for GORM
func (RegressionResult) TableName() string {
	return "regression_results"
}

// DataQualityReport summarizes what ingestion and cleaning did to a dataset.
// The dashboard displays it alongside results.
type DataQualityReport struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	RunID               string         `gorm:"uniqueIndex;not null" json:"run_id"`
	RowsRead            int            `json:"rows_read"`
	RowsAccepted        int            `json:"rows_accepted"`
	RowsRejected        int            `json:"rows_rejected"`
	RejectionReasons    datatypes.JSON `json:"rejection_reasons"`
	DuplicatesCollapsed int            `json:"duplicates_collapsed"`
	ValuesImputed       int            `json:"values_imputed"`
	UnresolvedColumns   datatypes.JSON `json:"unresolved_columns"`
}

// TableName specifies the table name for GORM
func (DataQualityReport) TableName() string {
	return "data_quality_reports"
}

// PipelineSnapshot records one completed pipeline run. The latest snapshot is
// what the read API serves.
type PipelineSnapshot struct {
	RunID      string    `gorm:"primaryKey" json:"run_id"`
	Source     string    `json:"source"`
	MatchCount int       `json:"match_count"`
	TeamCount  int       `json:"team_count"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for GORM
func (PipelineSnapshot) TableName() string {
	return "pipeline_snapshots"
}
