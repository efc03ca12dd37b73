package main

import (
	"log"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/epl-analytics/internal/models"
	"github.com/stitts-dev/epl-analytics/internal/store"
	"github.com/stitts-dev/epl-analytics/pkg/config"
	"github.com/stitts-dev/epl-analytics/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down]")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	command := os.Args[1]

	switch command {
	case "up":
		if err := store.NewStore(db).Migrate(); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		logrus.Info("Migrations completed successfully")

	case "down":
		if err := dropTables(db); err != nil {
			logrus.Fatalf("Failed to drop tables: %v", err)
		}
		logrus.Info("Tables dropped successfully")

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func dropTables(db *database.DB) error {
	return db.Migrator().DropTable(
		&models.DataQualityReport{},
		&models.RegressionResult{},
		&models.ClusterAssignment{},
		&models.MonthlyGoalsTrend{},
		&models.PointsProgressionEntry{},
		&models.LeagueTableRow{},
		&models.TeamPeriodAggregate{},
		&models.DerivedMatchMetrics{},
		&models.MatchRecord{},
		&models.PipelineSnapshot{},
	)
}
