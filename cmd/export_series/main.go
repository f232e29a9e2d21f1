package main

import (
	"context"
	"flag"
	"log"

	"lpHedgeSim/config"
	"lpHedgeSim/internal/adapters/logger"
	"lpHedgeSim/internal/adapters/sqlite"
	"lpHedgeSim/internal/domain"
	"lpHedgeSim/internal/simulation"
	"lpHedgeSim/internal/utils"
)

// Exports the projected daily value series of a stored position to CSV for charting.
func main() {
	positionID := flag.String("id", "", "position id to export (default: first stored position)")
	outPath := flag.String("out", "projection.csv", "output CSV path")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	appLogger := logger.NewStdLogger(cfg.LogLevel)

	repo, err := sqlite.NewRepository(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to open database: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	var pos *domain.Position
	if *positionID != "" {
		pos, err = repo.FindByID(ctx, *positionID)
	} else {
		var all []*domain.Position
		all, err = repo.FindAll(ctx)
		if err == nil && len(all) > 0 {
			pos = all[0]
		}
	}
	if err != nil {
		log.Fatalf("FATAL: Failed to load position: %v", err)
	}
	if pos == nil {
		log.Fatalf("FATAL: No position found to export")
	}

	points := simulation.Project(*pos)
	if len(points) == 0 {
		log.Fatalf("FATAL: Position %s has no projectable horizon (zero duration or amounts)", pos.ID)
	}

	if err := utils.WriteSeriesToCSV(points, *outPath); err != nil {
		log.Fatalf("FATAL: Failed to write CSV: %v", err)
	}
	appLogger.Info(ctx, "Projection series exported", map[string]interface{}{
		"positionID": pos.ID,
		"days":       len(points),
		"path":       *outPath,
	})
}
