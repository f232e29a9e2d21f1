package main

import (
	"context"
	"fmt"
	"log" // Use standard log only for initial fatal errors before logger is set up

	"lpHedgeSim/config"
	"lpHedgeSim/internal/adapters/binanceoracle"
	"lpHedgeSim/internal/adapters/logger"
	"lpHedgeSim/internal/adapters/sqlite"
	"lpHedgeSim/internal/app"
	"lpHedgeSim/internal/domain"
	"lpHedgeSim/internal/ports"
)

func main() {
	ctx := context.Background()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	// 2. Initialize Logger
	appLogger, err := buildLogger(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger: %v", err)
	}
	appLogger.Info(ctx, "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String(), "format": cfg.LogFormat})

	// 3. Initialize Repository (Database Adapter)
	repo, err := sqlite.NewRepository(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database repository: %v", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			appLogger.Error(ctx, err, "Error closing database repository")
		}
	}()

	// 4. Initialize Price Oracle (optional; the service falls back locally)
	var oracle ports.PriceOracle
	if cfg.OracleEnabled {
		oracle, err = binanceoracle.New(binanceoracle.Config{
			APIKey:      cfg.APIKey,
			SecretKey:   cfg.SecretKey,
			UseTestnet:  cfg.IsTestnet,
			Logger:      appLogger,
			QuoteSymbol: cfg.QuoteSymbol,
			MaxTries:    uint(cfg.OracleMaxTries),
		})
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize price oracle: %v", err)
		}
	} else {
		appLogger.Info(ctx, "Price oracle disabled, using local price estimates")
	}

	// 5. Initialize Application Service
	simulator, err := app.NewSimulatorService(app.Config{
		Logger:        appLogger,
		Positions:     repo,
		Drafts:        repo,
		Oracle:        oracle,
		OracleTimeout: cfg.OracleTimeout,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize simulator service: %v", err)
	}

	// 6. Run one simulation pass
	if err := run(ctx, appLogger, simulator); err != nil {
		appLogger.Error(ctx, err, "Simulation run failed")
		log.Fatalf("FATAL: Simulation run failed: %v", err)
	}
	appLogger.Info(ctx, "Simulation finished")
}

func buildLogger(cfg *config.Config) (ports.Logger, error) {
	if cfg.LogFormat == "zap" {
		return logger.NewZapLogger(cfg.LogLevel)
	}
	return logger.NewStdLogger(cfg.LogLevel), nil
}

// run evaluates every stored position, seeding a default one on first use.
func run(ctx context.Context, appLogger ports.Logger, simulator *app.SimulatorService) error {
	positions, err := simulator.ListPositions(ctx)
	if err != nil {
		return err
	}
	if len(positions) == 0 {
		pos, err := simulator.CreatePosition(ctx)
		if err != nil {
			return err
		}
		positions = []domain.Position{pos}
	}

	for _, pos := range positions {
		updated, usedFallback, err := simulator.RefreshPrices(ctx, pos.ID)
		if err != nil {
			return err
		}
		if usedFallback {
			appLogger.Warn(ctx, "Still using estimated prices", map[string]interface{}{"positionID": pos.ID})
		}

		snap, err := simulator.Evaluate(ctx, pos.ID)
		if err != nil {
			return err
		}
		points, err := simulator.Project(ctx, pos.ID)
		if err != nil {
			return err
		}

		appLogger.Info(ctx, "Position evaluated", map[string]interface{}{
			"positionID":        pos.ID,
			"pair":              fmt.Sprintf("%s/%s", updated.TokenA, updated.TokenB),
			"initialInvestment": snap.InitialInvestment,
			"holdValue":         snap.HoldValue,
			"impermanentLoss":   snap.ImpermanentLoss,
			"earnedFees":        snap.EarnedFees,
			"shortPnL":          snap.ShortPnL,
			"fundingPnL":        snap.FundingPnL,
			"totalNetReturn":    snap.TotalNetReturn,
			"finalTotalValue":   snap.FinalTotalValue,
			"inRange":           snap.Range.InRange,
			"projectionDays":    len(points),
		})
	}
	return nil
}
