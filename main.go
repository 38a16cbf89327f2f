package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver for database/sql (migrations)
	"go.uber.org/zap"

	"github.com/BartyZ/data-modeling-with-postgres/pkg/config"
	"github.com/BartyZ/data-modeling-with-postgres/pkg/database"
	"github.com/BartyZ/data-modeling-with-postgres/pkg/logging"
	"github.com/BartyZ/data-modeling-with-postgres/pkg/pipeline"
	"github.com/BartyZ/data-modeling-with-postgres/pkg/retry"
)

func main() {
	songDataDir := flag.String("song-data", "", "override song data root directory")
	logDataDir := flag.String("log-data", "", "override log data root directory")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *songDataDir != "" {
		cfg.Pipeline.SongDataDir = *songDataDir
	}
	if *logDataDir != "" {
		cfg.Pipeline.LogDataDir = *logDataDir
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("Pipeline run failed", zap.String("error", logging.SanitizeError(err)))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	connStr := cfg.Database.ConnectionString()
	logger.Info("Connecting to database",
		zap.String("dsn", logging.SanitizeConnectionString(connStr)))

	var db *database.DB
	err := retry.Do(ctx, retry.DefaultConfig(), func() error {
		var connErr error
		db, connErr = database.NewConnection(ctx, &database.Config{
			URL:            connStr,
			MaxConnections: cfg.Database.MaxConnections,
		})
		return connErr
	})
	if err != nil {
		return err
	}
	defer db.Close()

	// Apply schema before any load. Idempotent across reruns.
	sqlDB, err := sql.Open("pgx", connStr)
	if err != nil {
		return err
	}
	if err := database.RunMigrations(sqlDB, cfg.Pipeline.MigrationsPath, logger); err != nil {
		sqlDB.Close()
		return err
	}
	sqlDB.Close()

	driver := pipeline.New(db, cfg.Pipeline, logger)
	_, err = driver.Run(ctx)
	return err
}
