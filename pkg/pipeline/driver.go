// Package pipeline drives the ETL run: it discovers input files, feeds
// each through reader, transformer, and loader, and commits one
// transaction per file.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BartyZ/data-modeling-with-postgres/pkg/config"
	"github.com/BartyZ/data-modeling-with-postgres/pkg/database"
	"github.com/BartyZ/data-modeling-with-postgres/pkg/loader"
	"github.com/BartyZ/data-modeling-with-postgres/pkg/records"
	"github.com/BartyZ/data-modeling-with-postgres/pkg/transform"
)

// Stats summarizes one pipeline run.
type Stats struct {
	FilesFound      int
	FilesProcessed  int
	FilesFailed     int
	SongsLoaded     int
	PlaysLoaded     int
	RecordsRejected int
}

// Driver runs the whole pipeline: song catalog files first, then
// activity log files, so catalog references can resolve.
type Driver struct {
	db     *database.DB
	cfg    config.PipelineConfig
	logger *zap.Logger
}

// New creates a pipeline driver.
func New(db *database.DB, cfg config.PipelineConfig, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{db: db, cfg: cfg, logger: logger}
}

// processFileFunc loads one parsed file through a transaction-bound
// loader. Implementations are processSongFile and processLogFile.
type processFileFunc func(ctx context.Context, l *loader.Loader, recs []records.Record, stats *Stats) error

// Run executes the pipeline once. The returned stats are valid even when
// err is non-nil. Under the abort policy the first failing file stops
// the run; under continue the run finishes and err reports that some
// files failed.
func (d *Driver) Run(ctx context.Context) (*Stats, error) {
	runLogger := d.logger.With(zap.String("run_id", uuid.New().String()))
	stats := &Stats{}

	if err := d.processDir(ctx, runLogger, d.cfg.SongDataDir, d.processSongFile, stats); err != nil {
		return stats, err
	}
	if err := d.processDir(ctx, runLogger, d.cfg.LogDataDir, d.processLogFile, stats); err != nil {
		return stats, err
	}

	runLogger.Info("Pipeline run complete",
		zap.Int("files_found", stats.FilesFound),
		zap.Int("files_processed", stats.FilesProcessed),
		zap.Int("files_failed", stats.FilesFailed),
		zap.Int("songs_loaded", stats.SongsLoaded),
		zap.Int("plays_loaded", stats.PlaysLoaded),
		zap.Int("records_rejected", stats.RecordsRejected))

	if stats.FilesFailed > 0 {
		return stats, fmt.Errorf("%d of %d files failed", stats.FilesFailed, stats.FilesFound)
	}
	return stats, nil
}

// processDir discovers every input file under root and processes each in
// its own transaction, in discovery order.
func (d *Driver) processDir(ctx context.Context, logger *zap.Logger, root string, process processFileFunc, stats *Stats) error {
	files, err := DiscoverFiles(root, d.cfg.FileExt)
	if err != nil {
		return err
	}
	stats.FilesFound += len(files)
	logger.Info("Discovered input files", zap.String("root", root), zap.Int("count", len(files)))

	for i, path := range files {
		if err := d.processFile(ctx, path, process, stats); err != nil {
			stats.FilesFailed++
			logger.Error("Failed to process file", zap.String("path", path), zap.Error(err))
			if d.cfg.OnError == config.OnErrorAbort {
				return fmt.Errorf("failed to process %s: %w", path, err)
			}
			continue
		}
		stats.FilesProcessed++
		logger.Info("Processed file",
			zap.String("path", path),
			zap.String("progress", fmt.Sprintf("%d/%d", i+1, len(files))))
	}

	return nil
}

// processFile reads and loads one file inside a single transaction. A
// failure anywhere rolls back every row the file produced; committed
// state from prior files is never touched.
func (d *Driver) processFile(ctx context.Context, path string, process processFileFunc, stats *Stats) error {
	recs, err := records.ReadFile(path)
	if err != nil {
		return err
	}

	tx, err := d.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	l := loader.New(tx, d.cfg.MatchToleranceSeconds, d.logger)
	if err := process(ctx, l, recs, stats); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// processSongFile transforms and loads every catalog record in the file.
// Real catalog files carry exactly one record, but multi-record files
// are not truncated to their first row.
func (d *Driver) processSongFile(ctx context.Context, l *loader.Loader, recs []records.Record, stats *Stats) error {
	for _, rec := range recs {
		song, artist, err := transform.CatalogRows(rec)
		if err != nil {
			// Record-level: drop the record, keep the file.
			stats.RecordsRejected++
			d.logger.Warn("Rejected catalog record", zap.Error(err))
			continue
		}
		if err := l.LoadCatalog(ctx, song, artist); err != nil {
			return err
		}
		stats.SongsLoaded++
	}
	return nil
}

// processLogFile transforms and loads one activity log file.
func (d *Driver) processLogFile(ctx context.Context, l *loader.Loader, recs []records.Record, stats *Stats) error {
	transformer := transform.NewActivityTransformer(l.Songs(), d.logger)
	batch, err := transformer.Transform(ctx, recs)
	if err != nil {
		return err
	}
	stats.RecordsRejected += batch.Rejected

	if err := l.LoadActivity(ctx, batch); err != nil {
		return err
	}
	stats.PlaysLoaded += len(batch.Plays)
	return nil
}
