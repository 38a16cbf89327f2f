// Package loader applies transformed rows to the store. Dimension rows
// are idempotent upserts on their natural key; fact rows are
// append-only. Reprocessing the same input file leaves the store in the
// same state as processing it once.
package loader

import (
	"context"

	"go.uber.org/zap"

	"github.com/BartyZ/data-modeling-with-postgres/pkg/database"
	"github.com/BartyZ/data-modeling-with-postgres/pkg/models"
	"github.com/BartyZ/data-modeling-with-postgres/pkg/repositories"
	"github.com/BartyZ/data-modeling-with-postgres/pkg/transform"
)

// Loader writes transformed rows through the repositories against one
// Querier, usually a per-file transaction.
type Loader struct {
	songs     repositories.SongRepository
	artists   repositories.ArtistRepository
	times     repositories.TimeRepository
	users     repositories.UserRepository
	songplays repositories.SongplayRepository
	logger    *zap.Logger
}

// New creates a loader bound to q. toleranceSeconds configures the
// song repository's natural-key match.
func New(q database.Querier, toleranceSeconds float64, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		songs:     repositories.NewSongRepository(q, toleranceSeconds),
		artists:   repositories.NewArtistRepository(q),
		times:     repositories.NewTimeRepository(q),
		users:     repositories.NewUserRepository(q),
		songplays: repositories.NewSongplayRepository(q),
		logger:    logger,
	}
}

// Songs exposes the song repository, which doubles as the catalog
// matcher for the activity transformer.
func (l *Loader) Songs() repositories.SongRepository {
	return l.songs
}

// LoadCatalog applies one catalog record's rows: the artist before the
// song, so the song's artist reference always resolves.
func (l *Loader) LoadCatalog(ctx context.Context, song *models.Song, artist *models.Artist) error {
	if err := l.artists.Upsert(ctx, artist); err != nil {
		return err
	}
	if err := l.songs.Upsert(ctx, song); err != nil {
		return err
	}
	return nil
}

// LoadActivity applies one activity batch. Dimensions load before the
// facts referencing them, so time and user references always hold.
// Users are applied in batch order, keeping last-write-wins intact.
func (l *Loader) LoadActivity(ctx context.Context, batch *transform.ActivityBatch) error {
	for i := range batch.Times {
		if err := l.times.Upsert(ctx, &batch.Times[i]); err != nil {
			return err
		}
	}
	for i := range batch.Users {
		if err := l.users.Upsert(ctx, &batch.Users[i]); err != nil {
			return err
		}
	}
	for i := range batch.Plays {
		if err := l.songplays.Insert(ctx, &batch.Plays[i]); err != nil {
			return err
		}
	}

	l.logger.Debug("Loaded activity batch",
		zap.Int("time_rows", len(batch.Times)),
		zap.Int("users", len(batch.Users)),
		zap.Int("songplays", len(batch.Plays)))

	return nil
}
