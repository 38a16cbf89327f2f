// Package repositories holds the per-table data access layer. Each
// repository is bound to a database.Querier, so the same code runs
// against the pool or inside a per-file transaction.
package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/BartyZ/data-modeling-with-postgres/pkg/apperrors"
	"github.com/BartyZ/data-modeling-with-postgres/pkg/database"
	"github.com/BartyZ/data-modeling-with-postgres/pkg/models"
)

// SongRepository defines data access for the songs dimension.
type SongRepository interface {
	// Upsert inserts or overwrites a song by its id. Reapplying the same
	// song never raises a uniqueness violation.
	Upsert(ctx context.Context, song *models.Song) error
	// MatchSong resolves a (title, artist name, duration) triple to
	// (song_id, artist_id) with the configured duration tolerance. Both
	// ids are nil when nothing matches.
	MatchSong(ctx context.Context, title, artistName string, duration float64) (*string, *string, error)
}

// songRepository implements SongRepository using PostgreSQL.
type songRepository struct {
	q database.Querier
	// toleranceSeconds bounds the duration difference accepted when
	// matching reported against stored durations.
	toleranceSeconds float64
}

// NewSongRepository creates a song repository with the given duration
// match tolerance.
func NewSongRepository(q database.Querier, toleranceSeconds float64) SongRepository {
	return &songRepository{q: q, toleranceSeconds: toleranceSeconds}
}

func (r *songRepository) Upsert(ctx context.Context, song *models.Song) error {
	query := `
		INSERT INTO songs (song_id, title, artist_id, year, duration)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (song_id) DO UPDATE
		SET title = EXCLUDED.title,
		    artist_id = EXCLUDED.artist_id,
		    year = EXCLUDED.year,
		    duration = EXCLUDED.duration`

	_, err := r.q.Exec(ctx, query,
		song.SongID,
		song.Title,
		song.ArtistID,
		song.Year,
		song.Duration,
	)
	if err != nil {
		return &apperrors.WriteError{Table: "songs", Key: song.SongID, Err: err}
	}

	return nil
}

func (r *songRepository) MatchSong(ctx context.Context, title, artistName string, duration float64) (*string, *string, error) {
	query := `
		SELECT s.song_id, s.artist_id
		FROM songs s
		JOIN artists a ON s.artist_id = a.artist_id
		WHERE s.title = $1
		  AND a.name = $2
		  AND abs(s.duration - $3) <= $4
		LIMIT 1`

	var songID, artistID string
	err := r.q.QueryRow(ctx, query, title, artistName, duration, r.toleranceSeconds).
		Scan(&songID, &artistID)
	if err == pgx.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to match song %q: %w", title, err)
	}

	return &songID, &artistID, nil
}

// Ensure songRepository implements SongRepository at compile time.
var _ SongRepository = (*songRepository)(nil)
