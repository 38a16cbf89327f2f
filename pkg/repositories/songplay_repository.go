package repositories

import (
	"context"
	"fmt"

	"github.com/BartyZ/data-modeling-with-postgres/pkg/apperrors"
	"github.com/BartyZ/data-modeling-with-postgres/pkg/database"
	"github.com/BartyZ/data-modeling-with-postgres/pkg/models"
)

// SongplayRepository defines data access for the songplays fact table.
type SongplayRepository interface {
	// Insert appends one fact row. Facts represent events and are never
	// deduplicated against existing rows.
	Insert(ctx context.Context, play *models.Songplay) error
}

// songplayRepository implements SongplayRepository using PostgreSQL.
type songplayRepository struct {
	q database.Querier
}

// NewSongplayRepository creates a songplay repository.
func NewSongplayRepository(q database.Querier) SongplayRepository {
	return &songplayRepository{q: q}
}

func (r *songplayRepository) Insert(ctx context.Context, play *models.Songplay) error {
	query := `
		INSERT INTO songplays (start_time, user_id, level, session_id, location, user_agent, song_id, artist_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.q.Exec(ctx, query,
		play.StartTime,
		play.UserID,
		play.Level,
		play.SessionID,
		play.Location,
		play.UserAgent,
		play.SongID,
		play.ArtistID,
	)
	if err != nil {
		key := fmt.Sprintf("user %s at %s", play.UserID, play.StartTime)
		return &apperrors.WriteError{Table: "songplays", Key: key, Err: err}
	}

	return nil
}

// Ensure songplayRepository implements SongplayRepository at compile time.
var _ SongplayRepository = (*songplayRepository)(nil)
