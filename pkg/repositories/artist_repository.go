package repositories

import (
	"context"

	"github.com/BartyZ/data-modeling-with-postgres/pkg/apperrors"
	"github.com/BartyZ/data-modeling-with-postgres/pkg/database"
	"github.com/BartyZ/data-modeling-with-postgres/pkg/models"
)

// ArtistRepository defines data access for the artists dimension.
type ArtistRepository interface {
	// Upsert inserts or overwrites an artist by its id. The same artist
	// recurs across catalog files; duplicates are never an error.
	Upsert(ctx context.Context, artist *models.Artist) error
}

// artistRepository implements ArtistRepository using PostgreSQL.
type artistRepository struct {
	q database.Querier
}

// NewArtistRepository creates an artist repository.
func NewArtistRepository(q database.Querier) ArtistRepository {
	return &artistRepository{q: q}
}

func (r *artistRepository) Upsert(ctx context.Context, artist *models.Artist) error {
	query := `
		INSERT INTO artists (artist_id, name, location, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (artist_id) DO UPDATE
		SET name = EXCLUDED.name,
		    location = EXCLUDED.location,
		    latitude = EXCLUDED.latitude,
		    longitude = EXCLUDED.longitude`

	_, err := r.q.Exec(ctx, query,
		artist.ArtistID,
		artist.Name,
		artist.Location,
		artist.Latitude,
		artist.Longitude,
	)
	if err != nil {
		return &apperrors.WriteError{Table: "artists", Key: artist.ArtistID, Err: err}
	}

	return nil
}

// Ensure artistRepository implements ArtistRepository at compile time.
var _ ArtistRepository = (*artistRepository)(nil)
