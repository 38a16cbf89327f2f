// Package transform derives dimension and fact rows from parsed records.
package transform

import (
	"github.com/BartyZ/data-modeling-with-postgres/pkg/apperrors"
	"github.com/BartyZ/data-modeling-with-postgres/pkg/models"
	"github.com/BartyZ/data-modeling-with-postgres/pkg/records"
)

// CatalogRows maps one catalog record to exactly one song row and one
// artist row. Required fields that are absent or of the wrong type fail
// the record with a *apperrors.SchemaError; nothing is coerced.
// Deduplication across files is the loader's job.
func CatalogRows(rec records.Record) (*models.Song, *models.Artist, error) {
	songID, ok := rec.String("song_id")
	if !ok || songID == "" {
		return nil, nil, apperrors.NewSchemaError("song_id", "missing or not a string")
	}
	title, ok := rec.String("title")
	if !ok {
		return nil, nil, apperrors.NewSchemaError("title", "missing or not a string")
	}
	artistID, ok := rec.String("artist_id")
	if !ok || artistID == "" {
		return nil, nil, apperrors.NewSchemaError("artist_id", "missing or not a string")
	}
	artistName, ok := rec.String("artist_name")
	if !ok {
		return nil, nil, apperrors.NewSchemaError("artist_name", "missing or not a string")
	}
	year, ok := rec.Int64("year")
	if !ok {
		return nil, nil, apperrors.NewSchemaError("year", "missing or not an integer")
	}
	duration, ok := rec.Float64("duration")
	if !ok {
		return nil, nil, apperrors.NewSchemaError("duration", "missing or not a number")
	}

	song := &models.Song{
		SongID:   songID,
		Title:    title,
		ArtistID: artistID,
		Year:     int(year),
		Duration: duration,
	}

	artist := &models.Artist{
		ArtistID: artistID,
		Name:     artistName,
	}
	// Location and coordinates are frequently absent in catalog data.
	if loc, ok := rec.String("artist_location"); ok {
		artist.Location = loc
	}
	if lat, ok := rec.Float64("artist_latitude"); ok {
		artist.Latitude = &lat
	}
	if lon, ok := rec.Float64("artist_longitude"); ok {
		artist.Longitude = &lon
	}

	return song, artist, nil
}
