package models

// Song is a single catalog item. Upserted by SongID - reloading the same
// catalog file never duplicates rows.
type Song struct {
	SongID   string  `json:"song_id"`
	Title    string  `json:"title"`
	ArtistID string  `json:"artist_id"`
	Year     int     `json:"year"`
	Duration float64 `json:"duration"`
}
