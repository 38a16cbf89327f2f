package models

import "time"

// Songplay is one fact row: a single NextSong event. SongID and ArtistID
// come from a best-effort natural-key lookup against the catalog and are
// legitimately nil when no match exists. Facts are append-only; the
// surrogate key is assigned by the store.
type Songplay struct {
	StartTime time.Time `json:"start_time"`
	UserID    string    `json:"user_id"`
	Level     string    `json:"level"`
	SessionID *int64    `json:"session_id"`
	Location  *string   `json:"location"`
	UserAgent *string   `json:"user_agent"`
	SongID    *string   `json:"song_id"`
	ArtistID  *string   `json:"artist_id"`
}
