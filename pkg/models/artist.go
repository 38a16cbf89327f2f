package models

// Artist is the attribution entity a song belongs to. The same artist
// recurs across catalog files; a duplicate key is an overwrite, never an
// error.
type Artist struct {
	ArtistID  string   `json:"artist_id"`
	Name      string   `json:"name"`
	Location  string   `json:"location"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}
