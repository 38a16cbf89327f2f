package models

import "time"

// TimeRow is one calendar bucket, keyed by its start timestamp. Every
// field is a pure function of StartTime, so two rows for the same
// timestamp can never disagree.
type TimeRow struct {
	StartTime time.Time `json:"start_time"`
	Hour      int       `json:"hour"`
	Day       int       `json:"day"`
	Week      int       `json:"week"` // ISO week number
	Month     int       `json:"month"`
	Year      int       `json:"year"`
	Weekday   string    `json:"weekday"`
}

// NewTimeRow derives a calendar bucket from an epoch-millisecond
// timestamp. Buckets are always derived in UTC.
func NewTimeRow(epochMillis int64) TimeRow {
	ts := time.UnixMilli(epochMillis).UTC()
	_, week := ts.ISOWeek()

	return TimeRow{
		StartTime: ts,
		Hour:      ts.Hour(),
		Day:       ts.Day(),
		Week:      week,
		Month:     int(ts.Month()),
		Year:      ts.Year(),
		Weekday:   ts.Weekday().String(),
	}
}
