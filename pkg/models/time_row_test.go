package models

import (
	"testing"
	"time"
)

func TestNewTimeRow(t *testing.T) {
	// 2018-11-15 16:33:56.796 UTC, a Thursday in ISO week 46.
	const epochMillis = 1542299636796

	row := NewTimeRow(epochMillis)

	if !row.StartTime.Equal(time.UnixMilli(epochMillis)) {
		t.Errorf("StartTime = %v, want %v", row.StartTime, time.UnixMilli(epochMillis).UTC())
	}
	if row.Hour != 16 {
		t.Errorf("Hour = %d, want 16", row.Hour)
	}
	if row.Day != 15 {
		t.Errorf("Day = %d, want 15", row.Day)
	}
	if row.Week != 46 {
		t.Errorf("Week = %d, want 46", row.Week)
	}
	if row.Month != 11 {
		t.Errorf("Month = %d, want 11", row.Month)
	}
	if row.Year != 2018 {
		t.Errorf("Year = %d, want 2018", row.Year)
	}
	if row.Weekday != "Thursday" {
		t.Errorf("Weekday = %q, want Thursday", row.Weekday)
	}
}

func TestNewTimeRow_ISOWeekYearBoundary(t *testing.T) {
	// 2018-12-31 belongs to ISO week 1 of 2019.
	ts := time.Date(2018, 12, 31, 10, 0, 0, 0, time.UTC)

	row := NewTimeRow(ts.UnixMilli())

	if row.Week != 1 {
		t.Errorf("Week = %d, want 1", row.Week)
	}
	// Calendar year stays 2018 even though the ISO week belongs to 2019.
	if row.Year != 2018 {
		t.Errorf("Year = %d, want 2018", row.Year)
	}
}

func TestNewTimeRow_Deterministic(t *testing.T) {
	const epochMillis = 1542299636796

	if NewTimeRow(epochMillis) != NewTimeRow(epochMillis) {
		t.Error("NewTimeRow is not deterministic for the same timestamp")
	}
}
