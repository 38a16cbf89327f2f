package transform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BartyZ/data-modeling-with-postgres/pkg/records"
)

// mockMatcher resolves songs from an in-memory catalog keyed by
// "title|artist". Duration tolerance is checked the way the repository
// does it.
type mockMatcher struct {
	catalog   map[string][2]string // title|artist -> (songID, artistID)
	durations map[string]float64
	tolerance float64
	err       error
	calls     int
}

func (m *mockMatcher) MatchSong(ctx context.Context, title, artistName string, duration float64) (*string, *string, error) {
	m.calls++
	if m.err != nil {
		return nil, nil, m.err
	}
	key := title + "|" + artistName
	ids, ok := m.catalog[key]
	if !ok {
		return nil, nil, nil
	}
	if diff := m.durations[key] - duration; diff > m.tolerance || diff < -m.tolerance {
		return nil, nil, nil
	}
	songID, artistID := ids[0], ids[1]
	return &songID, &artistID, nil
}

func activityRecord(t *testing.T, raw string) records.Record {
	t.Helper()
	var rec records.Record
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))
	return rec
}

func playRecord(t *testing.T, ts int64, userID, level string) records.Record {
	t.Helper()
	return activityRecord(t, fmt.Sprintf(`{
		"page": "NextSong",
		"ts": %d,
		"userId": %q,
		"firstName": "Lily",
		"lastName": "Koch",
		"gender": "F",
		"level": %q,
		"sessionId": 583,
		"location": "Chicago-Naperville-Elgin, IL-IN-WI",
		"userAgent": "Mozilla/5.0",
		"song": "Deep Blue",
		"artist": "Test Artist",
		"length": 200.0
	}`, ts, userID, level))
}

func newTestTransformer(m *mockMatcher) *ActivityTransformer {
	return NewActivityTransformer(m, zap.NewNop())
}

func TestTransform_FiltersNonNextSongRecords(t *testing.T) {
	var recs []records.Record
	for i := 0; i < 20; i++ {
		recs = append(recs, playRecord(t, 1542299636796+int64(i)*1000, "26", "free"))
	}
	for i := 0; i < 30; i++ {
		recs = append(recs, activityRecord(t, `{"page":"Home","ts":1542299636796,"userId":"26"}`))
	}

	batch, err := newTestTransformer(&mockMatcher{}).Transform(context.Background(), recs)
	require.NoError(t, err)

	assert.Len(t, batch.Plays, 20)
	assert.Zero(t, batch.Rejected)
}

func TestTransform_DeduplicatesTimeRows(t *testing.T) {
	var recs []records.Record
	for i := 0; i < 100; i++ {
		recs = append(recs, playRecord(t, 1542299636796, "26", "free"))
	}

	batch, err := newTestTransformer(&mockMatcher{}).Transform(context.Background(), recs)
	require.NoError(t, err)

	require.Len(t, batch.Times, 1, "one timestamp must yield one calendar row")
	assert.Equal(t, time.UnixMilli(1542299636796).UTC(), batch.Times[0].StartTime)
	assert.Len(t, batch.Plays, 100, "facts are not deduplicated")
}

func TestTransform_LastLevelWinsPerUser(t *testing.T) {
	recs := []records.Record{
		playRecord(t, 1542299636796, "7", "free"),
		playRecord(t, 1542299637796, "26", "free"),
		playRecord(t, 1542299638796, "7", "paid"),
	}

	batch, err := newTestTransformer(&mockMatcher{}).Transform(context.Background(), recs)
	require.NoError(t, err)

	require.Len(t, batch.Users, 2)
	byID := map[string]string{}
	for _, u := range batch.Users {
		byID[u.UserID] = u.Level
	}
	assert.Equal(t, "paid", byID["7"], "later subscription state must win")
	assert.Equal(t, "free", byID["26"])
}

func TestTransform_ResolvesSongWithinTolerance(t *testing.T) {
	matcher := &mockMatcher{
		catalog:   map[string][2]string{"Deep Blue|Test Artist": {"SO1", "AR1"}},
		durations: map[string]float64{"Deep Blue|Test Artist": 233.2},
		tolerance: 0.5,
	}

	within := playRecord(t, 1542299636796, "26", "free")
	within["length"] = json.RawMessage(`233.19`)
	outside := playRecord(t, 1542299637796, "26", "free")
	outside["length"] = json.RawMessage(`240.0`)

	batch, err := newTestTransformer(matcher).Transform(context.Background(), []records.Record{within, outside})
	require.NoError(t, err)
	require.Len(t, batch.Plays, 2)

	require.NotNil(t, batch.Plays[0].SongID)
	assert.Equal(t, "SO1", *batch.Plays[0].SongID)
	require.NotNil(t, batch.Plays[0].ArtistID)
	assert.Equal(t, "AR1", *batch.Plays[0].ArtistID)

	assert.Nil(t, batch.Plays[1].SongID, "duration outside tolerance must not resolve")
	assert.Nil(t, batch.Plays[1].ArtistID)
}

func TestTransform_UnresolvedReferenceIsNotAnError(t *testing.T) {
	batch, err := newTestTransformer(&mockMatcher{}).Transform(context.Background(),
		[]records.Record{playRecord(t, 1542299636796, "26", "free")})
	require.NoError(t, err)

	require.Len(t, batch.Plays, 1)
	assert.Nil(t, batch.Plays[0].SongID)
	assert.Nil(t, batch.Plays[0].ArtistID)
	assert.Zero(t, batch.Rejected)
}

func TestTransform_MissingOptionalFieldsYieldNulls(t *testing.T) {
	rec := activityRecord(t, `{"page":"NextSong","ts":1542299636796,"userId":26,"level":"free"}`)

	batch, err := newTestTransformer(&mockMatcher{}).Transform(context.Background(), []records.Record{rec})
	require.NoError(t, err)
	require.Len(t, batch.Plays, 1)

	play := batch.Plays[0]
	assert.Equal(t, "26", play.UserID, "numeric userId is accepted")
	assert.Nil(t, play.SessionID)
	assert.Nil(t, play.Location)
	assert.Nil(t, play.UserAgent)
	assert.Nil(t, play.SongID, "no resolution attempt without the full triple")
}

func TestTransform_BadTimestampRejectsSingleRecord(t *testing.T) {
	recs := []records.Record{
		playRecord(t, 1542299636796, "26", "free"),
		activityRecord(t, `{"page":"NextSong","ts":"not-a-timestamp","userId":"26"}`),
		playRecord(t, 1542299637796, "26", "free"),
	}

	batch, err := newTestTransformer(&mockMatcher{}).Transform(context.Background(), recs)
	require.NoError(t, err, "a bad record must not fail the batch")

	assert.Len(t, batch.Plays, 2)
	assert.Equal(t, 1, batch.Rejected)
}

func TestTransform_MatcherFailureFailsBatch(t *testing.T) {
	matcher := &mockMatcher{err: errors.New("connection reset")}

	_, err := newTestTransformer(matcher).Transform(context.Background(),
		[]records.Record{playRecord(t, 1542299636796, "26", "free")})
	require.Error(t, err, "a store failure is not a record-level problem")
}

func TestTransform_FactsKeepFileOrder(t *testing.T) {
	recs := []records.Record{
		playRecord(t, 3000, "26", "free"),
		playRecord(t, 1000, "26", "free"),
		playRecord(t, 2000, "26", "free"),
	}

	batch, err := newTestTransformer(&mockMatcher{}).Transform(context.Background(), recs)
	require.NoError(t, err)
	require.Len(t, batch.Plays, 3)

	assert.Equal(t, int64(3000), batch.Plays[0].StartTime.UnixMilli())
	assert.Equal(t, int64(1000), batch.Plays[1].StartTime.UnixMilli())
	assert.Equal(t, int64(2000), batch.Plays[2].StartTime.UnixMilli())
}
