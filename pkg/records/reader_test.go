package records

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BartyZ/data-modeling-with-postgres/pkg/apperrors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadFile_MultipleRecords(t *testing.T) {
	path := writeFile(t, "log.json",
		`{"page":"NextSong","ts":1542299636796,"userId":26}
{"page":"Home","ts":1542299637000,"userId":"26"}

{"page":"NextSong","ts":1542299700000,"userId":80}
`)

	recs, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, recs, 3, "blank lines must be skipped")

	page, ok := recs[0].String("page")
	assert.True(t, ok)
	assert.Equal(t, "NextSong", page)

	ts, ok := recs[0].Int64("ts")
	assert.True(t, ok)
	assert.Equal(t, int64(1542299636796), ts)
}

func TestReadFile_MalformedLineFailsWholeFile(t *testing.T) {
	path := writeFile(t, "bad.json",
		`{"song_id":"SOAAAA12AB018A9DD4","title":"Deep Blue"}
{not json at all
{"song_id":"SOBBBB12AB018A9DD5","title":"Other"}
`)

	recs, err := ReadFile(path)
	assert.Nil(t, recs, "a malformed file must not be partially applied")

	var parseErr *apperrors.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, path, parseErr.Path)
	assert.Equal(t, 2, parseErr.Line)
}

func TestReadFile_MissingFile(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestRecord_StrictAccessors(t *testing.T) {
	path := writeFile(t, "rec.json",
		`{"title":"Deep Blue","year":2001,"duration":200.0,"latitude":null,"sessionId":"583"}`)

	recs, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	rec := recs[0]

	// Wrong type is reported as absent, never coerced.
	_, ok := rec.Float64("title")
	assert.False(t, ok)
	_, ok = rec.String("year")
	assert.False(t, ok)
	_, ok = rec.Int64("sessionId")
	assert.False(t, ok, "numeric string is not an integer field")

	// Null reads as absent.
	_, ok = rec.Float64("latitude")
	assert.False(t, ok)

	year, ok := rec.Int64("year")
	assert.True(t, ok)
	assert.Equal(t, int64(2001), year)

	dur, ok := rec.Float64("duration")
	assert.True(t, ok)
	assert.Equal(t, 200.0, dur)
}
