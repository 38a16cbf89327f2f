package transform

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/BartyZ/data-modeling-with-postgres/pkg/apperrors"
	"github.com/BartyZ/data-modeling-with-postgres/pkg/jsonutil"
	"github.com/BartyZ/data-modeling-with-postgres/pkg/models"
	"github.com/BartyZ/data-modeling-with-postgres/pkg/records"
)

// NextSongPage marks the only activity records that become facts. All
// other pages (Home, Login, ...) carry no fact-table meaning.
const NextSongPage = "NextSong"

// SongMatcher resolves an activity record's (song title, artist name,
// duration) triple against the catalog. Both ids are nil when nothing
// matches - the expected common case with sparse catalog coverage, not
// an error.
type SongMatcher interface {
	MatchSong(ctx context.Context, title, artistName string, duration float64) (songID, artistID *string, err error)
}

// ActivityBatch holds the rows derived from one activity log file.
type ActivityBatch struct {
	Times []models.TimeRow
	Users []models.User
	Plays []models.Songplay

	// Rejected counts records dropped with a schema error. The rest of
	// the batch still loads.
	Rejected int
}

// ActivityTransformer maps a batch of activity records into calendar,
// user, and songplay rows.
type ActivityTransformer struct {
	matcher SongMatcher
	logger  *zap.Logger
}

// NewActivityTransformer creates a transformer resolving catalog
// references through matcher.
func NewActivityTransformer(matcher SongMatcher, logger *zap.Logger) *ActivityTransformer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityTransformer{matcher: matcher, logger: logger}
}

// Transform derives all rows for one ordered batch of activity records.
// Records with an unparseable timestamp or no user id are rejected
// individually and logged; a matcher failure is a store problem and
// fails the whole batch.
func (t *ActivityTransformer) Transform(ctx context.Context, recs []records.Record) (*ActivityBatch, error) {
	batch := &ActivityBatch{}

	seenTimes := make(map[time.Time]struct{})
	userIndex := make(map[string]int)

	for i, rec := range recs {
		if page, _ := rec.String("page"); page != NextSongPage {
			continue
		}

		play, user, err := t.playRow(ctx, rec)
		if err != nil {
			var schemaErr *apperrors.SchemaError
			if !errors.As(err, &schemaErr) {
				// Not a record problem: the matcher's store call failed.
				return nil, err
			}
			batch.Rejected++
			t.logger.Warn("Rejected activity record",
				zap.Int("record", i),
				zap.Error(err))
			continue
		}

		if _, ok := seenTimes[play.StartTime]; !ok {
			seenTimes[play.StartTime] = struct{}{}
			batch.Times = append(batch.Times, models.NewTimeRow(play.StartTime.UnixMilli()))
		}

		// Last occurrence in file order wins: a user upgrading from free
		// to paid mid-file must end up paid.
		if idx, ok := userIndex[user.UserID]; ok {
			batch.Users[idx] = user
		} else {
			userIndex[user.UserID] = len(batch.Users)
			batch.Users = append(batch.Users, user)
		}

		batch.Plays = append(batch.Plays, *play)
	}

	return batch, nil
}

// playRow derives one fact row and its user row from a single record.
func (t *ActivityTransformer) playRow(ctx context.Context, rec records.Record) (*models.Songplay, models.User, error) {
	epochMillis, ok := rec.Int64("ts")
	if !ok {
		return nil, models.User{}, apperrors.NewSchemaError("ts", "missing or not an epoch-millisecond integer")
	}

	// userId arrives as a JSON number in some records and a string in
	// others; accept both.
	userID := jsonutil.FlexibleStringValue(rec["userId"])
	if userID == "" {
		return nil, models.User{}, apperrors.NewSchemaError("userId", "missing or empty")
	}

	level, _ := rec.String("level")

	user := models.User{
		UserID: userID,
		Level:  level,
	}
	user.FirstName, _ = rec.String("firstName")
	user.LastName, _ = rec.String("lastName")
	user.Gender, _ = rec.String("gender")

	play := &models.Songplay{
		StartTime: time.UnixMilli(epochMillis).UTC(),
		UserID:    userID,
		Level:     level,
	}
	// sessionId, location, and userAgent are not required for the fact
	// to be meaningful; absent values load as NULL.
	if sessionID, ok := rec.Int64("sessionId"); ok {
		play.SessionID = &sessionID
	}
	if location, ok := rec.String("location"); ok {
		play.Location = &location
	}
	if userAgent, ok := rec.String("userAgent"); ok {
		play.UserAgent = &userAgent
	}

	songID, artistID, err := t.resolveSong(ctx, rec)
	if err != nil {
		return nil, models.User{}, err
	}
	play.SongID = songID
	play.ArtistID = artistID

	return play, user, nil
}

// resolveSong looks the record's song reference up in the catalog. A
// record without the full (song, artist, length) triple cannot be
// resolved and keeps nil ids.
func (t *ActivityTransformer) resolveSong(ctx context.Context, rec records.Record) (*string, *string, error) {
	title, ok := rec.String("song")
	if !ok {
		return nil, nil, nil
	}
	artistName, ok := rec.String("artist")
	if !ok {
		return nil, nil, nil
	}
	length, ok := rec.Float64("length")
	if !ok {
		return nil, nil, nil
	}

	return t.matcher.MatchSong(ctx, title, artistName, length)
}
