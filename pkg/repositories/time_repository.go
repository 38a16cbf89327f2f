package repositories

import (
	"context"

	"github.com/BartyZ/data-modeling-with-postgres/pkg/apperrors"
	"github.com/BartyZ/data-modeling-with-postgres/pkg/database"
	"github.com/BartyZ/data-modeling-with-postgres/pkg/models"
)

// TimeRepository defines data access for the time dimension.
type TimeRepository interface {
	// Upsert inserts a calendar bucket. Because every field is a pure
	// function of the start timestamp, a conflicting key can only carry
	// identical values, so conflicts are a no-op.
	Upsert(ctx context.Context, row *models.TimeRow) error
}

// timeRepository implements TimeRepository using PostgreSQL.
type timeRepository struct {
	q database.Querier
}

// NewTimeRepository creates a time repository.
func NewTimeRepository(q database.Querier) TimeRepository {
	return &timeRepository{q: q}
}

func (r *timeRepository) Upsert(ctx context.Context, row *models.TimeRow) error {
	query := `
		INSERT INTO time (start_time, hour, day, week, month, year, weekday)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (start_time) DO NOTHING`

	_, err := r.q.Exec(ctx, query,
		row.StartTime,
		row.Hour,
		row.Day,
		row.Week,
		row.Month,
		row.Year,
		row.Weekday,
	)
	if err != nil {
		return &apperrors.WriteError{Table: "time", Key: row.StartTime.String(), Err: err}
	}

	return nil
}

// Ensure timeRepository implements TimeRepository at compile time.
var _ TimeRepository = (*timeRepository)(nil)
