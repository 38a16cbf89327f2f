package repositories

import (
	"context"

	"github.com/BartyZ/data-modeling-with-postgres/pkg/apperrors"
	"github.com/BartyZ/data-modeling-with-postgres/pkg/database"
	"github.com/BartyZ/data-modeling-with-postgres/pkg/models"
)

// UserRepository defines data access for the users dimension.
type UserRepository interface {
	// Upsert inserts or overwrites a user by id. Subscription level
	// changes across records; the value applied last wins, it is never
	// silently ignored.
	Upsert(ctx context.Context, user *models.User) error
}

// userRepository implements UserRepository using PostgreSQL.
type userRepository struct {
	q database.Querier
}

// NewUserRepository creates a user repository.
func NewUserRepository(q database.Querier) UserRepository {
	return &userRepository{q: q}
}

func (r *userRepository) Upsert(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (user_id, first_name, last_name, gender, level)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    gender = EXCLUDED.gender,
		    level = EXCLUDED.level`

	_, err := r.q.Exec(ctx, query,
		user.UserID,
		user.FirstName,
		user.LastName,
		user.Gender,
		user.Level,
	)
	if err != nil {
		return &apperrors.WriteError{Table: "users", Key: user.UserID, Err: err}
	}

	return nil
}

// Ensure userRepository implements UserRepository at compile time.
var _ UserRepository = (*userRepository)(nil)
