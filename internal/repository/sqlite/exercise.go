package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/exercise-tracker/internal/apperror"
	"github.com/sakif/exercise-tracker/internal/model"
	"github.com/sakif/exercise-tracker/internal/repository"
)

var _ repository.ExerciseRepository = (*DB)(nil)

const exerciseColumns = `e.id, e.user_id, e.description, e.duration, e.date, e.created_at`

// CreateExercise inserts the exercise and appends it to the owner's log in one
// transaction. The log count is bumped with UPDATE ... RETURNING and the new
// entry takes the previous count as its position, so count == len(log) holds
// after every commit.
func (db *DB) CreateExercise(ctx context.Context, exercise *model.Exercise) error {
	exercise.ID = xid.New().String()
	exercise.CreatedAt = time.Now().UTC()

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO exercises (id, user_id, description, duration, date, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			exercise.ID,
			exercise.UserID,
			exercise.Description,
			exercise.Duration,
			exercise.Date.UnixMilli(),
			exercise.CreatedAt,
		); err != nil {
			return fmt.Errorf("inserting exercise: %w", err)
		}

		var count int
		err := tx.QueryRowContext(ctx,
			`UPDATE logs SET count = count + 1 WHERE user_id = ? RETURNING count`,
			exercise.UserID,
		).Scan(&count)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperror.NotFound("log", exercise.UserID)
			}
			return fmt.Errorf("incrementing log count: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO log_entries (user_id, position, exercise_id) VALUES (?, ?, ?)`,
			exercise.UserID, count-1, exercise.ID,
		); err != nil {
			return fmt.Errorf("appending log entry: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sqlite: creating exercise for user %s: %w", exercise.UserID, err)
	}

	return nil
}

// GetExerciseByID retrieves a single exercise.
// Returns apperror.ErrNotFound if it does not exist.
func (db *DB) GetExerciseByID(ctx context.Context, id string) (*model.Exercise, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+exerciseColumns+` FROM exercises e WHERE e.id = ?`,
		id,
	)

	exercise, err := scanExercise(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("exercise", id)
		}
		return nil, fmt.Errorf("sqlite: getting exercise %s: %w", id, err)
	}

	return exercise, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanExercise(row rowScanner) (*model.Exercise, error) {
	var (
		e      model.Exercise
		dateMs int64
	)
	if err := row.Scan(
		&e.ID, &e.UserID, &e.Description, &e.Duration, &dateMs, &e.CreatedAt,
	); err != nil {
		return nil, err
	}
	e.Date = time.UnixMilli(dateMs).UTC()
	return &e, nil
}
