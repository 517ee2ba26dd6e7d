package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sakif/exercise-tracker/internal/apperror"
	"github.com/sakif/exercise-tracker/internal/model"
	"github.com/sakif/exercise-tracker/internal/repository"
)

var _ repository.LogRepository = (*DB)(nil)

// GetLog returns the user's log count and the logged exercises in log order,
// keeping only dates in [filter.From, filter.To) and at most filter.Limit rows.
//
// Both reads share one transaction, so an append committed in between can't
// make the count disagree with the entries.
// Returns apperror.ErrNotFound if the user has no log.
func (db *DB) GetLog(ctx context.Context, userID string, filter model.LogFilter) (*model.Log, error) {
	log := &model.Log{UserID: userID}

	err := db.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`SELECT count FROM logs WHERE user_id = ?`,
			userID,
		).Scan(&log.Count)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperror.NotFound("log", userID)
			}
			return fmt.Errorf("sqlite: getting log for user %s: %w", userID, err)
		}

		log.Exercises, err = listLogExercises(ctx, tx, userID, filter)
		return err
	})
	if err != nil {
		return nil, err
	}
	return log, nil
}

func listLogExercises(ctx context.Context, tx *sql.Tx, userID string, filter model.LogFilter) ([]model.Exercise, error) {
	var (
		query strings.Builder
		args  = []any{userID}
	)

	query.WriteString(`SELECT ` + exerciseColumns + `
		FROM log_entries le
		JOIN exercises e ON e.id = le.exercise_id
		WHERE le.user_id = ?`)

	if filter.From != nil {
		query.WriteString(` AND e.date >= ?`)
		args = append(args, filter.From.UnixMilli())
	}
	if filter.To != nil {
		query.WriteString(` AND e.date < ?`)
		args = append(args, filter.To.UnixMilli())
	}

	query.WriteString(` ORDER BY le.position`)

	if filter.Limit > 0 {
		query.WriteString(` LIMIT ?`)
		args = append(args, filter.Limit)
	}

	rows, err := tx.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing exercises for user %s: %w", userID, err)
	}
	defer rows.Close()

	exercises := []model.Exercise{}
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning exercise row: %w", err)
		}
		exercises = append(exercises, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating exercises: %w", err)
	}

	return exercises, nil
}
