package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sakif/exercise-tracker/internal/apperror"
	"github.com/sakif/exercise-tracker/internal/metrics"
	"github.com/sakif/exercise-tracker/internal/model"
	"github.com/sakif/exercise-tracker/internal/repository"
)

const MaxDescriptionLength = 500

// ExerciseService records exercises and keeps each user's log in step with them.
type ExerciseService struct {
	users     repository.UserRepository
	exercises repository.ExerciseRepository
	logger    *slog.Logger
	metrics   metrics.Recorder
	now       func() time.Time
}

func NewExerciseService(
	users repository.UserRepository,
	exercises repository.ExerciseRepository,
	logger *slog.Logger,
	rec metrics.Recorder,
) *ExerciseService {
	return &ExerciseService{
		users:     users,
		exercises: exercises,
		logger:    logger,
		metrics:   rec,
		now:       time.Now,
	}
}

// Record validates and stores an exercise for userID.
//
// date is optional; when empty the exercise is dated "now". Every input is
// checked before the store is touched. The returned record carries the
// username loaded for the existence check.
func (s *ExerciseService) Record(ctx context.Context, userID, description string, duration int, date string) (*model.ExerciseRecord, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}

	description = strings.TrimSpace(description)
	if description == "" {
		return nil, apperror.ValidationFailed("description", "description is required")
	}
	if len(description) > MaxDescriptionLength {
		return nil, apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or less", MaxDescriptionLength))
	}
	if duration < 1 {
		return nil, apperror.ValidationFailed("duration", "duration must be at least 1")
	}

	var when time.Time
	if date = strings.TrimSpace(date); date == "" {
		// stores keep millisecond precision
		when = s.now().UTC().Truncate(time.Millisecond)
	} else {
		parsed, ok := ParseDate(date)
		if !ok {
			return nil, apperror.InvalidDate("date")
		}
		when = parsed
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, storeFailure(s.logger, "looking up user", err, slog.String("user_id", userID))
	}

	exercise := &model.Exercise{
		UserID:      user.ID,
		Description: description,
		Duration:    duration,
		Date:        when,
	}
	if err := s.exercises.CreateExercise(ctx, exercise); err != nil {
		return nil, storeFailure(s.logger, "recording exercise", err, slog.String("user_id", userID))
	}

	s.metrics.RecordExerciseRecorded(duration)
	s.logger.Info("exercise recorded",
		slog.String("id", exercise.ID),
		slog.String("user_id", user.ID),
		slog.Int("duration", duration),
	)

	return &model.ExerciseRecord{Exercise: exercise, Username: user.Username}, nil
}

// Get re-reads a single exercise of userID. An exercise owned by someone else
// is reported as not found.
func (s *ExerciseService) Get(ctx context.Context, userID, exerciseID string) (*model.ExerciseRecord, error) {
	user, err := s.users.GetUserByID(ctx, strings.TrimSpace(userID))
	if err != nil {
		return nil, storeFailure(s.logger, "looking up user", err, slog.String("user_id", userID))
	}

	exercise, err := s.exercises.GetExerciseByID(ctx, strings.TrimSpace(exerciseID))
	if err != nil {
		return nil, storeFailure(s.logger, "getting exercise", err, slog.String("exercise_id", exerciseID))
	}
	if exercise.UserID != user.ID {
		return nil, apperror.NotFound("exercise", exerciseID)
	}

	return &model.ExerciseRecord{Exercise: exercise, Username: user.Username}, nil
}
