// Package repository declares the persistence gateway the services depend on.
// Implementations live in the sqlite and mongo subpackages.
package repository

import (
	"context"

	"github.com/sakif/exercise-tracker/internal/model"
)

type UserRepository interface {
	// CreateUser stores the user and its empty log in one step.
	// It fills in user.ID and user.CreatedAt.
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}

type ExerciseRepository interface {
	// CreateExercise stores the exercise, appends its id to the owner's log
	// and increments the log count, all or nothing.
	CreateExercise(ctx context.Context, exercise *model.Exercise) error
	GetExerciseByID(ctx context.Context, id string) (*model.Exercise, error)
}

type LogRepository interface {
	// GetLog returns the log's count and its exercises in stored order,
	// narrowed by the filter. Both come from one consistent read.
	GetLog(ctx context.Context, userID string, filter model.LogFilter) (*model.Log, error)
}

// Store is a complete backend.
type Store interface {
	UserRepository
	ExerciseRepository
	LogRepository
	Ping(ctx context.Context) error
	Close() error
}
