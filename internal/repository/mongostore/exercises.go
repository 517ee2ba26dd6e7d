package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sakif/exercise-tracker/internal/apperror"
	"github.com/sakif/exercise-tracker/internal/model"
)

// CreateExercise inserts the exercise, then pushes its id onto the owner's log
// and increments the count in one atomic update. If the update does not apply,
// the exercise document is removed.
func (s *Store) CreateExercise(ctx context.Context, exercise *model.Exercise) error {
	userOID, ok := objectID(exercise.UserID)
	if !ok {
		return apperror.NotFound("user", exercise.UserID)
	}

	doc := exerciseDoc{
		ID:          primitive.NewObjectID(),
		UserID:      userOID,
		Description: exercise.Description,
		Duration:    exercise.Duration,
		Date:        exercise.Date.UTC(),
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}

	if _, err := s.exercises.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongo: inserting exercise for user %s: %w", exercise.UserID, err)
	}

	undo := func(ctx context.Context) error {
		_, err := s.exercises.DeleteOne(ctx, bson.M{"_id": doc.ID})
		return err
	}

	res, err := s.logs.UpdateOne(ctx,
		bson.M{"_id": userOID},
		bson.M{
			"$push": bson.M{"log": doc.ID},
			"$inc":  bson.M{"count": 1},
		},
	)
	if err != nil {
		return compensate(undo, fmt.Errorf("mongo: appending to log of user %s: %w", exercise.UserID, err))
	}
	if res.MatchedCount == 0 {
		return compensate(undo, apperror.NotFound("log", exercise.UserID))
	}

	exercise.ID = doc.ID.Hex()
	exercise.CreatedAt = doc.CreatedAt
	return nil
}

// GetExerciseByID returns apperror.ErrNotFound for unknown or malformed ids.
func (s *Store) GetExerciseByID(ctx context.Context, id string) (*model.Exercise, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, apperror.NotFound("exercise", id)
	}

	var doc exerciseDoc
	if err := s.exercises.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("exercise", id)
		}
		return nil, fmt.Errorf("mongo: getting exercise %s: %w", id, err)
	}

	e := doc.toModel()
	return &e, nil
}
