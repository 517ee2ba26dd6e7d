package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sakif/exercise-tracker/internal/apperror"
	"github.com/sakif/exercise-tracker/internal/model"
)

func (s *Store) findLog(ctx context.Context, userID string) (*logDoc, error) {
	oid, ok := objectID(userID)
	if !ok {
		return nil, apperror.NotFound("log", userID)
	}

	var doc logDoc
	if err := s.logs.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("log", userID)
		}
		return nil, fmt.Errorf("mongo: getting log for user %s: %w", userID, err)
	}
	return &doc, nil
}

// GetLog returns the user's log count and the logged exercises inside the
// date window, in the log's stored order, truncated to filter.Limit.
//
// Count and entries both come from the one log document read here. Exercises
// are immutable and inserted before their id is pushed, so every id in that
// document resolves. Returns apperror.ErrNotFound if there is no log.
func (s *Store) GetLog(ctx context.Context, userID string, filter model.LogFilter) (*model.Log, error) {
	doc, err := s.findLog(ctx, userID)
	if err != nil {
		return nil, err
	}

	log := &model.Log{UserID: userID, Count: doc.Count, Exercises: []model.Exercise{}}
	if len(doc.Log) == 0 {
		return log, nil
	}

	query := bson.M{"_id": bson.M{"$in": doc.Log}}
	dateRange := bson.M{}
	if filter.From != nil {
		dateRange["$gte"] = filter.From.UTC()
	}
	if filter.To != nil {
		dateRange["$lt"] = filter.To.UTC()
	}
	if len(dateRange) > 0 {
		query["date"] = dateRange
	}

	cur, err := s.exercises.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("mongo: listing exercises for user %s: %w", userID, err)
	}
	defer cur.Close(ctx)

	found := make(map[primitive.ObjectID]model.Exercise, len(doc.Log))
	for cur.Next(ctx) {
		var ed exerciseDoc
		if err := cur.Decode(&ed); err != nil {
			return nil, fmt.Errorf("mongo: decoding exercise: %w", err)
		}
		found[ed.ID] = ed.toModel()
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("mongo: iterating exercises: %w", err)
	}

	log.Exercises = inLogOrder(doc.Log, found, filter.Limit)
	return log, nil
}

// inLogOrder lays found out in the order of ids, skipping ids that weren't
// found (outside the date window), and stops after limit entries when
// limit > 0. $in gives no ordering guarantee, hence this pass.
func inLogOrder(ids []primitive.ObjectID, found map[primitive.ObjectID]model.Exercise, limit int) []model.Exercise {
	exercises := make([]model.Exercise, 0, len(found))
	for _, id := range ids {
		e, ok := found[id]
		if !ok {
			continue
		}
		exercises = append(exercises, e)
		if limit > 0 && len(exercises) == limit {
			break
		}
	}
	return exercises
}
