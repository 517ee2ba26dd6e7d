package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sakif/exercise-tracker/internal/apperror"
	"github.com/sakif/exercise-tracker/internal/model"
)

// CreateUser inserts the user and then its empty log. Standalone servers have
// no multi-document transactions, so a failed log insert removes the user again.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	doc := userDoc{
		ID:        primitive.NewObjectID(),
		Username:  user.Username,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongo: inserting user %q: %w", user.Username, err)
	}

	_, err := s.logs.InsertOne(ctx, logDoc{
		UserID: doc.ID,
		Count:  0,
		Log:    []primitive.ObjectID{},
	})
	if err != nil {
		cause := fmt.Errorf("mongo: inserting log for user %s: %w", doc.ID.Hex(), err)
		return compensate(func(ctx context.Context) error {
			_, err := s.users.DeleteOne(ctx, bson.M{"_id": doc.ID})
			return err
		}, cause)
	}

	*user = doc.toModel()
	return nil
}

// GetUserByID returns apperror.ErrNotFound for unknown or malformed ids.
func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, apperror.NotFound("user", id)
	}

	var doc userDoc
	if err := s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("mongo: getting user %s: %w", id, err)
	}

	u := doc.toModel()
	return &u, nil
}

// ListUsers returns every user; ObjectIDs sort by creation time.
func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	cur, err := s.users.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongo: listing users: %w", err)
	}
	defer cur.Close(ctx)

	users := []model.User{}
	for cur.Next(ctx) {
		var doc userDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo: decoding user: %w", err)
		}
		users = append(users, doc.toModel())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("mongo: iterating users: %w", err)
	}

	return users, nil
}
