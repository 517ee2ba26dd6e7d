// Package mongostore implements the repository interfaces on MongoDB.
//
// Collections:
//   - users:     {_id, username, createdAt}
//   - logs:      {_id: <user id>, count, log: [<exercise id>...]}
//   - exercises: {_id, userId, description, duration, date, createdAt}
//
// A log shares its owner's _id, so there can only ever be one per user.
// Appending to a log is a single-document $push + $inc, which MongoDB applies
// atomically; concurrent recordings for the same user never lose an update.
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
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/sakif/exercise-tracker/internal/repository"
)

var _ repository.Store = (*Store)(nil)

const (
	usersCollection     = "users"
	logsCollection      = "logs"
	exercisesCollection = "exercises"
)

// Store is a MongoDB-backed repository.Store.
type Store struct {
	client    *mongo.Client
	users     *mongo.Collection
	logs      *mongo.Collection
	exercises *mongo.Collection
}

// New connects to uri, verifies the connection and makes sure the indexes exist.
func New(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connecting: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: pinging: %w", err)
	}

	db := client.Database(database)
	s := &Store{
		client:    client,
		users:     db.Collection(usersCollection),
		logs:      db.Collection(logsCollection),
		exercises: db.Collection(exercisesCollection),
	}

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.exercises.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetName("userId_date"),
	})
	if err != nil {
		return fmt.Errorf("mongo: creating exercises index: %w", err)
	}
	return nil
}

// Ping checks that the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo: ping: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// objectID parses a hex id. ok is false for anything that is not an ObjectID,
// which callers report as "not found".
func objectID(id string) (oid primitive.ObjectID, ok bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	return oid, err == nil
}

// compensate runs an undo step with its own short deadline, so it still
// runs when the request context is already cancelled.
func compensate(undo func(ctx context.Context) error, cause error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := undo(ctx); err != nil {
		return errors.Join(cause, fmt.Errorf("compensating: %w", err))
	}
	return cause
}
