package mongostore

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sakif/exercise-tracker/internal/apperror"
	"github.com/sakif/exercise-tracker/internal/model"
)

// newTestStore connects to TEST_MONGO_URI and uses a throwaway database.
// The tests are skipped when no server is configured.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set; skipping MongoDB integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbName := fmt.Sprintf("exercise_tracker_test_%d", time.Now().UnixNano())
	s, err := New(ctx, uri, dbName)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = s.users.Database().Drop(context.Background())
		_ = s.Close()
	})
	return s
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestObjectID_RejectsMalformed(t *testing.T) {
	_, ok := objectID("not-an-object-id")
	assert.False(t, ok)

	_, ok = objectID("64b7f0c2a1b2c3d4e5f60718")
	assert.True(t, ok)
}

func TestInLogOrder(t *testing.T) {
	ids := []primitive.ObjectID{
		primitive.NewObjectID(),
		primitive.NewObjectID(),
		primitive.NewObjectID(),
		primitive.NewObjectID(),
	}
	exercise := func(i int) model.Exercise {
		return model.Exercise{ID: ids[i].Hex(), Description: fmt.Sprintf("e%d", i)}
	}
	// map iteration order is random, so the result can only come from ids
	all := map[primitive.ObjectID]model.Exercise{
		ids[3]: exercise(3), ids[0]: exercise(0), ids[2]: exercise(2), ids[1]: exercise(1),
	}
	window := map[primitive.ObjectID]model.Exercise{
		ids[3]: exercise(3), ids[1]: exercise(1),
	}

	tests := []struct {
		name  string
		found map[primitive.ObjectID]model.Exercise
		limit int
		want  []string
	}{
		{"stored order", all, 0, []string{"e0", "e1", "e2", "e3"}},
		{"limit takes the front", all, 2, []string{"e0", "e1"}},
		{"limit above size", all, 10, []string{"e0", "e1", "e2", "e3"}},
		{"ids outside the window are skipped", window, 0, []string{"e1", "e3"}},
		{"limit after the window", window, 1, []string{"e1"}},
		{"nothing found", map[primitive.ObjectID]model.Exercise{}, 0, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inLogOrder(ids, tt.found, tt.limit)
			descs := make([]string, 0, len(got))
			for _, e := range got {
				descs = append(descs, e.Description)
			}
			assert.Equal(t, tt.want, descs)
		})
	}
}

func TestStore_UserAndLogLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := &model.User{Username: "alice"}
	require.NoError(t, s.CreateUser(ctx, user))
	require.NotEmpty(t, user.ID)

	log, err := s.GetLog(ctx, user.ID, model.LogFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, log.Count)
	assert.Empty(t, log.Exercises)

	first := &model.Exercise{UserID: user.ID, Description: "run", Duration: 20, Date: day(2023, time.January, 15)}
	second := &model.Exercise{UserID: user.ID, Description: "swim", Duration: 40, Date: day(2023, time.January, 5)}
	require.NoError(t, s.CreateExercise(ctx, first))
	require.NoError(t, s.CreateExercise(ctx, second))

	log, err = s.GetLog(ctx, user.ID, model.LogFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, log.Count)
	require.Len(t, log.Exercises, 2)
	assert.Equal(t, first.ID, log.Exercises[0].ID)
	assert.Equal(t, second.ID, log.Exercises[1].ID)

	found, err := s.GetExerciseByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "run", found.Description)
	assert.Equal(t, 20, found.Duration)
	assert.True(t, found.Date.Equal(first.Date))
}

func TestStore_GetLogFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := &model.User{Username: "bob"}
	require.NoError(t, s.CreateUser(ctx, user))
	for _, e := range []struct {
		desc string
		date time.Time
	}{
		{"jan-15", day(2023, time.January, 15)},
		{"jan-05", day(2023, time.January, 5)},
		{"jan-10", day(2023, time.January, 10)},
		{"jan-20", day(2023, time.January, 20)},
	} {
		require.NoError(t, s.CreateExercise(ctx, &model.Exercise{
			UserID: user.ID, Description: e.desc, Duration: 10, Date: e.date,
		}))
	}

	from, to := day(2023, time.January, 10), day(2023, time.January, 20)
	log, err := s.GetLog(ctx, user.ID, model.LogFilter{From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, 4, log.Count)
	got := log.Exercises
	require.Len(t, got, 2)
	assert.Equal(t, "jan-15", got[0].Description)
	assert.Equal(t, "jan-10", got[1].Description)

	log, err = s.GetLog(ctx, user.ID, model.LogFilter{Limit: 3})
	require.NoError(t, err)
	got = log.Exercises
	require.Len(t, got, 3)
	assert.Equal(t, "jan-15", got[0].Description)
	assert.Equal(t, "jan-10", got[2].Description)
}

func TestStore_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetUserByID(ctx, "64b7f0c2a1b2c3d4e5f60718")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = s.GetUserByID(ctx, "garbage")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	err = s.CreateExercise(ctx, &model.Exercise{
		UserID: "64b7f0c2a1b2c3d4e5f60718", Description: "x", Duration: 1, Date: day(2023, time.March, 1),
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
