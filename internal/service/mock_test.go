package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/sakif/exercise-tracker/internal/apperror"
	"github.com/sakif/exercise-tracker/internal/metrics"
	"github.com/sakif/exercise-tracker/internal/model"
)

// mockStore is an in-memory implementation of the repository interfaces.
// failOn makes the named method return a store error, to exercise the
// persistence error path.
type mockStore struct {
	mu        sync.Mutex
	users     map[string]model.User
	userOrder []string
	logs      map[string][]string // user id -> exercise ids in log order
	exercises map[string]model.Exercise
	nextID    int
	failOn    map[string]error
}

func newMockStore() *mockStore {
	return &mockStore{
		users:     make(map[string]model.User),
		logs:      make(map[string][]string),
		exercises: make(map[string]model.Exercise),
		failOn:    make(map[string]error),
	}
}

func (m *mockStore) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *mockStore) CreateUser(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failOn["CreateUser"]; err != nil {
		return err
	}
	user.ID = m.id("user")
	user.CreatedAt = time.Now()
	m.users[user.ID] = *user
	m.userOrder = append(m.userOrder, user.ID)
	m.logs[user.ID] = []string{}
	return nil
}

func (m *mockStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failOn["GetUserByID"]; err != nil {
		return nil, err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	return &u, nil
}

func (m *mockStore) ListUsers(_ context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failOn["ListUsers"]; err != nil {
		return nil, err
	}
	users := make([]model.User, 0, len(m.userOrder))
	for _, id := range m.userOrder {
		users = append(users, m.users[id])
	}
	return users, nil
}

func (m *mockStore) CreateExercise(_ context.Context, exercise *model.Exercise) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failOn["CreateExercise"]; err != nil {
		return err
	}
	ids, ok := m.logs[exercise.UserID]
	if !ok {
		return apperror.NotFound("log", exercise.UserID)
	}
	exercise.ID = m.id("exercise")
	exercise.CreatedAt = time.Now()
	m.exercises[exercise.ID] = *exercise
	m.logs[exercise.UserID] = append(ids, exercise.ID)
	return nil
}

func (m *mockStore) GetExerciseByID(_ context.Context, id string) (*model.Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.exercises[id]
	if !ok {
		return nil, apperror.NotFound("exercise", id)
	}
	return &e, nil
}

func (m *mockStore) GetLog(_ context.Context, userID string, filter model.LogFilter) (*model.Log, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failOn["GetLog"]; err != nil {
		return nil, err
	}
	ids, ok := m.logs[userID]
	if !ok {
		return nil, apperror.NotFound("log", userID)
	}
	log := &model.Log{UserID: userID, Count: len(ids), Exercises: []model.Exercise{}}
	for _, id := range ids {
		e := m.exercises[id]
		if !inWindow(filter, e.Date) {
			continue
		}
		log.Exercises = append(log.Exercises, e)
		if filter.Limit > 0 && len(log.Exercises) == filter.Limit {
			break
		}
	}
	return log, nil
}

// inWindow reports whether date falls inside [filter.From, filter.To).
func inWindow(filter model.LogFilter, date time.Time) bool {
	if filter.From != nil && date.Before(*filter.From) {
		return false
	}
	if filter.To != nil && !date.Before(*filter.To) {
		return false
	}
	return true
}

// =========================================================================
// TEST HELPERS
// =========================================================================

type testServices struct {
	users     *UserService
	exercises *ExerciseService
	logs      *LogService
	store     *mockStore
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	store := newMockStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := metrics.Nop{}
	return &testServices{
		users:     NewUserService(store, logger, rec),
		exercises: NewExerciseService(store, store, logger, rec),
		logs:      NewLogService(store, store, logger, rec),
		store:     store,
	}
}

func (ts *testServices) createUser(t *testing.T, username string) *model.User {
	t.Helper()
	u, err := ts.users.Create(context.Background(), username)
	if err != nil {
		t.Fatalf("setup: Create(%q) error = %v", username, err)
	}
	return u
}

func (ts *testServices) record(t *testing.T, userID, description, date string) *model.ExerciseRecord {
	t.Helper()
	rec, err := ts.exercises.Record(context.Background(), userID, description, 30, date)
	if err != nil {
		t.Fatalf("setup: Record(%q, %q) error = %v", description, date, err)
	}
	return rec
}
