package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/exercise-tracker/internal/apperror"
	"github.com/sakif/exercise-tracker/internal/metrics"
	"github.com/sakif/exercise-tracker/internal/model"
	"github.com/sakif/exercise-tracker/internal/repository"
)

const MaxUsernameLength = 100

// UserService creates and looks up users.
type UserService struct {
	repo    repository.UserRepository
	logger  *slog.Logger
	metrics metrics.Recorder
}

func NewUserService(repo repository.UserRepository, logger *slog.Logger, rec metrics.Recorder) *UserService {
	return &UserService{
		repo:    repo,
		logger:  logger,
		metrics: rec,
	}
}

// Create registers a user. The repository stores the user's empty log in the
// same step, so the user can have exercises recorded immediately.
func (s *UserService) Create(ctx context.Context, username string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if len(username) > MaxUsernameLength {
		return nil, apperror.ValidationFailed("username",
			fmt.Sprintf("username must be %d characters or less", MaxUsernameLength))
	}

	user := &model.User{Username: username}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, storeFailure(s.logger, "creating user", err, slog.String("username", username))
	}

	s.metrics.RecordUserCreated()
	s.logger.Info("user created",
		slog.String("id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// GetByID returns apperror.ErrNotFound if the user doesn't exist.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}

	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, storeFailure(s.logger, "getting user", err, slog.String("id", id))
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, storeFailure(s.logger, "listing users", err)
	}
	return users, nil
}
